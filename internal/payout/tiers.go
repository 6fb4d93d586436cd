package payout

import "talentpay/internal/structures"

type FlagType string

const (
	FlagBots        FlagType = "bots"
	FlagMassive     FlagType = "massive"
	FlagPositioning FlagType = "positioning"
)

var flagOrder = []FlagType{FlagPositioning, FlagBots, FlagMassive}

// Tier is one step of a surcharge table: units up to UpTo cost Amount. An
// Open step has no upper bound.
type Tier struct {
	UpTo   float64
	Amount float64
	Open   bool
}

type TierTable map[FlagType][]Tier

func DefaultTierTable() TierTable {
	return TierTable{
		FlagBots:        {{UpTo: 3000, Amount: 0}, {UpTo: 6000, Amount: 75000}, {Amount: 150000, Open: true}},
		FlagMassive:     {{UpTo: 3000, Amount: 0}, {UpTo: 6000, Amount: 50000}, {Amount: 100000, Open: true}},
		FlagPositioning: {{Amount: 60000, Open: true}},
	}
}

// TierTableFromConfig overlays the configured tables on the defaults. Only
// the last configured step may be open-ended, and only when its bound is
// zero; any other zero bound covers exactly zero units.
func TierTableFromConfig(tiers map[string][]structures.DiscountTier) TierTable {
	table := DefaultTierTable()
	for name, steps := range tiers {
		if len(steps) == 0 {
			continue
		}
		converted := make([]Tier, 0, len(steps))
		for i, s := range steps {
			upTo := nonNegative(s.UpTo)
			converted = append(converted, Tier{
				UpTo:   upTo,
				Amount: finite(s.Amount),
				Open:   i == len(steps)-1 && upTo == 0,
			})
		}
		table[FlagType(name)] = converted
	}
	return table
}

// Amount returns the surcharge for the given units. The last step applies
// when every bounded step is exceeded.
func (t TierTable) Amount(flag FlagType, units float64) (float64, bool) {
	steps, ok := t[flag]
	if !ok || len(steps) == 0 {
		return 0, false
	}
	for _, s := range steps {
		if s.Open || units <= s.UpTo {
			return s.Amount, true
		}
	}
	return steps[len(steps)-1].Amount, true
}
