package payout

import (
	"fmt"
	"talentpay/internal/models"
)

var flagLabels = map[FlagType]string{
	FlagPositioning: "Positioning traffic",
	FlagBots:        "Bots traffic",
	FlagMassive:     "Massive traffic",
}

// TrafficUnits is the production volume a traffic surcharge is tiered on:
// the sum of the first weeks weekly values, or the period total when none
// of them were reported.
func TrafficUnits(prod models.ProductionEntry, weeks int) float64 {
	sum := 0.0
	for i := 0; i < min(max(weeks, 0), models.MaxWeeks); i++ {
		sum += nonNegative(prod.Weeks[i])
	}
	if sum > 0 {
		return sum
	}
	return nonNegative(prod.Total)
}

// TrafficDiscounts derives the surcharges for every enabled traffic flag of
// the period's links. Zero-amount tiers are included so callers can show
// them; persistence filters them out.
func (e *Engine) TrafficDiscounts(period models.Period, links []models.PlatformLink, production map[string]models.ProductionEntry) []models.DiscountEntry {
	var out []models.DiscountEntry
	for _, link := range links {
		units := TrafficUnits(production[link.PlatformID], period.WeeksCount)
		for _, flag := range flagOrder {
			if !linkHasFlag(link, flag) {
				continue
			}
			amount, ok := e.tiers.Amount(flag, units)
			if !ok {
				continue
			}
			out = append(out, models.DiscountEntry{
				PeriodID: period.ID,
				Key:      models.TrafficDiscountKey(link.PlatformID, string(flag)),
				Source:   models.DiscountTraffic,
				Name:     fmt.Sprintf("%s - %s", flagLabels[flag], link.Platform.Name),
				Currency: e.currency,
				Amount:   finite(amount),
			})
		}
	}
	return out
}

func (e *Engine) LedgerDiscount(periodID string, total float64) models.DiscountEntry {
	return models.DiscountEntry{
		PeriodID: periodID,
		Key:      models.LedgerDiscountKey(periodID),
		Source:   models.DiscountLedger,
		Name:     "Groceries",
		Currency: e.currency,
		Amount:   nonNegative(total),
	}
}

func linkHasFlag(link models.PlatformLink, flag FlagType) bool {
	switch flag {
	case FlagPositioning:
		return link.TrafficPositioning
	case FlagBots:
		return link.TrafficBots
	case FlagMassive:
		return link.TrafficMassive
	default:
		return false
	}
}
