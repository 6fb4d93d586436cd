package payout

import "math"

// UsdPerToken is the value of one token-equivalent, the common unit every
// platform is normalized to.
const UsdPerToken = 0.05

const (
	premiumFloor25 = 2000
	premiumFloor15 = 1000
)

type PremiumResult struct {
	Deduction float64 `json:"deduction"`
	Net       float64 `json:"net"`
}

// ApplyPremium takes pct percent of units, rounded up, but never less than
// the minimum fee of the tier. The net amount never goes below zero.
func ApplyPremium(units, pct float64) PremiumResult {
	units = nonNegative(units)
	pct = min(max(finite(pct), 0), 100)

	var floor float64
	switch pct {
	case 25:
		floor = premiumFloor25
	case 15:
		floor = premiumFloor15
	}

	deduction := math.Max(math.Ceil(units*pct/100), floor)
	return PremiumResult{
		Deduction: deduction,
		Net:       math.Max(units-deduction, 0),
	}
}

func toTokens(usd float64) int64 {
	return int64(math.Round(finite(usd) / UsdPerToken))
}
