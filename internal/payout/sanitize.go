package payout

import "math"

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finite(v)
	if v < 0 {
		return 0
	}
	return v
}

// rateOrDefault treats a missing or non-finite rate as 1 and clamps
// negative rates to 0.
func rateOrDefault(rate *float64) float64 {
	if rate == nil || math.IsNaN(*rate) || math.IsInf(*rate, 0) {
		return 1
	}
	if *rate < 0 {
		return 0
	}
	return *rate
}

func percentOf(percent *float64) float64 {
	if percent == nil {
		return 0
	}
	return min(max(finite(*percent), 0), 100)
}
