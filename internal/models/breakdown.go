package models

type WeekBreakdown struct {
	Week      int     `json:"week"`
	Gross     float64 `json:"gross"`
	Deduction float64 `json:"deduction"`
	Net       float64 `json:"net"`
	Usd       float64 `json:"usd"`
	Tokens    int64   `json:"tokens"`
}

type PlatformBreakdown struct {
	PlatformID string          `json:"platform_id"`
	Name       string          `json:"name"`
	Weekly     bool            `json:"weekly"`
	Premium    PremiumTier     `json:"premium"`
	UnitToUsd  float64         `json:"unit_to_usd"`
	Gross      float64         `json:"gross"`
	Deduction  float64         `json:"deduction"`
	Net        float64         `json:"net"`
	Usd        float64         `json:"usd"`
	Tokens     int64           `json:"tokens"`
	Weeks      []WeekBreakdown `json:"weeks,omitempty"`
}

// PayoutBreakdown is the output of the payout engine. AvgTokensPerHour is
// nil when no hours were reported; ShortfallTokensDefined is false when the
// period has no percent or no exchange rate to invert.
type PayoutBreakdown struct {
	GrandTokens            int64               `json:"grand_tokens"`
	GrandUsd               float64             `json:"grand_usd"`
	GrossLocal             float64             `json:"gross_local"`
	TotalDiscounts         float64             `json:"total_discounts"`
	NetPayout              float64             `json:"net_payout"`
	ShortfallLocal         float64             `json:"shortfall_local"`
	ShortfallTokens        int64               `json:"shortfall_tokens"`
	ShortfallTokensDefined bool                `json:"shortfall_tokens_defined"`
	AvgTokensPerHour       *float64            `json:"avg_tokens_per_hour"`
	Platforms              []PlatformBreakdown `json:"platforms"`
	Discounts              []DiscountEntry     `json:"discounts"`
}

// PayoutReport wraps a breakdown with the period and talent it was computed
// for.
type PayoutReport struct {
	Period    Period          `json:"period"`
	Talent    *Talent         `json:"talent,omitempty"`
	Breakdown PayoutBreakdown `json:"breakdown"`
}
