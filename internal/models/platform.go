package models

type Currency string

const (
	CurrencyUSD    Currency = "USD"
	CurrencyEUR    Currency = "EUR"
	CurrencyToken  Currency = "TOKEN"
	CurrencyCredit Currency = "CREDIT"
)

// ParseCurrency accepts the catalog spellings ("usd", "tokens", "credits",
// "eur") and falls back to USD for anything unknown.
func ParseCurrency(s string) Currency {
	switch s {
	case "EUR", "eur":
		return CurrencyEUR
	case "TOKEN", "token", "tokens", "TOKENS":
		return CurrencyToken
	case "CREDIT", "credit", "credits", "CREDITS":
		return CurrencyCredit
	default:
		return CurrencyUSD
	}
}

type PremiumTier string

const (
	PremiumNone PremiumTier = "none"
	Premium15   PremiumTier = "premium_15"
	Premium25   PremiumTier = "premium_25"
)

// Percent maps a premium tier to its deduction percentage.
func (t PremiumTier) Percent() float64 {
	switch t {
	case Premium15:
		return 15
	case Premium25:
		return 25
	default:
		return 0
	}
}

func ParsePremiumTier(s string) PremiumTier {
	switch PremiumTier(s) {
	case Premium15, Premium25:
		return PremiumTier(s)
	default:
		return PremiumNone
	}
}

// Platform is a catalog entry for a content platform.
type Platform struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Currency   Currency `json:"currency"`
	UnitToUsd  float64  `json:"unit_to_usd"`
	Weekly     bool     `json:"weekly"`
	HasTraffic bool     `json:"has_traffic"`
}

// PlatformLink attaches a catalog platform to a period together with the
// per-period premium tier and traffic flags.
type PlatformLink struct {
	PeriodID           string      `json:"period_id"`
	PlatformID         string      `json:"platform_id"`
	Platform           Platform    `json:"platform"`
	Premium            PremiumTier `json:"premium"`
	TrafficBots        bool        `json:"traffic_bots"`
	TrafficMassive     bool        `json:"traffic_massive"`
	TrafficPositioning bool        `json:"traffic_positioning"`
}

// LinkedPlatform is a catalog row annotated with its link state for one
// period, as shown on the admin platform screen.
type LinkedPlatform struct {
	Platform
	Enabled bool          `json:"enabled"`
	Link    *PlatformLink `json:"link,omitempty"`
}
