package models

import "time"

const (
	MinWeeks = 1
	MaxWeeks = 3

	PeriodTypeCustom = "custom"
)

// Period is one billing cycle of a talent. Rates and percent are nullable in
// the store; the payout engine applies defaults for missing values.
type Period struct {
	ID               string     `json:"id"`
	TalentID         string     `json:"talent_id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	State            string     `json:"state,omitempty"`
	WeeksCount       int        `json:"weeks_count"`
	Percent          *float64   `json:"percent"`
	UsdToLocalRate   *float64   `json:"usd_to_local_rate"`
	EurToUsdRate     *float64   `json:"eur_to_usd_rate"`
	Goal             float64    `json:"goal"`
	HoursWorked      *float64   `json:"hours_worked"`
	GroceriesEnabled bool       `json:"groceries_enabled"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PeriodSettings is a partial update of the editable numeric fields of a
// period. Nil fields are left untouched.
type PeriodSettings struct {
	Percent        *float64 `json:"percent"`
	UsdToLocalRate *float64 `json:"usd_to_local_rate"`
	EurToUsdRate   *float64 `json:"eur_to_usd_rate"`
	Goal           *float64 `json:"goal"`
	HoursWorked    *float64 `json:"hours_worked"`
}

func (s PeriodSettings) Empty() bool {
	return s.Percent == nil && s.UsdToLocalRate == nil && s.EurToUsdRate == nil && s.Goal == nil && s.HoursWorked == nil
}

// LedgerRange returns the inclusive date range used to query the grocery
// ledger, formatted as YYYY-MM-DD.
func (p *Period) LedgerRange() (string, string, bool) {
	if p.StartDate == nil || p.EndDate == nil {
		return "", "", false
	}
	return p.StartDate.Format(DateLayout), p.EndDate.Format(DateLayout), true
}

const DateLayout = "2006-01-02"
