package models

import (
	"fmt"

	"github.com/gookit/validate"
)

type TalentInput struct {
	DisplayName string   `json:"display_name" validate:"required|maxLen:120"`
	UserID      string   `json:"user_id" validate:"maxLen:64"`
	Percent     *float64 `json:"percent_default"`
}

type ActiveInput struct {
	Active bool `json:"active"`
}

type PercentInput struct {
	Percent *float64 `json:"percent"`
}

type PeriodInput struct {
	Name             string   `json:"name" validate:"required|maxLen:120"`
	WeeksCount       int      `json:"weeks_count"`
	Percent          *float64 `json:"percent"`
	UsdToLocalRate   *float64 `json:"usd_to_local_rate"`
	EurToUsdRate     *float64 `json:"eur_to_usd_rate"`
	Goal             float64  `json:"goal"`
	State            string   `json:"state" validate:"in:open,closed,paid"`
	GroceriesEnabled bool     `json:"groceries_enabled"`
	StartDate        string   `json:"start_date" validate:"date"`
	EndDate          string   `json:"end_date" validate:"date"`
}

type DuplicateInput struct {
	Name       string   `json:"name" validate:"required|maxLen:120"`
	WeeksCount int      `json:"weeks_count"`
	Percent    *float64 `json:"percent"`
	StartDate  string   `json:"start_date" validate:"date"`
	EndDate    string   `json:"end_date" validate:"date"`
}

type LinkInput struct {
	Premium            string `json:"premium" validate:"in:none,premium_15,premium_25"`
	TrafficBots        bool   `json:"traffic_bots"`
	TrafficMassive     bool   `json:"traffic_massive"`
	TrafficPositioning bool   `json:"traffic_positioning"`
}

type PlatformInput struct {
	Name       string  `json:"name" validate:"required|maxLen:120"`
	Currency   string  `json:"currency" validate:"required|in:USD,EUR,TOKEN,CREDIT,usd,eur,token,tokens,credit,credits"`
	UnitToUsd  float64 `json:"unit_to_usd"`
	Weekly     bool    `json:"weekly"`
	HasTraffic bool    `json:"has_traffic"`
}

type ProductionInputEntry struct {
	PlatformID string    `json:"platform_id"`
	Weeks      []float64 `json:"weeks"`
	Total      float64   `json:"total"`
}

type ProductionInput struct {
	Entries []ProductionInputEntry `json:"entries"`
}

type DiscountInput struct {
	Name     string  `json:"name" validate:"required|maxLen:120"`
	Currency string  `json:"currency" validate:"maxLen:8"`
	Amount   float64 `json:"amount"`
}

type AmountInput struct {
	Amount *float64 `json:"amount"`
}

// Validate checks the struct tags of a request payload.
func Validate(input any) error {
	v := validate.Struct(input)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors.One())
	}
	return nil
}
