package models

import "time"

type DiscountSource string

const (
	DiscountManual  DiscountSource = "manual"
	DiscountTraffic DiscountSource = "traffic"
	DiscountLedger  DiscountSource = "ledger"
)

// DiscountEntry is a deduction tied to a period. Key is the stable identity
// used to deduplicate entries coming from different sources.
type DiscountEntry struct {
	ID        string         `json:"id,omitempty"`
	PeriodID  string         `json:"period_id"`
	Key       string         `json:"key"`
	Source    DiscountSource `json:"source"`
	Name      string         `json:"name"`
	Currency  string         `json:"currency"`
	Amount    float64        `json:"amount"`
	Editable  bool           `json:"editable"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
}

func ManualDiscountKey(id string) string {
	return "manual:" + id
}

func TrafficDiscountKey(platformID, flag string) string {
	return "traffic:" + platformID + ":" + flag
}

func LedgerDiscountKey(periodID string) string {
	return "groceries:" + periodID
}
