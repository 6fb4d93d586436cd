package models

// ProductionEntry is the raw output a talent reported for one platform of a
// period. Weekly platforms fill Weeks, the others fill Total.
type ProductionEntry struct {
	PeriodID   string     `json:"period_id"`
	PlatformID string     `json:"platform_id"`
	Weeks      [3]float64 `json:"weeks"`
	Total      float64    `json:"total"`
}

func (p ProductionEntry) WeekSum() float64 {
	return p.Weeks[0] + p.Weeks[1] + p.Weeks[2]
}
