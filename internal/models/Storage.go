package models

const StorageVersion = 1

// Storage is the snapshot envelope written by the file driver. Links are
// stored without their catalog entry.
type Storage struct {
	Version    int               `json:"version"`
	Talents    []Talent          `json:"talents"`
	Periods    []Period          `json:"periods"`
	Platforms  []Platform        `json:"platforms"`
	Links      []PlatformLink    `json:"links"`
	Production []ProductionEntry `json:"production"`
	Discounts  []DiscountEntry   `json:"discounts"`
}

// Counts reports the number of records per entity.
func (s *Storage) Counts() map[string]int {
	return map[string]int{
		"talents":    len(s.Talents),
		"periods":    len(s.Periods),
		"platforms":  len(s.Platforms),
		"links":      len(s.Links),
		"production": len(s.Production),
		"discounts":  len(s.Discounts),
	}
}
