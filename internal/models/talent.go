package models

import "time"

const DefaultTalentPercent = 60

// Talent is a managed person. UserID links the talent to an identity of the
// hosted auth provider and is empty until the talent gets a login.
type Talent struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	UserID         string    `json:"user_id,omitempty"`
	PercentDefault *float64  `json:"percent_default"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type TalentPage struct {
	Items []Talent `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"page_size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TalentQuery filters the talent list. Page is 1-based.
type TalentQuery struct {
	Search string
	Page   int
	Size   int
}

func (q TalentQuery) Normalize() TalentQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

func (q TalentQuery) Offset() int {
	return (q.Page - 1) * q.Size
}
