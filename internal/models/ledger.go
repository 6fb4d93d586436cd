package models

import "time"

type GroceryItem struct {
	Date     time.Time `json:"date"`
	Seller   string    `json:"seller"`
	Product  string    `json:"product"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Subtotal float64   `json:"subtotal"`
}

type LedgerResult struct {
	Total float64       `json:"total"`
	Items []GroceryItem `json:"items"`
}
