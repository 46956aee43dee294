package models

import "github.com/shopspring/decimal"

// CartView is the populated cart returned to the client.
type CartView struct {
	UserID   string          `json:"userId"`
	Cart     map[string]int  `json:"cart"`
	Products []Product       `json:"products"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// CartEvent is pushed on the cart:<userId> channel.
type CartEvent struct {
	Type  string          `json:"type"`
	Cart  map[string]int  `json:"cart"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

const (
	CartUpdated = "updated"
	CartCleared = "cleared"
)
