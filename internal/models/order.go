package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending  = "Pending"
	OrderStatusOrphaned = "Orphaned"
)

// Order is written once by checkout. Products is the cart snapshot.
type Order struct {
	ID          string          `json:"_id" bson:"_id"`
	UserID      string          `json:"user" bson:"user"`
	Products    []string        `json:"products" bson:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount" bson:"total_amount"`
	Status      string          `json:"status" bson:"status"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
}

// OrderPlacedEvent is published after a successful checkout.
type OrderPlacedEvent struct {
	OrderID     string          `json:"orderId"`
	UserID      string          `json:"userId"`
	Products    []string        `json:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (o Order) PlacedEvent() OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Products:    append([]string{}, o.Products...),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}
