package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, like the storefront client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string          `json:"_id" bson:"_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Price       decimal.Decimal `json:"price" bson:"price"`
	Category    string          `json:"category" bson:"category"`
	SubCategory string          `json:"subCategory" bson:"sub_category"`
	ImageURL    string          `json:"imageUrl" bson:"image_url"`
	Quantity    int             `json:"quantity" bson:"quantity"`
	UserID      string          `json:"user" bson:"user"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
}
