package models

import "time"

// User is a storefront account. Cart maps product id to requested quantity.
type User struct {
	ID        string         `json:"_id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Email     string         `json:"email" bson:"email"`
	Password  string         `json:"password" bson:"password"`
	Cart      map[string]int `json:"cart" bson:"cart"`
	Orders    []string       `json:"orders" bson:"orders"`
	Products  []string       `json:"products" bson:"products"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
}

// Normalize replaces nil collections with empty ones so JSON never carries null.
func (u *User) Normalize() {
	if u.Cart == nil {
		u.Cart = map[string]int{}
	}
	if u.Orders == nil {
		u.Orders = []string{}
	}
	if u.Products == nil {
		u.Products = []string{}
	}
}

// Clone returns a deep copy.
func (u User) Clone() User {
	c := u
	c.Cart = make(map[string]int, len(u.Cart))
	for k, v := range u.Cart {
		c.Cart[k] = v
	}
	c.Orders = append([]string{}, u.Orders...)
	c.Products = append([]string{}, u.Products...)
	return c
}

// HasOrder reports whether orderID is linked from the user.
func (u User) HasOrder(orderID string) bool {
	for _, id := range u.Orders {
		if id == orderID {
			return true
		}
	}
	return false
}
