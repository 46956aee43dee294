package cache

import (
	"context"
	"encoding/json"

	"petshop_back_end/internal/models"
)

func CartChannel(userID string) string {
	return "cart:" + userID
}

// CartPublisher fans cart changes out to every socket subscribed to the user's channel.
type CartPublisher struct {
	client Client
}

func NewCartPublisher(client Client) *CartPublisher {
	return &CartPublisher{client: client}
}

func (p *CartPublisher) PublishCart(ctx context.Context, userID string, event models.CartEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, CartChannel(userID), payload).Err()
}
