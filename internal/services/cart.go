package services

import (
	"context"
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

type CartService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	notifier CartNotifier
}

// AddToCart inserts productID with quantity 1. A product already in the cart is left as is.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string) (*models.User, error) {
	if userID == "" || productID == "" {
		return nil, invalid("userId and productId are required")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	user, err := s.users.AddCartItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, user, models.CartUpdated)
	return user, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) (*models.User, error) {
	if userID == "" || productID == "" {
		return nil, invalid("userId and productId are required")
	}
	user, err := s.users.RemoveCartItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, user, models.CartUpdated)
	return user, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user)
}

func (s *CartService) view(ctx context.Context, user *models.User) (*models.CartView, error) {
	ids := make([]string, 0, len(user.Cart))
	for id := range user.Cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := []models.Product{}
	if len(ids) > 0 {
		found, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		products = found
	}

	total := decimal.Zero
	count := 0
	for _, p := range products {
		qty := user.Cart[p.ID]
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		count += qty
	}

	return &models.CartView{
		UserID:   user.ID,
		Cart:     user.Cart,
		Products: products,
		Total:    total,
		Count:    count,
	}, nil
}

func (s *CartService) notify(ctx context.Context, user *models.User, kind string) {
	if s.notifier == nil {
		return
	}
	event := models.CartEvent{Type: kind, Cart: map[string]int{}, Total: decimal.Zero}
	if kind != models.CartCleared {
		view, err := s.view(ctx, user)
		if err != nil {
			log.Printf("⚠️ Cart view for %s failed: %v", user.ID, err)
			return
		}
		event.Cart, event.Total, event.Count = view.Cart, view.Total, view.Count
	}
	if err := s.notifier.PublishCart(ctx, user.ID, event); err != nil {
		log.Printf("⚠️ Cart publish for %s failed: %v", user.ID, err)
	}
}
