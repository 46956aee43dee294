package services

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/events"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

type CheckoutService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	products repository.ProductRepository
	idem     IdempotencyStore
	events   events.Publisher
	carts    *CartService
	mailer   Mailer
	bg       *background
	now      func() time.Time
}

type PlaceOrderInput struct {
	UserID      string          `json:"userId"`
	Products    []string        `json:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	// IdempotencyKey comes from the Idempotency-Key header.
	IdempotencyKey string `json:"-"`
}

// PlaceOrder turns the submitted cart into an order, links it to the user and
// empties the cart. replayed is true when an earlier request with the same
// idempotency key already produced the returned order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (order *models.Order, replayed bool, err error) {
	if in.UserID == "" {
		return nil, false, invalid("userId is required")
	}

	reserved := false
	if in.IdempotencyKey != "" && s.idem != nil {
		orderID, ok, err := s.idem.Reserve(ctx, in.UserID, in.IdempotencyKey)
		switch {
		case err != nil:
			log.Printf("⚠️ Idempotency store unavailable, placing order without key: %v", err)
		case !ok && orderID == "":
			return nil, false, repository.ErrCheckoutInProgress
		case !ok:
			previous, err := s.orders.GetByID(ctx, orderID)
			if err != nil {
				return nil, false, err
			}
			return previous, true, nil
		default:
			reserved = true
		}
	}

	products := append([]string{}, in.Products...)
	order = &models.Order{
		UserID:      in.UserID,
		Products:    products,
		TotalAmount: in.TotalAmount,
		Status:      models.OrderStatusPending,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		if reserved {
			keyCtx, cancel := keyContext(ctx)
			if rerr := s.idem.Release(keyCtx, in.UserID, in.IdempotencyKey); rerr != nil {
				log.Printf("⚠️ Failed to release idempotency key: %v", rerr)
			}
			cancel()
		}
		return nil, false, err
	}
	if reserved {
		keyCtx, cancel := keyContext(ctx)
		if err := s.idem.Complete(keyCtx, in.UserID, in.IdempotencyKey, order.ID); err != nil {
			log.Printf("⚠️ Failed to store idempotency key: %v", err)
		}
		cancel()
	}
	log.Printf("✅ Order %s placed by %s (%s)", order.ID, order.UserID, order.TotalAmount.StringFixed(2))

	s.afterPlaced(ctx, *order)
	return order, false, nil
}

// keyContext outlives the request so a timed out checkout still settles its key.
func keyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
}

// afterPlaced runs the best-effort side effects of a checkout.
func (s *CheckoutService) afterPlaced(ctx context.Context, order models.Order) {
	if err := s.events.PublishOrderPlaced(ctx, order.PlacedEvent()); err != nil {
		log.Printf("⚠️ Failed to publish order.placed for %s: %v", order.ID, err)
	}

	s.carts.notify(ctx, &models.User{ID: order.UserID}, models.CartCleared)

	if s.mailer != nil {
		s.bg.run("order confirmation email", func(ctx context.Context) error {
			user, err := s.users.GetByID(ctx, order.UserID)
			if err != nil {
				return err
			}
			items, err := s.products.GetByIDs(ctx, order.Products)
			if err != nil {
				return err
			}
			return s.mailer.SendOrderConfirmation(ctx, *user, order, items)
		})
	}
}

// UserOrders returns the user's orders in the order they were placed.
func (s *CheckoutService) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.OrdersByIDs(ctx, user.Orders)
}

func (s *CheckoutService) OrdersByIDs(ctx context.Context, ids []string) ([]models.Order, error) {
	if len(ids) == 0 {
		return []models.Order{}, nil
	}
	return s.orders.GetByIDs(ctx, ids)
}
