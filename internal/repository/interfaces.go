package repository

import (
	"context"
	"time"

	"petshop_back_end/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update rewrites name, email and password.
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	// AddCartItem stores productID with quantity 1 unless it is already in the cart.
	AddCartItem(ctx context.Context, userID, productID string) (*models.User, error)
	RemoveCartItem(ctx context.Context, userID, productID string) (*models.User, error)
	AppendProduct(ctx context.Context, userID, productID string) error
	AppendOrder(ctx context.Context, userID, orderID string) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error)
	// GetByIDs skips ids that do not exist.
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	GetByOwner(ctx context.Context, userID string) ([]models.Product, error)
}

type OrderRepository interface {
	// PlaceOrder persists order, links it to order.UserID and empties that user's cart.
	PlaceOrder(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Order, error)
	GetCreatedBefore(ctx context.Context, before time.Time) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Store groups the repositories of one backend.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	Close    func(ctx context.Context) error
}
