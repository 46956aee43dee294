package services

import (
	"context"
	"io"
	"log"
	"time"

	"petshop_back_end/internal/events"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

type Mailer interface {
	SendWelcome(ctx context.Context, user models.User) error
	// SendOrderConfirmation receives the ordered products that still exist.
	SendOrderConfirmation(ctx context.Context, user models.User, order models.Order, items []models.Product) error
}

// IdempotencyStore maps a (user, Idempotency-Key) pair to the order it produced.
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID, key string) (orderID string, reserved bool, err error)
	Complete(ctx context.Context, userID, key, orderID string) error
	Release(ctx context.Context, userID, key string) error
}

type SearchIndex interface {
	IndexProduct(ctx context.Context, product models.Product) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, query string) ([]string, error)
}

type ImageStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

type CartNotifier interface {
	PublishCart(ctx context.Context, userID string, event models.CartEvent) error
}

// Deps carries the optional integrations. Leave a field nil to disable it.
type Deps struct {
	Store       *repository.Store
	Mailer      Mailer
	Events      events.Publisher
	Idempotency IdempotencyStore
	Search      SearchIndex
	Images      ImageStore
	Carts       CartNotifier
}

type Services struct {
	Accounts   *AccountService
	Catalog    *CatalogService
	Carts      *CartService
	Checkout   *CheckoutService
	Reconciler *Reconciler
	Images     *ImageService
}

func New(d Deps) *Services {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	bg := &background{}

	carts := &CartService{users: d.Store.Users, products: d.Store.Products, notifier: d.Carts}
	return &Services{
		Accounts: &AccountService{users: d.Store.Users, mailer: d.Mailer, bg: bg},
		Catalog:  &CatalogService{products: d.Store.Products, users: d.Store.Users, search: d.Search},
		Carts:    carts,
		Checkout: &CheckoutService{
			orders:   d.Store.Orders,
			users:    d.Store.Users,
			products: d.Store.Products,
			idem:     d.Idempotency,
			events:   d.Events,
			carts:    carts,
			mailer:   d.Mailer,
			bg:       bg,
			now:      time.Now,
		},
		Reconciler: NewReconciler(d.Store.Orders, d.Store.Users),
		Images:     &ImageService{store: d.Images, maxSize: MaxImageSize},
	}
}

// background runs best-effort side effects off the request path.
type background struct {
	sync bool
}

func (b *background) run(name string, fn func(ctx context.Context) error) {
	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("⚠️ %s failed: %v", name, err)
		}
	}
	if b.sync {
		task()
		return
	}
	go task()
}
