package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

type fakeMailer struct {
	mu       sync.Mutex
	welcomed []string
	orders   []string
	items    []string
}

func (m *fakeMailer) SendWelcome(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomed = append(m.welcomed, user.Email)
	return nil
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, user models.User, order models.Order, items []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, user.Email+":"+order.ID)
	for _, p := range items {
		m.items = append(m.items, p.Name)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.OrderPlacedEvent
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, e models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeIndex struct {
	ids     []string
	err     error
	indexed []string
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Search(context.Context, string) ([]string, error) {
	return f.ids, f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	events map[string][]models.CartEvent
}

func (n *fakeNotifier) PublishCart(_ context.Context, userID string, event models.CartEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = make(map[string][]models.CartEvent)
	}
	n.events[userID] = append(n.events[userID], event)
	return nil
}

func (n *fakeNotifier) sent(userID string) []models.CartEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.CartEvent(nil), n.events[userID]...)
}

var errIndexDown = errors.New("index down")

type harness struct {
	svc       *Services
	store     *repository.Store
	mailer    *fakeMailer
	publisher *fakePublisher
	carts     *fakeNotifier
	redis     *cache.MemoryClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:     repository.NewMemoryStore(),
		mailer:    &fakeMailer{},
		publisher: &fakePublisher{},
		carts:     &fakeNotifier{},
		redis:     cache.NewMemoryClient(),
	}
	h.svc = New(Deps{
		Store:       h.store,
		Mailer:      h.mailer,
		Events:      h.publisher,
		Idempotency: cache.NewIdempotencyStore(h.redis),
		Carts:       h.carts,
	})
	h.svc.Accounts.bg.sync = true
	return h
}

func (h *harness) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := h.svc.Accounts.Register(context.Background(), RegisterInput{Name: "Sam", Email: email, Password: "pw"})
	require.NoError(t, err)
	return u
}

func (h *harness) product(t *testing.T, ownerID, name, price, category, subCategory string) *models.Product {
	t.Helper()
	p, err := h.svc.Catalog.Create(context.Background(), CreateProductInput{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		SubCategory: subCategory,
		UserID:      ownerID,
	})
	require.NoError(t, err)
	return p
}
