package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"petshop_back_end/internal/models"
)

// memoryDB keeps every collection behind one lock so checkout is a single critical section.
type memoryDB struct {
	mu sync.RWMutex

	users        map[string]models.User
	usersByEmail map[string]string
	products     map[string]models.Product
	productOrder []string
	orders       map[string]models.Order
	orderOrder   []string
}

// NewMemoryStore returns a process-local store, used by tests and STORE_BACKEND=memory.
func NewMemoryStore() *Store {
	db := &memoryDB{
		users:        make(map[string]models.User),
		usersByEmail: make(map[string]string),
		products:     make(map[string]models.Product),
		orders:       make(map[string]models.Order),
	}
	return &Store{
		Users:    &memoryUsers{db: db},
		Products: &memoryProducts{db: db},
		Orders:   &memoryOrders{db: db},
		Close:    func(context.Context) error { return nil },
	}
}

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.db.usersByEmail[email]; exists {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Normalize()
	r.db.users[user.ID] = user.Clone()
	r.db.usersByEmail[email] = user.ID
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := u.Clone()
	return &c, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	c := r.db.users[id].Clone()
	return &c, nil
}

func (r *memoryUsers) Update(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	oldEmail := strings.ToLower(current.Email)
	newEmail := strings.ToLower(user.Email)
	if newEmail != oldEmail {
		if _, taken := r.db.usersByEmail[newEmail]; taken {
			return ErrDuplicateEmail
		}
		delete(r.db.usersByEmail, oldEmail)
		r.db.usersByEmail[newEmail] = user.ID
	}
	current.Name = user.Name
	current.Email = user.Email
	current.Password = user.Password
	r.db.users[user.ID] = current
	*user = current.Clone()
	return nil
}

func (r *memoryUsers) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.db.usersByEmail, strings.ToLower(u.Email))
	delete(r.db.users, id)
	return nil
}

func (r *memoryUsers) mutate(id string, fn func(u *models.User)) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u = u.Clone()
	fn(&u)
	r.db.users[id] = u
	c := u.Clone()
	return &c, nil
}

func (r *memoryUsers) AddCartItem(_ context.Context, userID, productID string) (*models.User, error) {
	return r.mutate(userID, func(u *models.User) {
		if _, ok := u.Cart[productID]; !ok {
			u.Cart[productID] = 1
		}
	})
}

func (r *memoryUsers) RemoveCartItem(_ context.Context, userID, productID string) (*models.User, error) {
	return r.mutate(userID, func(u *models.User) {
		delete(u.Cart, productID)
	})
}

func (r *memoryUsers) AppendProduct(_ context.Context, userID, productID string) error {
	_, err := r.mutate(userID, func(u *models.User) {
		u.Products = append(u.Products, productID)
	})
	return err
}

func (r *memoryUsers) AppendOrder(_ context.Context, userID, orderID string) error {
	_, err := r.mutate(userID, func(u *models.User) {
		u.Orders = append(u.Orders, orderID)
	})
	return err
}

type memoryProducts struct{ db *memoryDB }

func (r *memoryProducts) Create(_ context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	r.db.products[product.ID] = *product
	r.db.productOrder = append(r.db.productOrder, product.ID)
	return nil
}

func (r *memoryProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryProducts) filter(keep func(p models.Product) bool) []models.Product {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []models.Product{}
	for _, id := range r.db.productOrder {
		if p := r.db.products[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memoryProducts) GetAll(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

func (r *memoryProducts) GetByCategory(_ context.Context, category, subCategory string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool {
		return p.Category == category && p.SubCategory == subCategory
	}), nil
}

func (r *memoryProducts) GetByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.filter(func(p models.Product) bool { return wanted[p.ID] }), nil
}

func (r *memoryProducts) GetByOwner(_ context.Context, userID string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.UserID == userID }), nil
}

type memoryOrders struct{ db *memoryDB }

func (r *memoryOrders) PlaceOrder(_ context.Context, order *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[order.UserID]
	if !ok {
		return ErrUserNotFound
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	stored := *order
	stored.Products = append([]string{}, order.Products...)
	r.db.orders[order.ID] = stored
	r.db.orderOrder = append(r.db.orderOrder, order.ID)

	u = u.Clone()
	u.Orders = append(u.Orders, order.ID)
	u.Cart = map[string]int{}
	r.db.users[u.ID] = u
	return nil
}

func (r *memoryOrders) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (r *memoryOrders) GetByIDs(_ context.Context, ids []string) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []models.Order{}
	for _, id := range ids {
		if o, ok := r.db.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOrders) GetCreatedBefore(_ context.Context, before time.Time) ([]models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []models.Order{}
	for _, id := range r.db.orderOrder {
		if o := r.db.orders[id]; o.CreatedAt.Before(before) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOrders) UpdateStatus(_ context.Context, id, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o, ok := r.db.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.db.orders[id] = o
	return nil
}
