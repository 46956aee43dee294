package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

// ScyllaSchema is applied by database.EnsureScyllaSchema.
var ScyllaSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id uuid PRIMARY KEY, name text, email text, password text,
		cart map<text, int>, orders list<text>, products list<text>, created_at timestamp)`,
	`CREATE TABLE IF NOT EXISTS users_by_email (email text PRIMARY KEY, user_id uuid)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id uuid PRIMARY KEY, name text, description text, price text,
		category text, sub_category text, image_url text, quantity int,
		user_id text, created_at timestamp)`,
	`CREATE TABLE IF NOT EXISTS products_by_category (
		category text, sub_category text, product_id uuid,
		PRIMARY KEY ((category, sub_category), product_id))`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id uuid PRIMARY KEY, user_id text, products list<text>,
		total_amount text, status text, created_at timestamp)`,
}

// NewScyllaStore builds the store over a keyspace session. Checkout is a
// LOGGED BATCH so the order row and the user row are applied together.
func NewScyllaStore(session *gocql.Session) *Store {
	return &Store{
		Users:    &scyllaUsers{session: session},
		Products: &scyllaProducts{session: session},
		Orders:   &scyllaOrders{session: session},
		Close: func(context.Context) error {
			session.Close()
			return nil
		},
	}
}

func parseUUID(id string) (gocql.UUID, bool) {
	u, err := gocql.ParseUUID(id)
	return u, err == nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return sentinel
	}
	return err
}

type scyllaUsers struct{ session *gocql.Session }

const userColumns = `user_id, name, email, password, cart, orders, products, created_at`

func scanUser(scan func(dest ...interface{}) error) (*models.User, error) {
	var (
		u  models.User
		id gocql.UUID
	)
	if err := scan(&id, &u.Name, &u.Email, &u.Password, &u.Cart, &u.Orders, &u.Products, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.Normalize()
	return &u, nil
}

func (r *scyllaUsers) Create(ctx context.Context, user *models.User) error {
	id := gocql.TimeUUID()
	email := strings.ToLower(user.Email)

	applied, err := r.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`, email, id).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return ErrDuplicateEmail
	}

	user.ID = id.String()
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Normalize()
	return r.session.Query(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, user.Name, user.Email, user.Password, user.Cart, user.Orders, user.Products, user.CreatedAt).
		WithContext(ctx).Exec()
}

func (r *scyllaUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	uid, ok := parseUUID(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	u, err := scanUser(r.session.Query(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, uid).WithContext(ctx).Scan)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (r *scyllaUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var uid gocql.UUID
	err := r.session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, strings.ToLower(email)).
		WithContext(ctx).Scan(&uid)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return r.GetByID(ctx, uid.String())
}

func (r *scyllaUsers) Update(ctx context.Context, user *models.User) error {
	current, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	uid, _ := parseUUID(user.ID)
	newEmail := strings.ToLower(user.Email)

	if newEmail != current.Email {
		applied, err := r.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`, newEmail, uid).
			WithContext(ctx).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return err
		}
		if !applied {
			return ErrDuplicateEmail
		}
		if err := r.session.Query(`DELETE FROM users_by_email WHERE email = ?`, current.Email).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}

	if err := r.session.Query(`UPDATE users SET name = ?, email = ?, password = ? WHERE user_id = ?`,
		user.Name, newEmail, user.Password, uid).WithContext(ctx).Exec(); err != nil {
		return err
	}
	current.Name, current.Email, current.Password = user.Name, newEmail, user.Password
	*user = *current
	return nil
}

func (r *scyllaUsers) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	uid, _ := parseUUID(id)
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM users WHERE user_id = ?`, uid)
	batch.Query(`DELETE FROM users_by_email WHERE email = ?`, u.Email)
	return r.session.ExecuteBatch(batch)
}

func (r *scyllaUsers) AddCartItem(ctx context.Context, userID, productID string) (*models.User, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := u.Cart[productID]; ok {
		return u, nil
	}
	uid, _ := parseUUID(userID)
	if err := r.session.Query(`UPDATE users SET cart = cart + ? WHERE user_id = ?`,
		map[string]int{productID: 1}, uid).WithContext(ctx).Exec(); err != nil {
		return nil, err
	}
	u.Cart[productID] = 1
	return u, nil
}

func (r *scyllaUsers) RemoveCartItem(ctx context.Context, userID, productID string) (*models.User, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	uid, _ := parseUUID(userID)
	if err := r.session.Query(`DELETE cart[?] FROM users WHERE user_id = ?`, productID, uid).WithContext(ctx).Exec(); err != nil {
		return nil, err
	}
	delete(u.Cart, productID)
	return u, nil
}

func (r *scyllaUsers) appendTo(ctx context.Context, userID, column, value string) error {
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	uid, _ := parseUUID(userID)
	return r.session.Query(`UPDATE users SET `+column+` = `+column+` + ? WHERE user_id = ?`,
		[]string{value}, uid).WithContext(ctx).Exec()
}

func (r *scyllaUsers) AppendProduct(ctx context.Context, userID, productID string) error {
	return r.appendTo(ctx, userID, "products", productID)
}

func (r *scyllaUsers) AppendOrder(ctx context.Context, userID, orderID string) error {
	return r.appendTo(ctx, userID, "orders", orderID)
}

type scyllaProducts struct{ session *gocql.Session }

const productColumns = `product_id, name, description, price, category, sub_category, image_url, quantity, user_id, created_at`

func (r *scyllaProducts) scanAll(iter *gocql.Iter) ([]models.Product, error) {
	products := []models.Product{}
	var (
		p     models.Product
		id    gocql.UUID
		price string
	)
	for iter.Scan(&id, &p.Name, &p.Description, &price, &p.Category, &p.SubCategory, &p.ImageURL, &p.Quantity, &p.UserID, &p.CreatedAt) {
		p.ID = id.String()
		p.Price, _ = decimal.NewFromString(price)
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *scyllaProducts) Create(ctx context.Context, product *models.Product) error {
	id := gocql.TimeUUID()
	product.ID = id.String()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, product.Name, product.Description, product.Price.String(), product.Category, product.SubCategory,
		product.ImageURL, product.Quantity, product.UserID, product.CreatedAt)
	batch.Query(`INSERT INTO products_by_category (category, sub_category, product_id) VALUES (?, ?, ?)`,
		product.Category, product.SubCategory, id)
	return r.session.ExecuteBatch(batch)
}

func (r *scyllaProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	uid, ok := parseUUID(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	products, err := r.scanAll(r.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, uid).WithContext(ctx).Iter())
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return &products[0], nil
}

func (r *scyllaProducts) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.scanAll(r.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter())
}

func (r *scyllaProducts) GetByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	iter := r.session.Query(`SELECT product_id FROM products_by_category WHERE category = ? AND sub_category = ?`,
		category, subCategory).WithContext(ctx).Iter()

	var (
		ids []string
		id  gocql.UUID
	)
	for iter.Scan(&id) {
		ids = append(ids, id.String())
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return r.GetByIDs(ctx, ids)
}

func (r *scyllaProducts) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	uuids := make([]gocql.UUID, 0, len(ids))
	for _, id := range ids {
		if uid, ok := parseUUID(id); ok {
			uuids = append(uuids, uid)
		}
	}
	if len(uuids) == 0 {
		return []models.Product{}, nil
	}
	return r.scanAll(r.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id IN ?`, uuids).WithContext(ctx).Iter())
}

func (r *scyllaProducts) GetByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	return r.scanAll(r.session.Query(`SELECT `+productColumns+` FROM products WHERE user_id = ? ALLOW FILTERING`, userID).WithContext(ctx).Iter())
}

type scyllaOrders struct{ session *gocql.Session }

const orderColumns = `order_id, user_id, products, total_amount, status, created_at`

func (r *scyllaOrders) scanAll(iter *gocql.Iter) ([]models.Order, error) {
	orders := []models.Order{}
	var (
		o     models.Order
		id    gocql.UUID
		total string
	)
	for iter.Scan(&id, &o.UserID, &o.Products, &total, &o.Status, &o.CreatedAt) {
		o.ID = id.String()
		o.TotalAmount, _ = decimal.NewFromString(total)
		if o.Products == nil {
			o.Products = []string{}
		}
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *scyllaOrders) PlaceOrder(ctx context.Context, order *models.Order) error {
	uid, ok := parseUUID(order.UserID)
	if !ok {
		return ErrUserNotFound
	}
	var exists gocql.UUID
	if err := r.session.Query(`SELECT user_id FROM users WHERE user_id = ?`, uid).WithContext(ctx).Scan(&exists); err != nil {
		return notFound(err, ErrUserNotFound)
	}

	id := gocql.TimeUUID()
	order.ID = id.String()

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		id, order.UserID, order.Products, order.TotalAmount.String(), order.Status, order.CreatedAt)
	batch.Query(`UPDATE users SET orders = orders + ?, cart = ? WHERE user_id = ?`,
		[]string{order.ID}, map[string]int{}, uid)
	return r.session.ExecuteBatch(batch)
}

func (r *scyllaOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	uid, ok := parseUUID(id)
	if !ok {
		return nil, ErrNotFound
	}
	orders, err := r.scanAll(r.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, uid).WithContext(ctx).Iter())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return &orders[0], nil
}

func (r *scyllaOrders) GetByIDs(ctx context.Context, ids []string) ([]models.Order, error) {
	uuids := make([]gocql.UUID, 0, len(ids))
	for _, id := range ids {
		if uid, ok := parseUUID(id); ok {
			uuids = append(uuids, uid)
		}
	}
	if len(uuids) == 0 {
		return []models.Order{}, nil
	}
	found, err := r.scanAll(r.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id IN ?`, uuids).WithContext(ctx).Iter())
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (r *scyllaOrders) GetCreatedBefore(ctx context.Context, before time.Time) ([]models.Order, error) {
	return r.scanAll(r.session.Query(`SELECT `+orderColumns+` FROM orders WHERE created_at < ? ALLOW FILTERING`, before).WithContext(ctx).Iter())
}

func (r *scyllaOrders) UpdateStatus(ctx context.Context, id, status string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	uid, _ := parseUUID(id)
	return r.session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`, status, uid).WithContext(ctx).Exec()
}
