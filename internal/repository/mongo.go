package repository

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petshop_back_end/internal/models"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
	ordersCollection   = "orders"
)

// NewMongoStore wires the three collections of db. Checkout runs inside a
// multi-document transaction when the deployment is a replica set or mongos.
func NewMongoStore(ctx context.Context, client *mongo.Client, db *mongo.Database) (*Store, error) {
	if err := ensureMongoIndexes(ctx, db); err != nil {
		return nil, err
	}

	tx := supportsTransactions(ctx, db)
	if tx {
		log.Println("✅ MongoDB transactions enabled for checkout")
	} else {
		log.Println("⚠️ MongoDB is standalone, checkout falls back to sequential writes")
	}

	users := db.Collection(usersCollection)
	return &Store{
		Users:    &mongoUsers{col: users},
		Products: &mongoProducts{col: db.Collection(productsCollection)},
		Orders: &mongoOrders{
			client:       client,
			col:          db.Collection(ordersCollection),
			users:        users,
			transactions: tx,
		},
		Close: client.Disconnect,
	}, nil
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "sub_category", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ordersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
	return err
}

func supportsTransactions(ctx context.Context, db *mongo.Database) bool {
	var hello bson.M
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		log.Printf("⚠️ MongoDB hello failed: %v", err)
		return false
	}
	if _, ok := hello["setName"]; ok {
		return true
	}
	return hello["msg"] == "isdbgrid"
}

func newMongoID() string {
	return primitive.NewObjectID().Hex()
}

type mongoUsers struct{ col *mongo.Collection }

func (r *mongoUsers) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newMongoID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Normalize()
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Normalize()
	return &u, nil
}

func (r *mongoUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoUsers) Update(ctx context.Context, user *models.User) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
	}}
	var updated models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&updated)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateEmail
	case err != nil:
		return err
	}
	updated.Normalize()
	*user = updated
	return nil
}

func (r *mongoUsers) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUsers) AddCartItem(ctx context.Context, userID, productID string) (*models.User, error) {
	field := "cart." + productID
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID, field: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{field: 1}},
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

func (r *mongoUsers) RemoveCartItem(ctx context.Context, userID, productID string) (*models.User, error) {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$unset": bson.M{"cart." + productID: ""}})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

func (r *mongoUsers) push(ctx context.Context, userID, field, value string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoUsers) AppendProduct(ctx context.Context, userID, productID string) error {
	return r.push(ctx, userID, "products", productID)
}

func (r *mongoUsers) AppendOrder(ctx context.Context, userID, orderID string) error {
	return r.push(ctx, userID, "orders", orderID)
}

type mongoProducts struct{ col *mongo.Collection }

func (r *mongoProducts) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = newMongoID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, product)
	return err
}

func (r *mongoProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *mongoProducts) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProducts) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoProducts) GetByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"category": category, "sub_category": subCategory})
}

func (r *mongoProducts) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoProducts) GetByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"user": userID})
}

type mongoOrders struct {
	client       *mongo.Client
	col          *mongo.Collection
	users        *mongo.Collection
	transactions bool
}

func (r *mongoOrders) linkToUser(ctx context.Context, order *models.Order) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": order.UserID},
		bson.M{
			"$push": bson.M{"orders": order.ID},
			"$set":  bson.M{"cart": bson.M{}},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mongoOrders) PlaceOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = newMongoID()
	}

	if !r.transactions {
		// Two single-document writes. A failure between them leaves an
		// orphaned order for the reconciler.
		if _, err := r.col.InsertOne(ctx, order); err != nil {
			return err
		}
		return r.linkToUser(ctx, order)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.col.InsertOne(sc, order); err != nil {
			return nil, err
		}
		return nil, r.linkToUser(sc, order)
	})
	return err
}

func (r *mongoOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *mongoOrders) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Order, error) {
	cursor, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrders) GetByIDs(ctx context.Context, ids []string) ([]models.Order, error) {
	if len(ids) == 0 {
		return []models.Order{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (r *mongoOrders) GetCreatedBefore(ctx context.Context, before time.Time) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"created_at": bson.M{"$lt": before}}, opts)
}

func (r *mongoOrders) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// orderByIDs returns found arranged in the order of ids.
func orderByIDs(found []models.Order, ids []string) []models.Order {
	byID := make(map[string]models.Order, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}
	out := make([]models.Order, 0, len(found))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
			delete(byID, id)
		}
	}
	return out
}
