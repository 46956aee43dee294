package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

// CachedProductRepository is a read-through cache in front of a ProductRepository.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	client   Client
}

var _ repository.ProductRepository = (*CachedProductRepository)(nil)

// NewCachedProductRepository returns realRepo unchanged when client is nil.
func NewCachedProductRepository(realRepo repository.ProductRepository, client Client) repository.ProductRepository {
	if client == nil {
		return realRepo
	}
	return &CachedProductRepository{realRepo: realRepo, client: client}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	key := productKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrProductNotFound
		}
		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("⚠️ Failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}
		return &product, nil
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("⚠️ Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.client.Set(ctx, key, notFoundMarker, NotFoundCacheTTL).Err(); setErr != nil {
				log.Printf("⚠️ Failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}
	setJSON(ctx, c.client, key, product, ProductCacheTTL)
	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if getJSON(ctx, c.client, keyAllProducts, &products) {
		return nonNil(products), nil
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	setJSON(ctx, c.client, keyAllProducts, products, ProductCacheTTL)
	return products, nil
}

func (c *CachedProductRepository) GetByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	key := categoryKey(category, subCategory)

	var products []models.Product
	if getJSON(ctx, c.client, key, &products) {
		return nonNil(products), nil
	}

	products, err := c.realRepo.GetByCategory(ctx, category, subCategory)
	if err != nil {
		return nil, err
	}
	setJSON(ctx, c.client, key, products, ProductCacheTTL)
	return products, nil
}

func (c *CachedProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return c.realRepo.GetByIDs(ctx, ids)
}

func (c *CachedProductRepository) GetByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	return c.realRepo.GetByOwner(ctx, userID)
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.realRepo.Create(ctx, product); err != nil {
		return err
	}
	del(ctx, c.client, keyAllProducts, categoryKey(product.Category, product.SubCategory), productKey(product.ID))
	return nil
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
