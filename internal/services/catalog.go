package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

type CatalogService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	search   SearchIndex
}

type CreateProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	ImageURL    string          `json:"imageUrl"`
	Quantity    int             `json:"quantity"`
	UserID      string          `json:"userId"`
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListByCategory matches both fields exactly.
func (s *CatalogService) ListByCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	if category == "" || subCategory == "" {
		return nil, invalid("category and subCategory are required")
	}
	return s.products.GetByCategory(ctx, category, subCategory)
}

// ParseIDList decodes a JSON array of ids. Entries that are not strings are dropped.
func ParseIDList(raw json.RawMessage) ([]string, error) {
	var items []interface{}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") || json.Unmarshal(raw, &items) != nil {
		return nil, invalid("ids must be an array")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id, ok := item.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *CatalogService) ListByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return s.products.GetByIDs(ctx, ids)
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	ownerID := strings.TrimSpace(in.UserID)
	if ownerID == "" {
		return nil, repository.ErrMissingOwner
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" ||
		in.Category == "" || in.SubCategory == "" {
		return nil, invalid("name, description, category and subCategory are required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("price cannot be negative")
	}
	if in.Quantity < 0 {
		return nil, invalid("quantity cannot be negative")
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		ImageURL:    in.ImageURL,
		Quantity:    in.Quantity,
		UserID:      ownerID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	if err := s.users.AppendProduct(ctx, ownerID, product.ID); err != nil {
		return nil, err
	}
	log.Printf("✅ Product created: %s (%s)", product.Name, product.ID)

	if s.search != nil {
		if err := s.search.IndexProduct(ctx, *product); err != nil {
			log.Printf("⚠️ Failed to index product %s: %v", product.ID, err)
		}
	}
	return product, nil
}

func (s *CatalogService) ListByOwner(ctx context.Context, userID string) ([]models.Product, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.products.GetByOwner(ctx, userID)
}

// Search asks the index first and scans the catalog when the index is unavailable.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("q is required")
	}

	if s.search != nil {
		ids, err := s.search.Search(ctx, query)
		if err == nil {
			found, err := s.ListByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return productsInOrder(found, ids), nil
		}
		log.Printf("⚠️ Search index unavailable, scanning catalog: %v", err)
	}

	all, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	out := []models.Product{}
	for _, p := range all {
		haystack := strings.ToLower(strings.Join([]string{p.Name, p.Description, p.Category, p.SubCategory}, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func productsInOrder(found []models.Product, ids []string) []models.Product {
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out
}
