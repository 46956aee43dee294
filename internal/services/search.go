package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

const ProductIndex = "products"

// ElasticIndex keeps a searchable copy of the catalog in Elasticsearch.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndex(client *elasticsearch.Client) *ElasticIndex {
	return &ElasticIndex{client: client, index: ProductIndex}
}

// searchDocument is the indexed shape. The id lives in the document _id.
type searchDocument struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	UserID      string          `json:"user"`
}

var productMapping = `{
	"mappings": {
		"properties": {
			"name":        {"type": "text"},
			"description": {"type": "text"},
			"category":    {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"subCategory": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"price":       {"type": "scaled_float", "scaling_factor": 100},
			"imageUrl":    {"type": "keyword", "index": false},
			"user":        {"type": "keyword"}
		}
	}
}`

// EnsureIndex creates the products index when missing.
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{e.index}}.Do(ctx, e.client)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: e.index, Body: strings.NewReader(productMapping)}.Do(ctx, e.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", e.index, res.String())
	}
	log.Printf("✅ Elasticsearch index '%s' created", e.index)
	return nil
}

func (e *ElasticIndex) IndexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(searchDocument{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		UserID:      p.UserID,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", p.ID, res.String())
	}
	log.Printf("✅ Product indexed in Elasticsearch: %s", p.Name)
	return nil
}

func (e *ElasticIndex) Search(ctx context.Context, query string) ([]string, error) {
	var buf bytes.Buffer
	q := map[string]interface{}{
		"size":    100,
		"_source": false,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^3", "description", "category", "subCategory"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{Index: []string{e.index}, Body: &buf}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("search failed: " + res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
