package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/cache"
	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
)

type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
}

type ProductSearcher interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

// CatalogService is the product lookup used by carts and checkout. Cache and
// Search are optional.
type CatalogService struct {
	Repo   *repo.GormRepo
	Cache  ProductCache
	Search ProductSearcher
	Events events.Publisher
}

func (s *CatalogService) Resolve(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		p, err := s.Cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			l.Warn("product_cache_get_failed", "product_id", id, "error", err)
		}
	}

	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			l.Warn("product_cache_set_failed", "product_id", id, "error", err)
		}
	}
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Resolve(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, f transport.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return 0, nil, fmt.Errorf("minPrice greater than maxPrice: %w", ErrValidation)
	}
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

// SearchProducts uses the full-text index when one is configured and the
// substring filter otherwise. Index failures and empty index results fall
// back as well, so products missing from the index are still found.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("query required: %w", ErrValidation)
	}

	if s.Search != nil {
		total, items, err := s.Search.Search(ctx, q, offset, limit)
		switch {
		case err != nil:
			logging.FromContext(ctx).Warn("search_index_failed", "error", err)
		case total > 0:
			return total, items, nil
		}
	}

	return s.Repo.ListProducts(ctx, transport.ProductFilter{Search: q}, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 0 and 5: %w", ErrValidation)
	}

	prod := &models.Product{
		Name:        name,
		Description: req.Description,
		Price:       req.Price,
		Images:      models.JSONList[string](req.Images),
		Rating:      req.Rating,
		Category:    strings.TrimSpace(req.Category),
		Stock:       req.Stock,
		Reviews:     models.JSONList[models.Review]{},
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, prod); err != nil {
			logging.FromContext(ctx).Warn("search_index_product_failed", "product_id", prod.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProduct, prod.ID.String(), events.Event{
		Type:      "product_created",
		ProductID: prod.ID.String(),
		Payload:   map[string]any{"name": prod.Name},
	})

	return prod, nil
}

const reindexBatch = 100

// Reindex pushes every stored product into the search index. It returns the
// number of products indexed.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Search == nil {
		return 0, nil
	}

	indexed := 0
	for offset := 0; ; offset += reindexBatch {
		_, items, err := s.Repo.ListProducts(ctx, transport.ProductFilter{}, offset, reindexBatch)
		if err != nil {
			return indexed, fmt.Errorf("list products: %w", err)
		}
		for i := range items {
			if err := s.Search.IndexProduct(ctx, &items[i]); err != nil {
				return indexed, fmt.Errorf("index product %s: %w", items[i].ID, err)
			}
			indexed++
		}
		if len(items) < reindexBatch {
			return indexed, nil
		}
	}
}
