package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/cache"
	"go-ecommerce-api/models"
	"go-ecommerce-api/store"
)

// ProductChanges lists the fields of a partial product update. Nil fields are
// left untouched.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Tags        []string
}

// ProductService is the catalog.
type ProductService struct {
	repo  store.Repository
	cache cache.Cache
	ttl   time.Duration
}

// NewProductService creates a ProductService. c may be nil, in which case
// every read goes to the database.
func NewProductService(repo store.Repository, c cache.Cache, ttl time.Duration) *ProductService {
	return &ProductService{repo: repo, cache: c, ttl: ttl}
}

// CreateProduct adds a product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := checkPrice(product.Price); err != nil {
		return nil, err
	}
	if !product.Tags.Valid() {
		return nil, invalidTags()
	}
	if product.Tags == nil {
		product.Tags = models.Tags{}
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies changes to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, changes ProductChanges) (*models.Product, error) {
	if changes.Price != nil {
		if err := checkPrice(*changes.Price); err != nil {
			return nil, err
		}
	}
	if !models.Tags(changes.Tags).Valid() {
		return nil, invalidTags()
	}

	var product *models.Product
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		current, err := tx.FindProduct(ctx, id)
		if err != nil {
			return notFound(err, "Product not found", apperrors.ProductNotFound)
		}
		if changes.Name != nil {
			current.Name = *changes.Name
		}
		if changes.Description != nil {
			current.Description = *changes.Description
		}
		if changes.Price != nil {
			current.Price = *changes.Price
		}
		if changes.Tags != nil {
			current.Tags = changes.Tags
		}
		if err := tx.UpdateProduct(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes a product from the catalog. Past orders keep
// referring to it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "Product not found", apperrors.ProductNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

// GetProduct returns one product, from the cache when possible.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	logger := zerolog.Ctx(ctx)
	key := s.cacheKey(id)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("product cache read failed")
		} else if cached != "" {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
			logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		}
	}

	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found", apperrors.ProductNotFound)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(product); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("product cache write failed")
			}
		}
	}
	return product, nil
}

// ListProducts returns one page of the catalog and the total product count.
func (s *ProductService) ListProducts(ctx context.Context, page store.Page) ([]models.Product, int64, error) {
	return s.repo.ListProducts(ctx, NormalizePage(page))
}

// SearchProducts matches query against name, description and tags.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page store.Page) ([]models.Product, int64, error) {
	return s.repo.SearchProducts(ctx, query, NormalizePage(page))
}

func (s *ProductService) cacheKey(id uint) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.GenerateKey("product", strconv.FormatUint(uint64(id), 10))
}

func (s *ProductService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("product_id", id).Msg("product cache invalidation failed")
	}
}

// checkPrice accepts positive amounts with at most two decimal places up to
// MaxPrice, which is what the price column stores.
func checkPrice(price decimal.Decimal) error {
	switch {
	case !price.IsPositive():
		return apperrors.Validation("Unprocessable entity", map[string]string{"price": "must be greater than 0"})
	case price.GreaterThan(models.MaxPrice):
		return apperrors.Validation("Unprocessable entity", map[string]string{"price": "must be at most " + models.MaxPrice.String()})
	case !price.Round(2).Equal(price):
		return apperrors.Validation("Unprocessable entity", map[string]string{"price": "must have at most 2 decimal places"})
	}
	return nil
}

func invalidTags() error {
	return apperrors.Validation("Unprocessable entity", map[string]string{"tags": "must be non-empty and must not contain a comma"})
}
