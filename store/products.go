package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-ecommerce-api/models"
)

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.conn(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("store: create product: %w", translate(err))
	}
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	err := s.conn(ctx).Model(product).Select("Name", "Description", "Price", "Tags").Updates(product).Error
	if err != nil {
		return fmt.Errorf("store: update product %d: %w", product.ID, translate(err))
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("store: delete product %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) ListProducts(ctx context.Context, page Page) ([]models.Product, int64, error) {
	return findProducts(s.conn(ctx).Model(&models.Product{}), page)
}

// SearchProducts matches query against name, description and tags.
func (s *Store) SearchProducts(ctx context.Context, query string, page Page) ([]models.Product, int64, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	db := s.conn(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(tags) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern)
	return findProducts(db, page)
}

// likeEscaper makes LIKE wildcards in a search query match literally. '!' is
// the escape character since backslash is itself special in MySQL literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func findProducts(db *gorm.DB, page Page) ([]models.Product, int64, error) {
	db = db.Session(&gorm.Session{})

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("store: count products: %w", err)
	}
	products := []models.Product{}
	if err := db.Scopes(paginate(page)).Order("id").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("store: list products: %w", err)
	}
	return products, count, nil
}
