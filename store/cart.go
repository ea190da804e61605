package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"go-ecommerce-api/models"
)

func (s *Store) CartItems(ctx context.Context, userID uint, forUpdate bool) ([]models.CartItem, error) {
	db := s.conn(ctx)
	if forUpdate && s.supportsRowLocks() {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	items := []models.CartItem{}
	err := db.Preload("Product").
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("store: cart items of user %d: %w", userID, err)
	}
	return items, nil
}

func (s *Store) FindCartItem(ctx context.Context, id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.conn(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Store) FindCartItemByProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := s.conn(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// SaveCartItem inserts the item when it has no ID and updates it otherwise.
func (s *Store) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("store: save cart item: %w", translate(err))
	}
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("store: delete cart item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCartItems(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.conn(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("store: clear cart of user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
