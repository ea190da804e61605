package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go-ecommerce-api/models"
)

// CreateOrder inserts the order together with its items.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := s.conn(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("store: create order: %w", translate(err))
	}
	return nil
}

func (s *Store) CreateOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	if err := s.conn(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("store: create event for order %d: %w", event.OrderID, translate(err))
	}
	return nil
}

// FindOrder loads one order. withDetails also loads its items and its events
// in creation order.
func (s *Store) FindOrder(ctx context.Context, id uint, withDetails bool) (*models.Order, error) {
	db := s.conn(ctx)
	if withDetails {
		db = db.
			Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
			Preload("Events", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	err := s.conn(ctx).Model(&models.Order{ID: id}).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("store: update status of order %d: %w", id, err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	db := s.conn(ctx).Model(&models.Order{})
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	orders := []models.Order{}
	if err := db.Scopes(paginate(filter.Page)).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("store: list orders: %w", err)
	}
	return orders, nil
}
