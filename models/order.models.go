package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a step of the order lifecycle.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusAccepted       OrderStatus = "ACCEPTED"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

var nextStatuses = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusAccepted, StatusCancelled},
	StatusAccepted:       {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next directly follows s in the lifecycle graph.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range nextStatuses[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a purchase. Only Status changes after creation.
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"userId"`
	User      *User           `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	NetAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"netAmount"`
	Address   string          `gorm:"type:text;not null" json:"address"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`
	Products  []OrderItem     `json:"products,omitempty"`
	Events    []OrderEvent    `json:"events,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// OrderItem is the cart line copied into an order at creation time.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"orderId"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	Product   *Product  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderEvent is one entry of an order's append-only status history.
type OrderEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"orderId"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// All returns every model in dependency order, for migrations.
func All() []any {
	return []any{
		&User{},
		&Address{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&OrderEvent{},
	}
}
