package models

import "time"

// MaxQuantity caps the units of one product a cart line may hold.
const MaxQuantity = 10000

// CartItem represents one product line in a user's cart. There is at most one
// row per (user, product) pair.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product   *Product  `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
