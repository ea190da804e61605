package models

import (
	"strings"
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Address represents a user's address for delivery
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LineOne   string    `gorm:"not null" json:"lineOne"`
	LineTwo   string    `json:"lineTwo"`
	City      string    `gorm:"not null" json:"city"`
	Country   string    `gorm:"not null" json:"country"`
	Pincode   string    `gorm:"type:varchar(10);not null" json:"pincode"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FormattedAddress renders the address as the single line stored on orders.
func (a Address) FormattedAddress() string {
	parts := []string{a.LineOne}
	if a.LineTwo != "" {
		parts = append(parts, a.LineTwo)
	}
	parts = append(parts, a.City, a.Country+"-"+a.Pincode)
	return strings.Join(parts, ", ")
}

// User represents a user in the system
type User struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"not null" json:"name"`
	Email                  string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password               string    `gorm:"not null" json:"-"`
	Role                   Role      `gorm:"type:varchar(10);not null;default:USER" json:"role"`
	DefaultShippingAddress *uint     `json:"defaultShippingAddress,omitempty"`
	DefaultBillingAddress  *uint     `json:"defaultBillingAddress,omitempty"`
	Addresses              []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
