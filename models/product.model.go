package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tags is a list of product labels persisted as one comma separated column.
// A tag therefore cannot contain a comma.
type Tags []string

// Valid reports whether every tag is non-empty and free of commas.
func (t Tags) Valid() bool {
	for _, tag := range t {
		if tag == "" || strings.Contains(tag, ",") {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("models: tags %q cannot be stored comma separated", []string(t))
	}
	return strings.Join(t, ","), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("models: cannot scan %T into Tags", src)
	}
	if raw == "" {
		*t = Tags{}
		return nil
	}
	*t = strings.Split(raw, ",")
	return nil
}

// MaxPrice is the largest price the decimal(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// Product is a catalog entry. Deletion is soft so that order items keep a
// valid reference.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Tags        Tags            `gorm:"type:text" json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
