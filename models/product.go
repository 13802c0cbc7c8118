package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item in the store catalog. Price is the current/live
// price; orders snapshot it into OrderItem.Price at finalize time.
type Product struct {
	gorm.Model
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock" gorm:"default:0;check:stock >= 0"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}
