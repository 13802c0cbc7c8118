package utils

import (
	"fmt"

	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
)

// CartDetails holds a user's cart items with the computed subtotal. Item
// totals use the products' live prices; the point-in-time snapshot happens
// at order finalize, not here.
type CartDetails struct {
	Items    []models.CartItem
	Subtotal decimal.Decimal
}

// GetCartDetails retrieves cart details with subtotal for a user
func GetCartDetails(userID uint) (*CartDetails, error) {
	var items []models.CartItem
	if err := config.DB.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %v", err)
	}

	details := &CartDetails{Items: items, Subtotal: decimal.Zero}
	for _, item := range items {
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		details.Subtotal = details.Subtotal.Add(lineTotal)
	}
	return details, nil
}
