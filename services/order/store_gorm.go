package order

import (
	"context"
	"errors"
	"strings"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the production Store backed by Postgres through GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store on the given database handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateOrder writes the order and its items in one transaction. Each item's
// price is snapshotted from the product row, which is locked while its stock
// is checked and decremented.
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero

		for i := range order.OrderItems {
			item := &order.OrderItems[i]

			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return err
			}

			if product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductID: item.ProductID,
					Available: product.Stock,
					Requested: item.Quantity,
				}
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}

			item.Price = product.Price
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.Total = subtotal
		if order.ShippingCost != nil {
			order.Total = subtotal.Add(*order.ShippingCost)
		}

		items := order.OrderItems
		order.OrderItems = nil
		if err := tx.Create(order).Error; err != nil {
			order.OrderItems = items
			if isUniqueViolation(err) {
				return ErrDuplicateIntent
			}
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.OrderItems = items
		return nil
	})
}

// GetByPaymentIntentID returns the order finalized for a payment intent
func (s *GormStore) GetByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("payment_intent_id = ?", intentID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID returns an order with its items
func (s *GormStore) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus persists the order's status and shipping metadata. The
// status predicate makes the write a compare-and-swap, so a transition
// checked against a stale read cannot overwrite a concurrent one.
func (s *GormStore) UpdateStatus(ctx context.Context, order *models.Order, from string) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]interface{}{
			"status":                  order.Status,
			"tracking_number":         order.TrackingNumber,
			"estimated_delivery_date": order.EstimatedDeliveryDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Postgres unique_violation surfaces as SQLSTATE 23505.
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
