// Package order implements order finalization and the order status state
// machine on top of an interchangeable Store.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/markur/jesus-walks-napa/models"
)

// Sentinel errors for order persistence.
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateIntent signals the payment intent already has an order.
	// Finalize treats it as "fetch the existing order", not a failure.
	ErrDuplicateIntent = errors.New("order already exists for payment intent")
	// ErrStatusConflict signals the order's status changed between the
	// transition check and the write. Transition re-reads and retries.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// ProductNotFoundError indicates an ordered product does not exist
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError indicates an ordered quantity exceeds available stock
type InsufficientStockError struct {
	ProductID uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d has insufficient stock: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// Store is the persistence surface the order service depends on. A GORM
// implementation backs production; an in-memory implementation backs tests.
type Store interface {
	// CreateOrder atomically persists the order and its items. Item prices
	// must be snapshotted from the products' live prices, stock checked and
	// decremented, and Total recomputed as subtotal plus shipping cost, all
	// inside the same transaction. Nothing persists on failure.
	CreateOrder(ctx context.Context, order *models.Order) error

	// GetByPaymentIntentID returns the order finalized for a payment intent,
	// or ErrOrderNotFound.
	GetByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error)

	// GetByID returns an order with its items, or ErrOrderNotFound.
	GetByID(ctx context.Context, id uint) (*models.Order, error)

	// UpdateStatus persists a status change plus any shipping metadata set
	// on the order (tracking number, estimated delivery date). The write is
	// a compare-and-swap against from: if the stored status no longer
	// matches, nothing is written and ErrStatusConflict is returned.
	UpdateStatus(ctx context.Context, order *models.Order, from string) error
}
