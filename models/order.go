package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions holds the allowed status transitions. The happy path is
// linear (pending -> paid -> shipped -> delivered); cancelled is an absorbing
// exit reachable from pending or paid only.
var orderTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

// InvalidTransitionError indicates an order status change that violates the
// state machine. The order is left unchanged.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	Number                string           `gorm:"uniqueIndex;not null" json:"number"`
	UserID                uint             `json:"user_id"`
	User                  User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status                string           `json:"status" gorm:"default:'pending'"`
	Total                 decimal.Decimal  `json:"total" gorm:"type:numeric(10,2)"`
	ShippingCost          *decimal.Decimal `json:"shipping_cost" gorm:"type:numeric(10,2)"`
	ShippingAddress       ShippingAddress  `json:"shipping_address" gorm:"serializer:json"`
	ShippingCarrier       string           `json:"shipping_carrier,omitempty"`
	ShippingService       string           `json:"shipping_service,omitempty"`
	TrackingNumber        *string          `json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time       `json:"estimated_delivery_date,omitempty"`
	// PaymentIntentID is the finalize dedup key: one order per confirmed
	// payment intent.
	PaymentIntentID string      `gorm:"uniqueIndex;not null" json:"payment_intent_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	OrderItems      []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// Subtotal sums price x quantity over the order's items.
func (o *Order) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.OrderItems {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int     `json:"quantity"`
	// Price is the product price at time of purchase. It must not track
	// later changes to the product's live price.
	Price decimal.Decimal `json:"price" gorm:"type:numeric(10,2)"`
}
