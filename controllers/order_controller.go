package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/config"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/services/order"
	"github.com/markur/jesus-walks-napa/utils"
)

// OrderFinalizer is the order service surface the controller depends on
type OrderFinalizer interface {
	Finalize(ctx context.Context, in order.FinalizeInput) (*models.Order, error)
	Transition(ctx context.Context, orderID uint, next string, opts order.TransitionOpts) (*models.Order, error)
}

// SignatureVerifier checks payment confirmation callback signatures
type SignatureVerifier interface {
	VerifySignature(intentID, paymentID, signature string) bool
}

// OrderController exposes order finalization and order management
type OrderController struct {
	orders   OrderFinalizer
	payments SignatureVerifier
}

// NewOrderController creates an OrderController
func NewOrderController(orders OrderFinalizer, payments SignatureVerifier) *OrderController {
	return &OrderController{orders: orders, payments: payments}
}

// CreateOrderRequest represents the finalize request sent after the payer
// confirmed the charge out-of-band.
type CreateOrderRequest struct {
	PaymentIntentID string                   `json:"paymentIntentId" binding:"required"`
	PaymentID       string                   `json:"paymentId" binding:"required"`
	Signature       string                   `json:"signature" binding:"required"`
	ShippingAddress models.ShippingAddress   `json:"shippingAddress"`
	SelectedRate    models.ShippingRateQuote `json:"selectedRate"`
}

// CreateOrder handles POST /orders: verifies the payment confirmation and
// atomically persists the order from the user's cart. Idempotent per payment
// intent; a replayed confirmation returns the already-created order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if errs := utils.ValidateShippingAddress(req.ShippingAddress); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}
	if req.SelectedRate.Carrier == "" || req.SelectedRate.Rate.IsNegative() {
		utils.BadRequest(c, "A selected shipping rate is required", nil)
		return
	}

	if !oc.payments.VerifySignature(req.PaymentIntentID, req.PaymentID, req.Signature) {
		utils.LogError("Payment verification failed for intent %s, user %d", req.PaymentIntentID, user.ID)
		utils.BadRequest(c, "Payment verification failed", nil)
		return
	}

	cart, err := utils.GetCartDetails(user.ID)
	if err != nil {
		utils.LogError("Failed to get cart details for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get cart details", nil)
		return
	}

	items := make([]order.LineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, order.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	placed, err := oc.orders.Finalize(c.Request.Context(), order.FinalizeInput{
		UserID:          user.ID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		SelectedRate:    req.SelectedRate,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		oc.respondFinalizeError(c, user.ID, err)
		return
	}

	if len(items) > 0 {
		if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			utils.LogError("Failed to clear cart for user %d after order %d: %v", user.ID, placed.ID, err)
		}
		go func(email, number, total string) {
			if err := utils.SendOrderConfirmation(email, number, total); err != nil {
				utils.LogError("Failed to send order confirmation for order %s: %v", number, err)
			}
		}(user.Email, placed.Number, placed.Total.StringFixed(2))
	}

	utils.LogInfo("Finalized order %d for user %d, total %s", placed.ID, user.ID, placed.Total.StringFixed(2))
	utils.Created(c, "Order placed successfully", gin.H{"order": placed})
}

func (oc *OrderController) respondFinalizeError(c *gin.Context, userID uint, err error) {
	var stockErr *order.InsufficientStockError
	var notFoundErr *order.ProductNotFoundError
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		utils.BadRequest(c, "Cannot place an order with an empty cart", nil)
	case errors.Is(err, order.ErrMissingRate):
		utils.BadRequest(c, "A selected shipping rate is required", nil)
	case errors.As(err, &stockErr):
		utils.BadRequest(c, stockErr.Error(), nil)
	case errors.As(err, &notFoundErr):
		utils.NotFound(c, notFoundErr.Error())
	default:
		utils.LogError("Failed to finalize order for user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to place order", nil)
	}
}

// ListOrders returns the authenticated user's orders
func (oc *OrderController) ListOrders(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total)

	var orders []models.Order
	if err := config.DB.Preload("OrderItems.Product").
		Where("user_id = ?", user.ID).Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, total, pagination.Page, pagination.Limit)
}

// GetOrderDetails returns one of the user's orders
func (oc *OrderController) GetOrderDetails(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var ord models.Order
	if err := config.DB.Preload("OrderItems.Product").
		Where("id = ? AND user_id = ?", orderID, user.ID).First(&ord).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{"order": ord})
}

// CancelOrder handles POST /user/orders/:id/cancel. Allowed only while the
// order is pending or paid.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var ord models.Order
	if err := config.DB.Where("id = ? AND user_id = ?", orderID, user.ID).First(&ord).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	updated, err := oc.orders.Transition(c.Request.Context(), ord.ID, models.OrderStatusCancelled, order.TransitionOpts{})
	if err != nil {
		var transitionErr *models.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			utils.LogError("Rejected status transition for order %d: %v", ord.ID, transitionErr)
			utils.BadRequest(c, "This order can no longer be cancelled", transitionErr.Error())
			return
		}
		if errors.Is(err, order.ErrStatusConflict) {
			utils.Conflict(c, "Order status changed, please retry", nil)
			return
		}
		utils.LogError("Failed to cancel order %d: %v", ord.ID, err)
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	utils.LogInfo("Order %d cancelled by user %d", ord.ID, user.ID)
	utils.Success(c, "Order cancelled", gin.H{"order": updated})
}

// UpdateOrderStatusRequest represents the admin status change body
type UpdateOrderStatusRequest struct {
	Status                string     `json:"status" binding:"required"`
	TrackingNumber        string     `json:"tracking_number"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status, enforcing the
// order state machine. Marking an order shipped attaches tracking metadata.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updated, err := oc.orders.Transition(c.Request.Context(), uint(orderID), req.Status, order.TransitionOpts{
		TrackingNumber:        req.TrackingNumber,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
	})
	if err != nil {
		var transitionErr *models.InvalidTransitionError
		switch {
		case errors.As(err, &transitionErr):
			utils.LogError("Rejected status transition for order %d: %v", orderID, transitionErr)
			utils.BadRequest(c, "Invalid status transition", transitionErr.Error())
		case errors.Is(err, order.ErrOrderNotFound):
			utils.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrStatusConflict):
			utils.Conflict(c, "Order status changed, please retry", nil)
		default:
			utils.LogError("Failed to update status for order %d: %v", orderID, err)
			utils.InternalServerError(c, "Failed to update order status", nil)
		}
		return
	}

	utils.LogInfo("Order %d transitioned to %s", updated.ID, updated.Status)
	utils.Success(c, "Order status updated", gin.H{"order": updated})
}

// AdminListOrders returns all orders for the admin dashboard
func (oc *OrderController) AdminListOrders(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Preload("OrderItems").Preload("User").
		Order("created_at desc").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, total, pagination.Page, pagination.Limit)
}
