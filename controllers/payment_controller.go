package controllers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/services/payment"
	"github.com/markur/jesus-walks-napa/utils"
	"github.com/shopspring/decimal"
)

// IntentCreator is the payment surface the controller depends on
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal) (*payment.Intent, error)
}

// PaymentController exposes payment intent creation
type PaymentController struct {
	intents IntentCreator
}

// NewPaymentController creates a PaymentController
func NewPaymentController(intents IntentCreator) *PaymentController {
	return &PaymentController{intents: intents}
}

// CreatePaymentIntentRequest represents the create-payment-intent body.
// Amount is in major currency units (dollars); minor-unit conversion happens
// inside the payment service.
type CreatePaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreatePaymentIntent handles POST /create-payment-intent. Every call
// creates a fresh intent; the client must discard any token obtained for a
// previously selected shipping rate.
func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	intent, err := pc.intents.CreateIntent(c.Request.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			utils.BadRequest(c, "Amount must be greater than zero", nil)
			return
		}
		appErr := utils.ExternalServiceError("Failed to create payment intent", err)
		utils.LogError("Payment processor error for amount %s: %v", req.Amount, appErr)
		utils.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	utils.LogInfo("Created payment intent %s for amount %s", intent.ID, req.Amount)
	utils.Success(c, "Payment intent created", gin.H{
		"clientSecret": intent.ClientSecret,
	})
}
