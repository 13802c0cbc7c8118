package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/utils"
)

// AddressValidator is the validation surface the controller depends on
type AddressValidator interface {
	Validate(ctx context.Context, addr models.ShippingAddress) models.ValidatedAddress
}

// RateQuoter is the quoting surface the controller depends on
type RateQuoter interface {
	GetRates(ctx context.Context, from, to models.ShippingAddress, parcel models.Parcel) ([]models.ShippingRateQuote, error)
}

// ShippingController exposes address validation and rate calculation. Its
// service clients are injected at startup.
type ShippingController struct {
	validator AddressValidator
	quoter    RateQuoter
	origin    models.ShippingAddress
}

// NewShippingController creates a ShippingController. origin is the store's
// ship-from address, used when a request omits fromAddress.
func NewShippingController(validator AddressValidator, quoter RateQuoter, origin models.ShippingAddress) *ShippingController {
	return &ShippingController{validator: validator, quoter: quoter, origin: origin}
}

// ValidateAddress handles POST /shipping/validate-address
func (sc *ShippingController) ValidateAddress(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if errs := utils.ValidateShippingAddress(addr); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}

	result := sc.validator.Validate(c.Request.Context(), addr)
	utils.LogInfo("Validated address for %s, %s: valid=%t", addr.City, addr.State, result.IsValid)
	utils.Success(c, "Address validation complete", result)
}

// CalculateRatesRequest represents the rate calculation request body
type CalculateRatesRequest struct {
	FromAddress   *models.ShippingAddress `json:"fromAddress"`
	ToAddress     models.ShippingAddress  `json:"toAddress"`
	ParcelDetails models.Parcel           `json:"parcelDetails"`
}

// CalculateRates handles POST /shipping/calculate-rates
func (sc *ShippingController) CalculateRates(c *gin.Context) {
	var req CalculateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if errs := utils.ValidateShippingAddress(req.ToAddress); errs != nil {
		utils.ValidationFailed(c, errs)
		return
	}
	if req.ParcelDetails.Weight <= 0 {
		utils.BadRequest(c, "Parcel weight must be greater than zero", nil)
		return
	}

	from := sc.origin
	if req.FromAddress != nil {
		if errs := utils.ValidateShippingAddress(*req.FromAddress); errs != nil {
			utils.ValidationFailed(c, errs)
			return
		}
		from = *req.FromAddress
	}

	rates, err := sc.quoter.GetRates(c.Request.Context(), from, req.ToAddress, req.ParcelDetails)
	if err != nil {
		appErr := utils.ExternalServiceError("Failed to calculate shipping rates", err)
		utils.LogError("Rate calculation failed for %s, %s: %v", req.ToAddress.City, req.ToAddress.State, appErr)
		utils.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	utils.LogInfo("Quoted %d rates for %s, %s", len(rates), req.ToAddress.City, req.ToAddress.State)
	utils.Success(c, "Shipping rates calculated successfully", gin.H{"rates": rates})
}
