package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	result models.ValidatedAddress
	calls  int
}

func (v *fakeValidator) Validate(_ context.Context, addr models.ShippingAddress) models.ValidatedAddress {
	v.calls++
	v.result.ShippingAddress = addr
	return v.result
}

type fakeQuoter struct {
	rates    []models.ShippingRateQuote
	err      error
	calls    int
	lastFrom models.ShippingAddress
	lastTo   models.ShippingAddress
}

func (q *fakeQuoter) GetRates(_ context.Context, from, to models.ShippingAddress, _ models.Parcel) ([]models.ShippingRateQuote, error) {
	q.calls++
	q.lastFrom = from
	q.lastTo = to
	return q.rates, q.err
}

func storeOrigin() models.ShippingAddress {
	return models.ShippingAddress{
		Address1:   "1 Main St",
		City:       "Napa",
		State:      "CA",
		PostalCode: "94559",
		Country:    "US",
	}
}

func shippingRouter(validator *fakeValidator, quoter *fakeQuoter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sc := NewShippingController(validator, quoter, storeOrigin())
	router := gin.New()
	router.POST("/shipping/validate-address", sc.ValidateAddress)
	router.POST("/shipping/calculate-rates", sc.CalculateRates)
	return router
}

const validAddressJSON = `{
	"firstName": "Grace",
	"lastName": "Kim",
	"address1": "1000 Main St",
	"city": "Napa",
	"state": "CA",
	"postalCode": "94559",
	"country": "US",
	"phone": "7075551234"
}`

func TestValidateAddressEndpoint(t *testing.T) {
	validator := &fakeValidator{result: models.ValidatedAddress{IsValid: true, Messages: []string{}}}
	router := shippingRouter(validator, &fakeQuoter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/validate-address", strings.NewReader(validAddressJSON))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, validator.calls)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			IsValid bool `json:"isValid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.True(t, body.Data.IsValid)
}

func TestValidateAddressEndpointSchemaFailure(t *testing.T) {
	validator := &fakeValidator{}
	router := shippingRouter(validator, &fakeQuoter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/validate-address",
		strings.NewReader(`{"firstName": "Grace", "postalCode": "945"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, validator.calls, "external validators are not called for malformed input")
}

func TestCalculateRatesEndpoint(t *testing.T) {
	quoter := &fakeQuoter{
		rates: []models.ShippingRateQuote{
			{Carrier: "USPS", Service: "Priority", Rate: decimal.RequireFromString("8.15"), EstimatedDays: 2, TrackingAvailable: true},
		},
	}
	router := shippingRouter(&fakeValidator{}, quoter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/calculate-rates", strings.NewReader(`{
		"toAddress": `+validAddressJSON+`,
		"parcelDetails": {"weight": 16, "length": 10, "width": 8, "height": 4}
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	// Origin defaulted to the store address.
	assert.Equal(t, "1 Main St", quoter.lastFrom.Address1)
	assert.Equal(t, "1000 Main St", quoter.lastTo.Address1)

	var body struct {
		Data struct {
			Rates []struct {
				Carrier string `json:"carrier"`
			} `json:"rates"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Rates, 1)
	assert.Equal(t, "USPS", body.Data.Rates[0].Carrier)
}

func TestCalculateRatesRejectsZeroWeight(t *testing.T) {
	router := shippingRouter(&fakeValidator{}, &fakeQuoter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/calculate-rates", strings.NewReader(`{
		"toAddress": `+validAddressJSON+`,
		"parcelDetails": {"weight": 0}
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateRatesRejectsMalformedFromAddress(t *testing.T) {
	quoter := &fakeQuoter{}
	router := shippingRouter(&fakeValidator{}, quoter)

	// A supplied origin goes through the same schema check as the
	// destination; it must not reach the aggregator as a 500.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/calculate-rates", strings.NewReader(`{
		"fromAddress": {"firstName": "Grace", "postalCode": "945"},
		"toAddress": `+validAddressJSON+`,
		"parcelDetails": {"weight": 16}
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, quoter.calls)
}

func TestCalculateRatesAggregatorFailure(t *testing.T) {
	quoter := &fakeQuoter{err: errors.New("aggregator timeout: upstream host unreachable")}
	router := shippingRouter(&fakeValidator{}, quoter)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shipping/calculate-rates", strings.NewReader(`{
		"toAddress": `+validAddressJSON+`,
		"parcelDetails": {"weight": 16}
	}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The upstream detail stays in the logs, not the response.
	assert.NotContains(t, w.Body.String(), "upstream host unreachable")
	assert.Contains(t, w.Body.String(), "Failed to calculate shipping rates")
}
