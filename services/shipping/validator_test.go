package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/services/carrier"
	"github.com/markur/jesus-walks-napa/services/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	locations []geocode.Location
	err       error
	calls     int
	lastQuery string
}

func (g *fakeGeocoder) Search(_ context.Context, query string) ([]geocode.Location, error) {
	g.calls++
	g.lastQuery = query
	return g.locations, g.err
}

type fakeCarrier struct {
	verification *carrier.VerificationResult
	verifyErr    error
	verifyCalls  int

	rates     []carrier.Rate
	ratesErr  error
	rateCalls int
	lastReq   carrier.ShipmentRequest
}

func (c *fakeCarrier) VerifyAddress(_ context.Context, _ carrier.Address) (*carrier.VerificationResult, error) {
	c.verifyCalls++
	return c.verification, c.verifyErr
}

func (c *fakeCarrier) GetRates(_ context.Context, req carrier.ShipmentRequest) ([]carrier.Rate, error) {
	c.rateCalls++
	c.lastReq = req
	return c.rates, c.ratesErr
}

func napaAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:  "Grace",
		LastName:   "Kim",
		Address1:   "1000 Main St",
		City:       "Napa",
		State:      "CA",
		PostalCode: "94559",
		Country:    "US",
		Phone:      "7075551234",
	}
}

func TestValidateSuccess(t *testing.T) {
	geocoder := &fakeGeocoder{locations: []geocode.Location{{}}}
	agg := &fakeCarrier{
		verification: &carrier.VerificationResult{
			Address: carrier.Address{
				Street1: "1000 MAIN ST",
				City:    "NAPA",
				State:   "CA",
				Zip:     "94559-3311",
				Country: "US",
			},
			Messages: []string{"Missing secondary information"},
		},
	}
	v := NewValidator(geocoder, agg)

	result := v.Validate(context.Background(), napaAddress())

	assert.True(t, result.IsValid)
	require.NotNil(t, result.NormalizedAddress)
	assert.Equal(t, "1000 MAIN ST", result.NormalizedAddress.Address1)
	assert.Equal(t, "94559-3311", result.NormalizedAddress.PostalCode)
	assert.Equal(t, "Grace", result.NormalizedAddress.FirstName)
	assert.Equal(t, []string{"Missing secondary information"}, result.Messages)
	assert.Contains(t, geocoder.lastQuery, "1000 Main St")
	assert.Contains(t, geocoder.lastQuery, "Napa")
}

func TestValidateSuccessWithoutAdvisories(t *testing.T) {
	geocoder := &fakeGeocoder{locations: []geocode.Location{{}}}
	agg := &fakeCarrier{verification: &carrier.VerificationResult{}}
	v := NewValidator(geocoder, agg)

	result := v.Validate(context.Background(), napaAddress())

	assert.True(t, result.IsValid)
	assert.NotNil(t, result.Messages)
	assert.Empty(t, result.Messages)
}

func TestValidateGeocodeMissSkipsCarrier(t *testing.T) {
	geocoder := &fakeGeocoder{}
	agg := &fakeCarrier{}
	v := NewValidator(geocoder, agg)

	result := v.Validate(context.Background(), napaAddress())

	assert.False(t, result.IsValid)
	assert.Nil(t, result.NormalizedAddress)
	assert.Equal(t, []string{"Address could not be found"}, result.Messages)
	assert.Zero(t, agg.verifyCalls, "carrier must not be called when geocoding finds nothing")
}

func TestValidateGeocoderUnavailable(t *testing.T) {
	geocoder := &fakeGeocoder{err: errors.New("timeout")}
	agg := &fakeCarrier{}
	v := NewValidator(geocoder, agg)

	result := v.Validate(context.Background(), napaAddress())

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Address validation is temporarily unavailable"}, result.Messages)
	assert.Equal(t, 1, geocoder.calls, "a failed attempt is reported, not retried")
	assert.Zero(t, agg.verifyCalls)
}

func TestValidateCarrierFailure(t *testing.T) {
	geocoder := &fakeGeocoder{locations: []geocode.Location{{}}}
	agg := &fakeCarrier{verifyErr: errors.New("503")}
	v := NewValidator(geocoder, agg)

	result := v.Validate(context.Background(), napaAddress())

	assert.False(t, result.IsValid)
	assert.Nil(t, result.NormalizedAddress)
	assert.Equal(t, []string{"Address verification failed"}, result.Messages)
	assert.Equal(t, 1, agg.verifyCalls)
}
