// Package shipping implements address validation and shipping rate quotes on
// top of the geocoding and carrier aggregator clients.
package shipping

import (
	"context"
	"strings"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/services/carrier"
	"github.com/markur/jesus-walks-napa/services/geocode"
	"github.com/markur/jesus-walks-napa/utils"
)

// Validator normalizes and verifies a shipping address against the geocoder
// and the carrier verification service.
type Validator struct {
	geocoder geocode.Geocoder
	carrier  carrier.API
}

// NewValidator creates a Validator with injected clients
func NewValidator(geocoder geocode.Geocoder, api carrier.API) *Validator {
	return &Validator{geocoder: geocoder, carrier: api}
}

func carrierAddress(addr models.ShippingAddress) carrier.Address {
	return carrier.Address{
		Name:    strings.TrimSpace(addr.FirstName + " " + addr.LastName),
		Street1: addr.Address1,
		Street2: addr.Address2,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.PostalCode,
		Country: addr.Country,
		Phone:   addr.Phone,
	}
}

func geocodeQuery(addr models.ShippingAddress) string {
	parts := []string{addr.Address1}
	if addr.Address2 != "" {
		parts = append(parts, addr.Address2)
	}
	parts = append(parts, addr.City, addr.State, addr.PostalCode, addr.Country)
	return strings.Join(parts, ", ")
}

// Validate checks an address against the geocoder and, when geocoding
// succeeds, the carrier verification service. The input must already satisfy
// the field-level schema (the caller's responsibility). Validate never
// returns an error: every failure path produces a ValidatedAddress with
// IsValid=false and a descriptive message. A single failed attempt is
// reported, not retried.
func (v *Validator) Validate(ctx context.Context, addr models.ShippingAddress) models.ValidatedAddress {
	result := models.ValidatedAddress{ShippingAddress: addr}

	candidates, err := v.geocoder.Search(ctx, geocodeQuery(addr))
	if err != nil {
		utils.LogError("Geocoding failed for %s, %s: %v", addr.City, addr.State, err)
		result.Messages = []string{"Address validation is temporarily unavailable"}
		return result
	}
	if len(candidates) == 0 {
		result.Messages = []string{"Address could not be found"}
		return result
	}

	verified, err := v.carrier.VerifyAddress(ctx, carrierAddress(addr))
	if err != nil {
		utils.LogError("Carrier address verification failed for %s, %s: %v", addr.City, addr.State, err)
		result.Messages = []string{"Address verification failed"}
		return result
	}

	normalized := addr
	if verified.Address.Street1 != "" {
		normalized.Address1 = verified.Address.Street1
	}
	normalized.Address2 = verified.Address.Street2
	if verified.Address.City != "" {
		normalized.City = verified.Address.City
	}
	if verified.Address.State != "" {
		normalized.State = verified.Address.State
	}
	if verified.Address.Zip != "" {
		normalized.PostalCode = verified.Address.Zip
	}
	if verified.Address.Country != "" {
		normalized.Country = verified.Address.Country
	}

	result.IsValid = true
	result.NormalizedAddress = &normalized
	result.Messages = verified.Messages
	if result.Messages == nil {
		result.Messages = []string{}
	}
	return result
}
