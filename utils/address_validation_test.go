package utils

import (
	"testing"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FirstName:  "Grace",
		LastName:   "Kim",
		Address1:   "1000 Main St",
		City:       "Napa",
		State:      "CA",
		PostalCode: "94559",
		Country:    "US",
		Phone:      "(707) 555-1234",
	}
}

func fieldsOf(errs FieldValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateShippingAddress(t *testing.T) {
	assert.Nil(t, ValidateShippingAddress(validAddress()))
}

func TestValidateShippingAddressRequiredFields(t *testing.T) {
	errs := ValidateShippingAddress(models.ShippingAddress{})
	require.NotNil(t, errs)

	fields := fieldsOf(errs)
	for _, want := range []string{"firstName", "lastName", "address1", "city", "state", "country", "postalCode", "phone"} {
		assert.Contains(t, fields, want)
	}
}

func TestValidateShippingAddressShortPostalCode(t *testing.T) {
	addr := validAddress()
	addr.PostalCode = "945"

	errs := ValidateShippingAddress(addr)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"postalCode"}, fieldsOf(errs))
}

func TestValidateShippingAddressPhoneDigits(t *testing.T) {
	addr := validAddress()
	addr.Phone = "555-1234" // 7 digits

	errs := ValidateShippingAddress(addr)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"phone"}, fieldsOf(errs))

	// Formatting characters do not count, digits do.
	addr.Phone = "+1 (707) 555-1234"
	assert.Nil(t, ValidateShippingAddress(addr))
}

func TestValidateShippingAddressWhitespaceOnly(t *testing.T) {
	addr := validAddress()
	addr.City = "   "

	errs := ValidateShippingAddress(addr)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"city"}, fieldsOf(errs))
}
