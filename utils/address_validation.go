package utils

import (
	"strings"

	"github.com/markur/jesus-walks-napa/models"
)

// ValidateShippingAddress performs the field-level schema checks required
// before an address is handed to the external validators. Returns nil when
// the address is well formed.
func ValidateShippingAddress(addr models.ShippingAddress) FieldValidationErrors {
	errs := FieldValidationErrors{}

	require := func(field, value, label string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, FieldValidationError{field, label + " is required"})
		}
	}

	require("firstName", addr.FirstName, "First name")
	require("lastName", addr.LastName, "Last name")
	require("address1", addr.Address1, "Address line 1")
	require("city", addr.City, "City")
	require("state", addr.State, "State")
	require("country", addr.Country, "Country")

	if postal := strings.TrimSpace(addr.PostalCode); len(postal) < 5 {
		errs = append(errs, FieldValidationError{"postalCode", "Postal code must be at least 5 characters"})
	}
	if DigitCount(addr.Phone) < 10 {
		errs = append(errs, FieldValidationError{"phone", "Phone number must contain at least 10 digits"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
