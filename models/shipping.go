package models

import (
	"github.com/shopspring/decimal"
)

// ShippingAddress is the request-scoped address value object used throughout
// checkout. The normalized form (or the original, when normalization is
// unavailable) is stored on the Order as a structured blob.
type ShippingAddress struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// ValidatedAddress is the result of address validation. It is never persisted
// directly; only the normalized address lands on an Order.
type ValidatedAddress struct {
	ShippingAddress
	IsValid           bool             `json:"isValid"`
	NormalizedAddress *ShippingAddress `json:"normalizedAddress,omitempty"`
	Messages          []string         `json:"messages,omitempty"`
}

// ShippingRateQuote is a transient rate option returned by the carrier
// aggregator. The selected quote's fields are captured into the Order at
// confirmation time.
type ShippingRateQuote struct {
	Carrier           string          `json:"carrier"`
	Service           string          `json:"service"`
	Rate              decimal.Decimal `json:"rate"`
	EstimatedDays     int             `json:"estimatedDays"`
	TrackingAvailable bool            `json:"trackingAvailable"`
}

// Parcel holds the physical dimensions of a shipment used for rate
// calculation. Weight is in ounces, dimensions in inches.
type Parcel struct {
	Weight float64 `json:"weight"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
