package shipping

import (
	"context"
	"fmt"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/markur/jesus-walks-napa/services/carrier"
	"github.com/shopspring/decimal"
)

// Quoter returns available shipping options for a validated address pair and
// parcel. It does not re-validate addresses.
type Quoter struct {
	carrier carrier.API
}

// NewQuoter creates a Quoter with an injected aggregator client
func NewQuoter(api carrier.API) *Quoter {
	return &Quoter{carrier: api}
}

// GetRates quotes shipping options for a parcel between two addresses. Any
// aggregator failure fails the whole operation; there are no partial results.
// Rates keep the aggregator's ordering, so the first element is the
// system-wide default selection.
func (q *Quoter) GetRates(ctx context.Context, from, to models.ShippingAddress, parcel models.Parcel) ([]models.ShippingRateQuote, error) {
	req := carrier.ShipmentRequest{
		From: carrierAddress(from),
		To:   carrierAddress(to),
		Parcel: carrier.Parcel{
			Weight: parcel.Weight,
			Length: parcel.Length,
			Width:  parcel.Width,
			Height: parcel.Height,
		},
	}

	rates, err := q.carrier.GetRates(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get rates: %w", err)
	}

	quotes := make([]models.ShippingRateQuote, 0, len(rates))
	for _, r := range rates {
		amount, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("parse rate %q from %s %s: %w", r.Rate, r.Carrier, r.Service, err)
		}
		days := 0
		if r.DeliveryDays != nil && *r.DeliveryDays > 0 {
			days = *r.DeliveryDays
		}
		quotes = append(quotes, models.ShippingRateQuote{
			Carrier:           r.Carrier,
			Service:           r.Service,
			Rate:              amount,
			EstimatedDays:     days,
			TrackingAvailable: true,
		})
	}
	return quotes, nil
}
