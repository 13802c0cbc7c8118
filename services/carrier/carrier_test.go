package carrier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-key", user)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/addresses":
			var payload struct {
				Address Address `json:"address"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "1000 Main St", payload.Address.Street1)
			w.Write([]byte(`{"id": "adr_123", "street1": "1000 Main St"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/addresses/adr_123/verify":
			w.Write([]byte(`{
				"address": {
					"street1": "1000 MAIN ST",
					"city": "NAPA",
					"state": "CA",
					"zip": "94559-3311",
					"country": "US",
					"verifications": {
						"delivery": {
							"success": true,
							"details": [{"message": "Missing secondary information"}]
						}
					}
				}
			}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	result, err := client.VerifyAddress(context.Background(), Address{
		Street1: "1000 Main St",
		City:    "Napa",
		State:   "CA",
		Zip:     "94559",
		Country: "US",
	})
	require.NoError(t, err)

	assert.Equal(t, "1000 MAIN ST", result.Address.Street1)
	assert.Equal(t, "94559-3311", result.Address.Zip)
	assert.Equal(t, []string{"Missing secondary information"}, result.Messages)
}

func TestVerifyAddressCreateFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.VerifyAddress(context.Background(), Address{Street1: "nowhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create address")
}

func TestGetRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/shipments", r.URL.Path)

		var payload struct {
			Shipment ShipmentRequest `json:"shipment"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Napa", payload.Shipment.To.City)
		assert.Equal(t, float64(16), payload.Shipment.Parcel.Weight)

		w.Write([]byte(`{
			"rates": [
				{"carrier": "USPS", "service": "Priority", "rate": "8.15", "delivery_days": 2},
				{"carrier": "UPS", "service": "Ground", "rate": "11.40", "delivery_days": null}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	rates, err := client.GetRates(context.Background(), ShipmentRequest{
		From:   Address{City: "Napa", State: "CA", Zip: "94559", Country: "US"},
		To:     Address{City: "Napa", State: "CA", Zip: "94559", Country: "US"},
		Parcel: Parcel{Weight: 16, Length: 10, Width: 8, Height: 4},
	})
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "USPS", rates[0].Carrier)
	assert.Equal(t, "8.15", rates[0].Rate)
	require.NotNil(t, rates[0].DeliveryDays)
	assert.Equal(t, 2, *rates[0].DeliveryDays)
	assert.Nil(t, rates[1].DeliveryDays)
}

func TestGetRatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.GetRates(context.Background(), ShipmentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
