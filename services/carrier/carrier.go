// Package carrier wraps the carrier-rate aggregator REST API: address
// verification and shipment rate quotes across carriers.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.easypost.com/v2"

// Address is the aggregator-side address representation
type Address struct {
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// VerificationResult is the aggregator's corrected address plus any delivery
// advisories it attached.
type VerificationResult struct {
	Address  Address
	Messages []string
}

// Parcel holds shipment dimensions: weight in ounces, dimensions in inches
type Parcel struct {
	Weight float64 `json:"weight"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ShipmentRequest is the input for a rate quote
type ShipmentRequest struct {
	From   Address `json:"from_address"`
	To     Address `json:"to_address"`
	Parcel Parcel  `json:"parcel"`
}

// Rate is one rate option as returned by the aggregator. Rate is a decimal
// string; DeliveryDays may be absent for some services.
type Rate struct {
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	Rate         string `json:"rate"`
	DeliveryDays *int   `json:"delivery_days"`
}

// API is the aggregator surface the shipping services depend on
type API interface {
	VerifyAddress(ctx context.Context, addr Address) (*VerificationResult, error)
	GetRates(ctx context.Context, req ShipmentRequest) ([]Rate, error)
}

// Client is the HTTP implementation of API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an aggregator client. baseURL may be empty to use the
// production endpoint; tests point it at a stub server.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("carrier request returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode carrier response: %w", err)
		}
	}
	return nil
}

type addressRecord struct {
	ID string `json:"id"`
	Address
}

type verifyResponse struct {
	Address struct {
		Address
		Verifications struct {
			Delivery struct {
				Success bool `json:"success"`
				Details []struct {
					Message string `json:"message"`
				} `json:"details"`
			} `json:"delivery"`
		} `json:"verifications"`
	} `json:"address"`
}

// VerifyAddress creates the address on the aggregator and then runs the
// explicit verify step, returning the corrected fields and any advisories.
func (c *Client) VerifyAddress(ctx context.Context, addr Address) (*VerificationResult, error) {
	var created addressRecord
	if err := c.do(ctx, http.MethodPost, "/addresses", map[string]interface{}{"address": addr}, &created); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	var verified verifyResponse
	if err := c.do(ctx, http.MethodGet, "/addresses/"+created.ID+"/verify", nil, &verified); err != nil {
		return nil, fmt.Errorf("verify address: %w", err)
	}

	result := &VerificationResult{Address: verified.Address.Address}
	for _, d := range verified.Address.Verifications.Delivery.Details {
		if d.Message != "" {
			result.Messages = append(result.Messages, d.Message)
		}
	}
	return result, nil
}

type shipmentResponse struct {
	Rates []Rate `json:"rates"`
}

// GetRates creates a shipment on the aggregator and returns its rate options
// in the order the aggregator produced them.
func (c *Client) GetRates(ctx context.Context, req ShipmentRequest) ([]Rate, error) {
	var shipment shipmentResponse
	if err := c.do(ctx, http.MethodPost, "/shipments", map[string]interface{}{"shipment": req}, &shipment); err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return shipment.Rates, nil
}
