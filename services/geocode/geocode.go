// Package geocode wraps the forward-geocoding REST API used to confirm a
// shipping address corresponds to a real place before carrier verification.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.mapbox.com"

// Location is a single geocoding candidate
type Location struct {
	PlaceName string
	Longitude float64
	Latitude  float64
}

// Geocoder resolves a free-text address query into zero or more candidates
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

// Client is an HTTP Geocoder backed by the Mapbox forward-geocoding API
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client. baseURL may be empty to use the
// production endpoint; tests point it at a stub server.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Features []struct {
		PlaceName string     `json:"place_name"`
		Center    [2]float64 `json:"center"`
	} `json:"features"`
}

// Search performs forward geocoding for a free-text query. An empty result
// slice means the address could not be found; that is not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Location, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=5",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	locations := make([]Location, 0, len(body.Features))
	for _, f := range body.Features {
		locations = append(locations, Location{
			PlaceName: f.PlaceName,
			Longitude: f.Center[0],
			Latitude:  f.Center[1],
		})
	}
	return locations, nil
}
