package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/geocoding/v5/mapbox.places/")
		assert.Equal(t, "test-key", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"features": [
				{"place_name": "1000 Main St, Napa, California 94559, United States", "center": [-122.286865, 38.297539]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	locations, err := client.Search(context.Background(), "1000 Main St, Napa, CA, 94559, US")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "1000 Main St, Napa, California 94559, United States", locations[0].PlaceName)
	assert.InDelta(t, -122.286865, locations[0].Longitude, 1e-9)
	assert.InDelta(t, 38.297539, locations[0].Latitude, 1e-9)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	locations, err := client.Search(context.Background(), "nowhere at all")
	require.NoError(t, err, "an empty result set is not an error")
	assert.Empty(t, locations)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.Search(context.Background(), "1000 Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
