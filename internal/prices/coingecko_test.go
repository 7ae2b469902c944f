package prices

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPricesBatchesIDs(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"tether":{"usd":1.0},"usd-coin":{"usd":0.999}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	prices, err := client.GetPrices(t.Context(), []string{"tether", "usd-coin"})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "tether%2Cusd-coin")
	assert.Contains(t, gotQuery, "vs_currencies=usd")
	assert.Equal(t, map[string]float64{"tether": 1.0, "usd-coin": 0.999}, prices)
}

func TestGetPricesPartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tether":{"usd":1.0}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	prices, err := client.GetPrices(t.Context(), []string{"tether", "no-such-id"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, prices["tether"])
	_, ok := prices["no-such-id"]
	assert.False(t, ok, "missing ids are absent, not zero")
}

func TestGetPricesEmptyIDsSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty id set")
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	prices, err := client.GetPrices(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestGetPricesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.GetPrices(t.Context(), []string{"tether"})
	assert.Error(t, err)
}
