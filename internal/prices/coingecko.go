// Package prices implements the USD price oracle client against the
// CoinGecko simple/price API.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is a CoinGecko API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. An empty baseURL selects the public
// API; a nil httpClient gets a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// GetPrices fetches USD unit prices for the given ids in one batched
// request. Ids missing from the response are simply absent from the result
// map; that is a valid partial response, not an error. An empty id set
// short-circuits without a network call.
func (c *Client) GetPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get prices: status %d", resp.StatusCode)
	}

	// Response shape: {"tether": {"usd": 1.0}, ...}
	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode prices: %w", err)
	}

	out := make(map[string]float64, len(raw))
	for id, currencies := range raw {
		if usd, ok := currencies["usd"]; ok {
			out[id] = usd
		}
	}
	return out, nil
}
