package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client fetches the catalog from a running server.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a client for the catalog endpoint at url.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, client: httpClient}
}

// Fetch retrieves the catalog entries. Transport or decode failure returns a
// nil slice and an error; callers add no columns in that case.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog: fetch: unexpected status %s", resp.Status)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}
	return payload.ColumnsInfo, nil
}
