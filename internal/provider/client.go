// Package provider polls the Launch Library 2 API and refreshes the launch
// cache with transformed records.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Baev1/okto/internal/domain"
)

// DefaultBaseURL is the public Launch Library 2 endpoint.
const DefaultBaseURL = "https://ll.thespacedevs.com/2.2.0"

// Client fetches upcoming launches from Launch Library 2.
type Client struct {
	BaseURL string
	Limit   int
	HTTP    *http.Client
}

// NewClient builds a client with sane timeouts for a background poller.
func NewClient(baseURL string, limit int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = 100
	}
	return &Client{
		BaseURL: baseURL,
		Limit:   limit,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type upcomingResponse struct {
	Results []domain.LaunchInfo `json:"results"`
}

// FetchUpcoming returns the provider's upcoming launches in raw form.
func (c *Client) FetchUpcoming(ctx context.Context) ([]domain.LaunchInfo, error) {
	endpoint := c.BaseURL + "/launch/upcoming/?mode=detailed&limit=" + strconv.Itoa(c.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "okto-launchbot/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("launch library http %d: %s", resp.StatusCode, raw)
	}

	var out upcomingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upcoming launches: %w", err)
	}
	return out.Results, nil
}
