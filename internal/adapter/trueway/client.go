// Package trueway implements reverse geocoding against the TrueWay Geocoding
// API (RapidAPI-hosted).
package trueway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
)

const rapidAPIHost = "trueway-geocoding.p.rapidapi.com"

// Client implements domain.Geocoder using the TrueWay ReverseGeocode endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a TrueWay geocoding client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://" + rapidAPIHost,
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode converts a coordinate pair into a street address and area
// label. An empty result set is an error: the caller treats a missing address
// as a failed (non-fatal) lookup.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.AddressInfo, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%.6f,%.6f", lat, lon)},
		"language": {"en"},
	}
	fullURL := c.baseURL + "/ReverseGeocode?" + params.Encode()

	start := time.Now()
	info, err := c.doRequest(ctx, fullURL)
	c.metrics.LookupDuration.WithLabelValues("address").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("address", "error").Inc()
		return domain.AddressInfo{}, err
	}
	c.metrics.LookupRequests.WithLabelValues("address", "success").Inc()
	return info, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.AddressInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.AddressInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", rapidAPIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.AddressInfo{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.AddressInfo{}, fmt.Errorf("trueway API error: status %d: %s", resp.StatusCode, body)
	}

	var twResp response
	if err := json.NewDecoder(resp.Body).Decode(&twResp); err != nil {
		return domain.AddressInfo{}, fmt.Errorf("decode response: %w", err)
	}

	if len(twResp.Results) == 0 {
		return domain.AddressInfo{}, fmt.Errorf("address not found for %s", req.URL.Query().Get("location"))
	}

	r := twResp.Results[0]
	return domain.AddressInfo{
		Address: r.Address,
		Area:    r.Area,
	}, nil
}

// TrueWay API response types.

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Address string `json:"address"`
	Area    string `json:"area"`
}
