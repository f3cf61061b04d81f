// Package restdb implements the report store against a restdb.io-style REST
// document store.
package restdb

import (
	"bytes"
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

const collection = "/reports"

// Client implements domain.ReportStore over the store's REST API.
// The store assigns identifiers ("_id") on create.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a report store client. baseURL is the store's /rest root.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Create persists a new report and returns the acknowledged record with its
// server-assigned identifier.
func (c *Client) Create(ctx context.Context, r domain.Report) (domain.Report, error) {
	var created domain.Report
	err := c.do(ctx, "create", http.MethodPost, collection, r, &created)
	if err != nil {
		return domain.Report{}, err
	}
	return created, nil
}

// GetAll fetches every report in the collection, in store order.
func (c *Client) GetAll(ctx context.Context) ([]domain.Report, error) {
	var reports []domain.Report
	if err := c.do(ctx, "get_all", http.MethodGet, collection, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Update patches the given fields on a record.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) error {
	return c.do(ctx, "update", http.MethodPatch, collection+"/"+url.PathEscape(id), fields, nil)
}

// Delete removes a record by identifier.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, collection+"/"+url.PathEscape(id), nil, nil)
}

// CheckReadiness probes the store with a minimal read so readiness reflects
// reachability and credential validity, not collection size.
func (c *Client) CheckReadiness(ctx context.Context) error {
	var probe []json.RawMessage
	if err := c.do(ctx, "readiness", http.MethodGet, collection+"?max=1", nil, &probe); err != nil {
		return fmt.Errorf("report store not reachable: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.StoreRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("store %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.StoreRequests.WithLabelValues(op, "error").Inc()
		respBody, _ := io.ReadAll(resp.Body)
		// The body is surfaced verbatim so the caller can show the store's
		// own message to the user.
		return fmt.Errorf("store %s failed: status %d: %s", op, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.StoreRequests.WithLabelValues(op, "error").Inc()
			return fmt.Errorf("decode %s response: %w", op, err)
		}
	}

	c.metrics.StoreRequests.WithLabelValues(op, "success").Inc()
	return nil
}
