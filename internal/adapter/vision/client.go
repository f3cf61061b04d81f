// Package vision implements photo classification against the RapidAPI-hosted
// image tagging and classification service.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
)

const rapidAPIHost = "image-tagging-and-classification.p.rapidapi.com"

// dataURIPrefixRe strips the embedded MIME prefix from a photo data URI,
// e.g. "data:image/jpeg;base64,". The service accepts bare base64 only.
var dataURIPrefixRe = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// Client implements domain.ImageAnalyzer.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an image classification client.
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

// Analyze classifies a captured photo into a suggested title, description,
// keyword tags, and category. A response without a "data" field is an error;
// the submission flow substitutes fixed defaults on any failure here.
func (c *Client) Analyze(ctx context.Context, photoBase64 string) (domain.Analysis, error) {
	start := time.Now()
	analysis, err := c.doRequest(ctx, photoBase64)
	c.metrics.LookupDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("classify", "error").Inc()
		return domain.Analysis{}, err
	}
	c.metrics.LookupRequests.WithLabelValues("classify", "success").Inc()
	return analysis, nil
}

func (c *Client) doRequest(ctx context.Context, photoBase64 string) (domain.Analysis, error) {
	payload := request{
		InputImage:           dataURIPrefixRe.ReplaceAllString(photoBase64, ""),
		InputType:            "base64",
		MaxDescriptionLength: 500,
		MinKeywordsCount:     3,
		MaxKeywordsCount:     5,
		CustomCategories:     map[string]any{},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", rapidAPIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.Analysis{}, fmt.Errorf("vision API error: status %d: %s", resp.StatusCode, respBody)
	}

	var vResp response
	if err := json.NewDecoder(resp.Body).Decode(&vResp); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode response: %w", err)
	}

	if vResp.Data == nil {
		return domain.Analysis{}, fmt.Errorf("analysis result missing data")
	}

	analysis := domain.Analysis{
		Title:       vResp.Data.Title,
		Description: vResp.Data.Description,
		Keywords:    vResp.Data.Keywords,
		Category:    vResp.Data.Category,
	}
	if analysis.Title == "" {
		analysis.Title = "Report detected"
	}
	if analysis.Category == "" {
		analysis.Category = "General"
	}
	return analysis, nil
}

// Vision API request/response types.

type request struct {
	InputImage           string         `json:"input_image"`
	InputType            string         `json:"input_type"`
	MaxDescriptionLength int            `json:"max_description_length"`
	MinKeywordsCount     int            `json:"min_keywords_count"`
	MaxKeywordsCount     int            `json:"max_keywords_count"`
	CustomCategories     map[string]any `json:"custom_categories"`
}

type response struct {
	Data *analysisData `json:"data"`
}

type analysisData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}
