// Package openweather implements the weather lookup against the
// RapidAPI-hosted OpenWeather endpoint.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
)

const rapidAPIHost = "open-weather13.p.rapidapi.com"

// Client implements domain.WeatherProvider.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeather lookup client.
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

// CurrentWeather looks up current conditions at a coordinate and formats them
// for display. The upstream reports temperature in Kelvin; it is converted to
// Celsius with one decimal and a "ºC" suffix. Wind speed keeps the upstream
// m/s value.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	params := url.Values{
		"latitude":  {fmt.Sprintf("%.6f", lat)},
		"longitude": {fmt.Sprintf("%.6f", lon)},
		"lang":      {"en"},
	}
	fullURL := c.baseURL + "/latlon?" + params.Encode()

	start := time.Now()
	w, err := c.doRequest(ctx, fullURL)
	c.metrics.LookupDuration.WithLabelValues("weather").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("weather", "error").Inc()
		return domain.Weather{}, err
	}
	c.metrics.LookupRequests.WithLabelValues("weather", "success").Inc()
	return w, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Weather, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", rapidAPIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Weather{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.Weather{}, fmt.Errorf("decode response: %w", err)
	}

	if owResp.Main == nil || len(owResp.Weather) == 0 {
		return domain.Weather{}, fmt.Errorf("weather data not found")
	}

	return domain.Weather{
		Temp:        FormatCelsius(owResp.Main.Temp),
		Description: owResp.Weather[0].Description,
		Wind:        formatWind(owResp.Wind.Speed),
	}, nil
}

// FormatCelsius converts a Kelvin reading to the display string used on
// reports: Celsius rounded to one decimal with a "ºC" suffix.
func FormatCelsius(kelvin float64) string {
	return strconv.FormatFloat(kelvin-273.15, 'f', 1, 64) + "ºC"
}

func formatWind(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64) + " m/s"
}

// OpenWeather API response types.

type response struct {
	Main    *mainSection     `json:"main"`
	Weather []weatherSection `json:"weather"`
	Wind    windSection      `json:"wind"`
}

type mainSection struct {
	Temp float64 `json:"temp"` // Kelvin
}

type weatherSection struct {
	Description string `json:"description"`
}

type windSection struct {
	Speed float64 `json:"speed"` // m/s
}
