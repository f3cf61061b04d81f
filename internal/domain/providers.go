package domain

import (
	"context"
	"strings"
	"time"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FixRequest configures a one-shot position fix.
type FixRequest struct {
	HighAccuracy bool
	Timeout      time.Duration // how long the provider may take to answer
	MaximumAge   time.Duration // oldest acceptable cached fix
}

// Locator supplies the device's current position.
type Locator interface {
	CurrentPosition(ctx context.Context, req FixRequest) (Coordinate, error)
}

// AddressInfo is the result of reverse-geocoding a coordinate.
type AddressInfo struct {
	Address string `json:"address"` // full street address
	Area    string `json:"area"`    // city / locality label used as a list facet
}

// Geocoder converts coordinates to a human-readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (AddressInfo, error)
}

// WeatherProvider maps a coordinate to current conditions,
// already formatted for display (see Weather).
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error)
}

// Analysis is what the image-classification service derives from a photo.
type Analysis struct {
	Title       string
	Description string
	Keywords    []string
	Category    string
}

// ComposedDescription renders the description enriched with the keyword tags
// and category, the form stored on the persisted record:
//
//	<description>
//
//	[Tags]: pothole, asphalt
//	[Category]: Road
func (a Analysis) ComposedDescription() string {
	out := a.Description
	out += "\n\n[Tags]: " + strings.Join(a.Keywords, ", ")
	out += "\n[Category]: " + a.Category
	return out
}

// ImageAnalyzer classifies a captured photo. The input is the photo as a
// base64 data URI; implementations strip the MIME prefix before upload.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, photoBase64 string) (Analysis, error)
}

// ReportStore is the remote document store holding persisted reports.
// Create returns the acknowledged record including its server-assigned ID.
type ReportStore interface {
	Create(ctx context.Context, r Report) (Report, error)
	GetAll(ctx context.Context) ([]Report, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// ReportPublisher announces successfully persisted reports to downstream
// consumers. Publishing is best-effort: failures never undo a submission.
type ReportPublisher interface {
	PublishCreated(ctx context.Context, r Report) error
}
