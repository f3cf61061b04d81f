package domain

import (
	"fmt"
	"time"
)

// State is the resolution status of a report.
type State string

const (
	StateResolved        State = "RESOLVED"
	StateUnderResolution State = "UNDER RESOLUTION"
)

// Valid reports whether s is one of the two known states.
func (s State) Valid() bool {
	return s == StateResolved || s == StateUnderResolution
}

// Toggle flips between RESOLVED and UNDER RESOLUTION.
func (s State) Toggle() State {
	if s == StateResolved {
		return StateUnderResolution
	}
	return StateResolved
}

// Weather is the display-formatted weather snapshot attached to a report.
type Weather struct {
	Temp        string `json:"temp"`        // e.g. "15.0ºC"
	Description string `json:"description"` // e.g. "clear sky"
	Wind        string `json:"wind"`        // e.g. "3.5 m/s"
}

// Report is the central entity, in the shape exchanged with the document store.
// ID is server-assigned and empty until the store acknowledges creation.
type Report struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Address     string   `json:"address,omitempty"`
	Area        string   `json:"area,omitempty"`
	Weather     *Weather `json:"weather,omitempty"`
	PhotoBase64 string   `json:"photoBase64,omitempty"`
	Timestamp   string   `json:"timestamp"` // RFC 3339, assigned at submission
	State       State    `json:"state"`
}

// Validate checks the invariants a record must hold before persistence.
func (r Report) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("report title is required")
	}
	if r.Description == "" {
		return fmt.Errorf("report description is required")
	}
	if r.Category == "" {
		return fmt.Errorf("report category is required")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", r.Longitude)
	}
	if !r.State.Valid() {
		return fmt.Errorf("unknown report state %q", r.State)
	}
	if r.Timestamp == "" {
		return fmt.Errorf("report timestamp is required")
	}
	return nil
}

// SubmittedAt parses the report timestamp as an instant. Malformed or empty
// timestamps map to the zero time so they order before every real instant.
func (r Report) SubmittedAt() time.Time {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
