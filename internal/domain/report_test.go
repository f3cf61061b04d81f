package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() Report {
	return Report{
		Title:       "Pothole on Rua de Cedofeita",
		Description: "Deep pothole near the crosswalk.",
		Category:    "Road",
		Latitude:    41.1579,
		Longitude:   -8.6291,
		Timestamp:   "2026-01-02T15:04:05Z",
		State:       StateUnderResolution,
	}
}

func TestReport_Validate_OK(t *testing.T) {
	require.NoError(t, validReport().Validate())
}

func TestReport_Validate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Report)
		wantErr string
	}{
		{"missing title", func(r *Report) { r.Title = "" }, "title"},
		{"missing description", func(r *Report) { r.Description = "" }, "description"},
		{"missing category", func(r *Report) { r.Category = "" }, "category"},
		{"latitude too low", func(r *Report) { r.Latitude = -90.01 }, "latitude"},
		{"latitude too high", func(r *Report) { r.Latitude = 90.01 }, "latitude"},
		{"longitude too low", func(r *Report) { r.Longitude = -180.5 }, "longitude"},
		{"longitude too high", func(r *Report) { r.Longitude = 181 }, "longitude"},
		{"unknown state", func(r *Report) { r.State = "OPEN" }, "state"},
		{"missing timestamp", func(r *Report) { r.Timestamp = "" }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReport_Validate_BoundaryCoordinates(t *testing.T) {
	r := validReport()
	r.Latitude, r.Longitude = 90, -180
	assert.NoError(t, r.Validate())

	r.Latitude, r.Longitude = -90, 180
	assert.NoError(t, r.Validate())
}

func TestState_Toggle(t *testing.T) {
	assert.Equal(t, StateResolved, StateUnderResolution.Toggle())
	assert.Equal(t, StateUnderResolution, StateResolved.Toggle())
}

func TestReport_SubmittedAt(t *testing.T) {
	r := validReport()
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), r.SubmittedAt())

	r.Timestamp = "not-a-timestamp"
	assert.True(t, r.SubmittedAt().IsZero())

	r.Timestamp = ""
	assert.True(t, r.SubmittedAt().IsZero())
}

func TestAnalysis_ComposedDescription(t *testing.T) {
	a := Analysis{
		Description: "Asphalt damage across one lane.",
		Keywords:    []string{"pothole", "asphalt", "road"},
		Category:    "Road",
	}
	assert.Equal(t,
		"Asphalt damage across one lane.\n\n[Tags]: pothole, asphalt, road\n[Category]: Road",
		a.ComposedDescription())
}
