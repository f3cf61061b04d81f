package restdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "store-key"

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func sampleReport() domain.Report {
	return domain.Report{
		Title:       "Pothole on Rua de Cedofeita",
		Description: "Deep pothole near the crosswalk.",
		Category:    "Road",
		Latitude:    41.1579,
		Longitude:   -8.6291,
		Timestamp:   "2026-01-02T15:04:05Z",
		State:       domain.StateUnderResolution,
	}
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reports", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get("x-apikey"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in domain.Report
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Empty(t, in.ID, "drafts are posted without an identifier")

		in.ID = "srv-1"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(in))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	created, err := c.Create(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, "Pothole on Rua de Cedofeita", created.Title)
}

func TestClient_Create_StoreErrorSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"quota exceeded for this collection"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Create(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded for this collection")
	assert.Contains(t, err.Error(), "403")
}

func TestClient_GetAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/reports", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"a","title":"one","state":"UNDER RESOLUTION"},{"_id":"b","title":"two","state":"RESOLVED"}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reports, err := c.GetAll(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "a", reports[0].ID)
	assert.Equal(t, domain.StateResolved, reports[1].State)
}

func TestClient_Update(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/reports/abc123", r.URL.Path)

		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "RESOLVED", fields["state"])

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.Update(context.Background(), "abc123", map[string]any{"state": "RESOLVED"})
	require.NoError(t, err)
}

func TestClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/reports/abc123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.NoError(t, c.Delete(context.Background(), "abc123"))
}

func TestClient_Delete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"document not found"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}
