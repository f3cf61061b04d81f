package trueway

import (
	"context"
	"errors"
	"testing"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls  int
	result domain.AddressInfo
	err    error
}

func (g *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.AddressInfo, error) {
	g.calls++
	return g.result, g.err
}

func TestCachedGeocoder_SecondLookupHitsCache(t *testing.T) {
	inner := &countingGeocoder{result: domain.AddressInfo{Address: "Rua A", Area: "Porto"}}
	c := NewCachedGeocoder(inner, 10, testMetrics())

	first, err := c.ReverseGeocode(context.Background(), 41.1579, -8.6291)
	require.NoError(t, err)

	second, err := c.ReverseGeocode(context.Background(), 41.1579, -8.6291)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DistinctCoordinatesMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.AddressInfo{Address: "somewhere", Area: "Porto"}}
	c := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := c.ReverseGeocode(context.Background(), 41.0, -8.0)
	require.NoError(t, err)
	_, err = c.ReverseGeocode(context.Background(), 41.1, -8.1)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_ErrorsAreNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	c := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := c.ReverseGeocode(context.Background(), 41.0, -8.0)
	require.Error(t, err)

	inner.err = nil
	inner.result = domain.AddressInfo{Address: "Rua A", Area: "Porto"}

	info, err := c.ReverseGeocode(context.Background(), 41.0, -8.0)
	require.NoError(t, err)
	assert.Equal(t, "Rua A", info.Address)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyResultsAreNotCached(t *testing.T) {
	inner := &countingGeocoder{result: domain.AddressInfo{}}
	c := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := c.ReverseGeocode(context.Background(), 41.0, -8.0)
	require.NoError(t, err)
	_, err = c.ReverseGeocode(context.Background(), 41.0, -8.0)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.AddressInfo{Address: "A"})
	c.put("b", domain.AddressInfo{Address: "B"})

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("c", domain.AddressInfo{Address: "C"})

	_, ok = c.get("b")
	assert.False(t, ok, "LRU entry should have been evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.AddressInfo{Address: "old"})
	c.put("a", domain.AddressInfo{Address: "new"})

	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Address)
	assert.Len(t, c.entries, 1)
}
