package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listReport(id, area, category, timestamp string) Report {
	r := validReport()
	r.ID = id
	r.Area = area
	r.Category = category
	r.Timestamp = timestamp
	return r
}

func ids(reports []Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestFacetOptions_DistinctFirstAppearance(t *testing.T) {
	reports := []Report{
		listReport("1", "Porto", "Road", "2026-01-01T00:00:00Z"),
		listReport("2", "Lisboa", "Water", "2026-01-02T00:00:00Z"),
		listReport("3", "Porto", "Road", "2026-01-03T00:00:00Z"),
		listReport("4", "", "Other", "2026-01-04T00:00:00Z"),
	}

	assert.Equal(t, []string{"All", "Porto", "Lisboa"}, AreaOptions(reports))
	assert.Equal(t, []string{"All", "Road", "Water", "Other"}, CategoryOptions(reports))
}

func TestFacetOptions_Empty(t *testing.T) {
	assert.Equal(t, []string{"All"}, AreaOptions(nil))
	assert.Equal(t, []string{"All"}, CategoryOptions(nil))
}

func TestFilterSort_AllSentinelsReturnEverything(t *testing.T) {
	reports := []Report{
		listReport("t1", "Porto", "Road", "2026-01-01T00:00:00Z"),
		listReport("t2", "Lisboa", "Water", "2026-01-02T00:00:00Z"),
		listReport("t3", "Porto", "Road", "2026-01-03T00:00:00Z"),
	}

	desc := FilterSort(reports, FacetAll, FacetAll, SortDescending)
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(desc))

	asc := FilterSort(reports, FacetAll, FacetAll, SortAscending)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(asc))
}

func TestFilterSort_AreaFacet(t *testing.T) {
	reports := []Report{
		listReport("1", "Porto", "Road", "2026-01-01T00:00:00Z"),
		listReport("2", "Lisboa", "Road", "2026-01-01T00:00:00Z"),
		listReport("3", "Porto", "Road", "2026-01-01T00:00:00Z"),
	}

	got := FilterSort(reports, "Porto", FacetAll, SortAscending)
	assert.Equal(t, []string{"1", "3"}, ids(got), "matching records keep input order")
}

func TestFilterSort_BothFacetsAnd(t *testing.T) {
	reports := []Report{
		listReport("1", "Porto", "Road", "2026-01-01T00:00:00Z"),
		listReport("2", "Porto", "Water", "2026-01-02T00:00:00Z"),
		listReport("3", "Lisboa", "Road", "2026-01-03T00:00:00Z"),
	}

	got := FilterSort(reports, "Porto", "Road", SortDescending)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterSort_StableOnEqualTimestamps(t *testing.T) {
	const ts = "2026-01-01T12:00:00Z"
	reports := []Report{
		listReport("a", "Porto", "Road", ts),
		listReport("b", "Porto", "Road", ts),
		listReport("c", "Porto", "Road", ts),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterSort(reports, FacetAll, FacetAll, SortDescending)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterSort(reports, FacetAll, FacetAll, SortAscending)))
}

func TestFilterSort_MalformedTimestampsSortEarliest(t *testing.T) {
	reports := []Report{
		listReport("good", "Porto", "Road", "2026-01-01T00:00:00Z"),
		listReport("bad", "Porto", "Road", "yesterday-ish"),
	}

	asc := FilterSort(reports, FacetAll, FacetAll, SortAscending)
	assert.Equal(t, []string{"bad", "good"}, ids(asc))

	desc := FilterSort(reports, FacetAll, FacetAll, SortDescending)
	assert.Equal(t, []string{"good", "bad"}, ids(desc))
}

func TestFilterSort_DoesNotMutateInput(t *testing.T) {
	reports := []Report{
		listReport("1", "Porto", "Road", "2026-01-02T00:00:00Z"),
		listReport("2", "Lisboa", "Water", "2026-01-01T00:00:00Z"),
	}

	_ = FilterSort(reports, FacetAll, FacetAll, SortAscending)

	require.Equal(t, "1", reports[0].ID)
	require.Equal(t, "2", reports[1].ID)
}
