package domain

import "sort"

// FacetAll is the sentinel facet value meaning "no filter applied".
const FacetAll = "All"

// SortOrder selects the timestamp ordering of the report list.
type SortOrder string

const (
	SortDescending SortOrder = "descending" // most recent first (default)
	SortAscending  SortOrder = "ascending"
)

// AreaOptions derives the selectable area facet values: the "All" sentinel
// followed by the distinct non-empty areas in order of first appearance.
func AreaOptions(reports []Report) []string {
	return facetOptions(reports, func(r Report) string { return r.Area })
}

// CategoryOptions derives the selectable category facet values, same rule as
// AreaOptions.
func CategoryOptions(reports []Report) []string {
	return facetOptions(reports, func(r Report) string { return r.Category })
}

func facetOptions(reports []Report, value func(Report) string) []string {
	opts := []string{FacetAll}
	seen := make(map[string]bool)
	for _, r := range reports {
		v := value(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, v)
	}
	return opts
}

// FilterSort derives the display-ready report list: reports matching both
// facet selections, ordered by timestamp. A facet left at the "All" sentinel
// applies no filter. The sort is stable, so reports with equal timestamps
// keep their relative input order. The input slice is never mutated.
func FilterSort(reports []Report, area, category string, order SortOrder) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if area != FacetAll && r.Area != area {
			continue
		}
		if category != FacetAll && r.Category != category {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].SubmittedAt(), out[j].SubmittedAt()
		if order == SortAscending {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
	return out
}
