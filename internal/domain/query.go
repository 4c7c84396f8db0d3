package domain

import "fmt"

// FilterKind restricts a search to one Kind, or to none with FilterAll.
type FilterKind string

// Filters accepted by a search.
const (
	FilterAll    FilterKind = "all"
	FilterMovie  FilterKind = "movie"
	FilterSeries FilterKind = "series"
	FilterGame   FilterKind = "game"
)

// ParseFilterKind validates a filter name.
func ParseFilterKind(s string) (FilterKind, error) {
	switch f := FilterKind(s); f {
	case FilterAll, FilterMovie, FilterSeries, FilterGame:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// CatalogType is the upstream type parameter, empty for FilterAll.
func (f FilterKind) CatalogType() string {
	if f == FilterAll {
		return ""
	}
	return string(f)
}

// SortKey orders a result list.
type SortKey string

// Sort orders.
const (
	SortRelevance SortKey = "relevance"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortRating    SortKey = "rating"
	SortTitle     SortKey = "title"
)

// ParseSortKey validates a sort name. The legacy names "year" and "year_oldest" are accepted.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortRelevance, SortNewest, SortOldest, SortRating, SortTitle:
		return k, nil
	}
	switch s {
	case "year":
		return SortNewest, nil
	case "year_oldest":
		return SortOldest, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}
