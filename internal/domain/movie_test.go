package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindMovie, ParseKind("movie"))
	assert.Equal(t, KindSeries, ParseKind("series"))
	assert.Equal(t, KindGame, ParseKind("game"))
	assert.Equal(t, KindOther, ParseKind("episode"))
	assert.Equal(t, KindOther, ParseKind(""))
}

func TestSummary_ReleaseYear(t *testing.T) {
	tests := []struct {
		year string
		want int
	}{
		{"1999", 1999},
		{"2010–2015", 2010},
		{"2019–", 2019},
		{"N/A", 0},
		{"", 0},
		{"circa 1950", 0},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary{Year: tt.year}.ReleaseYear())
		})
	}
}

func TestParseFilterKind(t *testing.T) {
	for _, name := range []string{"all", "movie", "series", "game"} {
		f, err := ParseFilterKind(name)
		require.NoError(t, err)
		assert.Equal(t, FilterKind(name), f)
	}

	_, err := ParseFilterKind("episode")
	assert.Error(t, err)

	assert.Empty(t, FilterAll.CatalogType())
	assert.Equal(t, "series", FilterSeries.CatalogType())
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"relevance", SortRelevance},
		{"newest", SortNewest},
		{"oldest", SortOldest},
		{"rating", SortRating},
		{"title", SortTitle},
		{"year", SortNewest},
		{"year_oldest", SortOldest},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSortKey("popularity")
	assert.Error(t, err)
}
