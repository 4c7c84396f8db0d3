package discovery

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cinescope/cinescope-server/internal/domain"
)

// ApplySort returns records ordered by key. The input is not modified and every ordering is stable.
//
// SortRating reads each record's Rating, so records must be enriched first; a nil rating counts as 0.
// Unparsable years count as 0, which puts them last for SortNewest and first for SortOldest.
func ApplySort(records []domain.Summary, key domain.SortKey) []domain.Summary {
	out := slices.Clone(records)

	switch key {
	case domain.SortTitle:
		// Collators keep internal buffers and are not safe for concurrent use.
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b domain.Summary) int {
			switch {
			case a.Title == "" && b.Title == "":
				return 0
			case a.Title == "":
				return -1
			case b.Title == "":
				return 1
			}
			return c.CompareString(a.Title, b.Title)
		})
	case domain.SortNewest:
		slices.SortStableFunc(out, func(a, b domain.Summary) int {
			return cmp.Compare(b.ReleaseYear(), a.ReleaseYear())
		})
	case domain.SortOldest:
		slices.SortStableFunc(out, func(a, b domain.Summary) int {
			return cmp.Compare(a.ReleaseYear(), b.ReleaseYear())
		})
	case domain.SortRating:
		slices.SortStableFunc(out, func(a, b domain.Summary) int {
			return cmp.Compare(ratingOf(b), ratingOf(a))
		})
	case domain.SortRelevance:
	}

	return out
}

func ratingOf(s domain.Summary) float64 {
	if s.Rating == nil {
		return 0
	}
	return *s.Rating
}
