// Package domain contains the catalog entities shared by the discovery and trending controllers.
package domain

// Kind is the catalog's classification of a title.
type Kind string

// Title kinds. Anything the catalog reports outside the first three maps to KindOther.
const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
	KindGame   Kind = "game"
	KindOther  Kind = "other"
)

// ParseKind maps an upstream type string onto a Kind.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindMovie, KindSeries, KindGame:
		return Kind(s)
	default:
		return KindOther
	}
}

// Summary is one entry of a search result page.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      string `json:"year"` // "1999", "2010–2015", or anything else upstream sends
	Kind      Kind   `json:"kind"`
	PosterURL string `json:"poster_url,omitempty"`

	// Rating is the catalog score filled in by rating enrichment. Nil when not enriched or unavailable.
	Rating *float64 `json:"rating,omitempty"`
}

// ReleaseYear returns the leading integer of Year, or 0 when Year does not start with a digit.
func (s Summary) ReleaseYear() int {
	year := 0
	for _, r := range s.Year {
		if r < '0' || r > '9' {
			break
		}
		year = year*10 + int(r-'0')
		if year > 1_000_000 {
			break
		}
	}
	return year
}

// SourceRating is one third-party score attached to a title.
type SourceRating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// Detail is the full record for a single title. Empty strings mean the catalog had no value.
type Detail struct {
	Summary
	Rated    string         `json:"rated,omitempty"`
	Runtime  string         `json:"runtime,omitempty"`
	Genre    string         `json:"genre,omitempty"`
	Plot     string         `json:"plot,omitempty"`
	Director string         `json:"director,omitempty"`
	Writer   string         `json:"writer,omitempty"`
	Cast     []string       `json:"cast,omitempty"`
	Language string         `json:"language,omitempty"`
	Country  string         `json:"country,omitempty"`
	Awards   string         `json:"awards,omitempty"`
	Ratings  []SourceRating `json:"ratings,omitempty"`
}
