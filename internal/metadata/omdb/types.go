package omdb

import (
	"strconv"
	"strings"

	"github.com/cinescope/cinescope-server/internal/domain"
)

// notAvailable is the catalog's marker for an absent value.
const notAvailable = "N/A"

// SearchParams are the inputs to Search.
type SearchParams struct {
	Query string
	Page  int // 1-based; values below 1 are sent as 1

	// Type restricts results to one kind. Empty or "all" sends no type parameter.
	Type string
}

// SearchPage is one page of search results.
type SearchPage struct {
	Items      []domain.Summary
	TotalCount int
}

// envelope carries the success flag every response has.
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// succeeded reports whether a Response flag says "True".
func succeeded(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "True")
}

type rawSearch struct {
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
	Search       []rawSummary `json:"Search"`
	TotalResults string       `json:"totalResults"`
}

type rawSummary struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type rawDetail struct {
	Response   string      `json:"Response"`
	Error      string      `json:"Error"`
	Title      string      `json:"Title"`
	Year       string      `json:"Year"`
	IMDbID     string      `json:"imdbID"`
	Type       string      `json:"Type"`
	Poster     string      `json:"Poster"`
	Rated      string      `json:"Rated"`
	Runtime    string      `json:"Runtime"`
	Genre      string      `json:"Genre"`
	Director   string      `json:"Director"`
	Writer     string      `json:"Writer"`
	Actors     string      `json:"Actors"`
	Plot       string      `json:"Plot"`
	Language   string      `json:"Language"`
	Country    string      `json:"Country"`
	Awards     string      `json:"Awards"`
	IMDbRating string      `json:"imdbRating"`
	Ratings    []rawRating `json:"Ratings"`
}

type rawRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// text converts the absent-value marker to an empty string.
func text(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}

func (r rawSummary) toDomain() domain.Summary {
	return domain.Summary{
		ID:        text(r.IMDbID),
		Title:     text(r.Title),
		Year:      text(r.Year),
		Kind:      domain.ParseKind(text(r.Type)),
		PosterURL: text(r.Poster),
	}
}

func (r rawDetail) toDomain() *domain.Detail {
	d := &domain.Detail{
		Summary: rawSummary{
			Title:  r.Title,
			Year:   r.Year,
			IMDbID: r.IMDbID,
			Type:   r.Type,
			Poster: r.Poster,
		}.toDomain(),
		Rated:    text(r.Rated),
		Runtime:  text(r.Runtime),
		Genre:    text(r.Genre),
		Plot:     text(r.Plot),
		Director: text(r.Director),
		Writer:   text(r.Writer),
		Cast:     splitNames(r.Actors),
		Language: text(r.Language),
		Country:  text(r.Country),
		Awards:   text(r.Awards),
	}
	d.Rating = parseRating(r.IMDbRating)

	for _, rr := range r.Ratings {
		if v := text(rr.Value); v != "" {
			d.Ratings = append(d.Ratings, domain.SourceRating{Source: rr.Source, Value: v})
		}
	}
	return d
}

// parseRating returns nil for absent or malformed ratings.
func parseRating(s string) *float64 {
	s = text(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseTotal parses the string-encoded result count. Malformed counts are 0.
func parseTotal(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func splitNames(s string) []string {
	s = text(s)
	if s == "" {
		return nil
	}
	var names []string
	for name := range strings.SplitSeq(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// isQuotaMessage matches the catalog's daily limit error text.
func isQuotaMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "limit")
}
