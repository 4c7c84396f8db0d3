package discovery

import (
	"fmt"
	"slices"

	"github.com/cinescope/cinescope-server/internal/domain"
)

// Outcome tells an empty result list apart from a failed search.
type Outcome string

// Outcomes of the last committed operation.
const (
	OutcomeNone   Outcome = "none"   // nothing searched yet
	OutcomeOK     Outcome = "ok"     // catalog returned results
	OutcomeEmpty  Outcome = "empty"  // catalog had no match
	OutcomeFailed Outcome = "failed" // catalog could not be reached or answered badly
)

// SortPolicy decides what gets sorted when a page is appended.
type SortPolicy string

// Sort policies.
const (
	// SortPerPage sorts only the newly fetched page before appending it.
	SortPerPage SortPolicy = "per_page"
	// SortGlobal re-sorts the whole accumulated list after appending.
	SortGlobal SortPolicy = "global"
)

// ParseSortPolicy validates a policy name.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch p := SortPolicy(s); p {
	case SortPerPage, SortGlobal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown sort policy %q", s)
	}
}

// SearchState is a point-in-time copy of one search session.
type SearchState struct {
	Query           string            `json:"query"`
	Filter          domain.FilterKind `json:"filter"`
	Sort            domain.SortKey    `json:"sort"`
	Page            int               `json:"page"`
	Results         []domain.Summary  `json:"results"`
	TotalAvailable  int               `json:"total_available"`
	HasMore         bool              `json:"has_more"`
	Loading         bool              `json:"loading"`
	HasSearchedOnce bool              `json:"has_searched_once"`
	Outcome         Outcome           `json:"outcome"`

	// Error describes the last failure. It is cleared by the next successful operation.
	Error string `json:"error,omitempty"`

	// Seq is the sequence number of the last committed operation.
	Seq uint64 `json:"seq"`

	// Version increases on every transition, so observers can drop stale snapshots.
	Version uint64 `json:"version"`
}

func newState() SearchState {
	return SearchState{
		Filter:  domain.FilterAll,
		Sort:    domain.SortRelevance,
		Page:    1,
		Results: []domain.Summary{},
		Outcome: OutcomeNone,
	}
}

func (s SearchState) clone() SearchState {
	s.Results = slices.Clone(s.Results)
	if s.Results == nil {
		s.Results = []domain.Summary{}
	}
	s.HasMore = len(s.Results) < s.TotalAvailable
	return s
}
