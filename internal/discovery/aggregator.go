// Package discovery implements the search session state machine: query, filter, sort, and paginated
// result aggregation over a remote catalog.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/cinescope/cinescope-server/internal/domain"
	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb"
)

// DefaultEnrichWorkers bounds concurrent rating lookups when Options.Workers is unset.
const DefaultEnrichWorkers = 10

// ErrClosed is returned by operations on a closed Aggregator.
var ErrClosed = errors.New("discovery: aggregator closed")

// Catalog is the part of the remote catalog the aggregator needs.
type Catalog interface {
	Search(ctx context.Context, params omdb.SearchParams) (*omdb.SearchPage, error)
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
}

// Options configures an Aggregator.
type Options struct {
	// Workers bounds concurrent rating lookups per page.
	Workers    int
	SortPolicy SortPolicy
	Logger     *slog.Logger

	// OnChange receives a snapshot after every transition. It runs on the goroutine that caused the
	// transition, outside the aggregator's lock, so snapshots from racing operations may arrive out of
	// order; use SearchState.Version to discard stale ones.
	OnChange func(SearchState)
}

type mode int

const (
	modeReplace mode = iota
	modeAppend
)

func (m mode) String() string {
	if m == modeAppend {
		return "append"
	}
	return "replace"
}

// operation captures everything a search needs, copied from state when it starts.
type operation struct {
	seq    uint64
	mode   mode
	query  string
	filter domain.FilterKind
	sort   domain.SortKey
	page   int
	ctx    context.Context
	cancel context.CancelFunc
}

// Aggregator owns one search session. All methods are safe for concurrent use.
//
// Each mutating operation blocks until its own search settles and returns the state as of that moment.
// A newer operation supersedes an older one: the older one's context is cancelled and its result is
// discarded when it arrives.
type Aggregator struct {
	catalog  Catalog
	workers  int
	policy   SortPolicy
	logger   *slog.Logger
	onChange func(SearchState)

	mu      sync.Mutex
	state   SearchState
	issued  uint64
	version uint64
	cancel  context.CancelFunc
	closed  bool
}

// New creates an Aggregator in its empty initial state.
func New(catalog Catalog, opts Options) *Aggregator {
	if opts.Workers < 1 {
		opts.Workers = DefaultEnrichWorkers
	}
	if opts.SortPolicy == "" {
		opts.SortPolicy = SortPerPage
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{
		catalog:  catalog,
		workers:  opts.Workers,
		policy:   opts.SortPolicy,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		state:    newState(),
	}
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() SearchState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// SubmitQuery starts a fresh search for query. A blank query changes nothing and sends no request.
func (a *Aggregator) SubmitQuery(ctx context.Context, query string) (SearchState, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return a.Snapshot(), nil
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return SearchState{}, ErrClosed
	}
	a.state.Query = query
	a.state.Page = 1
	a.state.Results = nil
	a.state.TotalAvailable = 0
	a.state.HasSearchedOnce = true
	op := a.beginLocked(ctx, modeReplace, 1)
	snap := a.commitLocked()
	a.mu.Unlock()

	a.notify(snap)
	return a.run(op)
}

// ChangeFilter sets the kind filter and, once a search has happened, re-runs the query from page 1.
func (a *Aggregator) ChangeFilter(ctx context.Context, kind domain.FilterKind) (SearchState, error) {
	if _, err := domain.ParseFilterKind(string(kind)); err != nil {
		return a.Snapshot(), domainerrors.Validationf("invalid filter %q", kind).
			WithDetails(map[string]string{"filter": "must be one of: all movie series game"})
	}
	return a.change(ctx, func(s *SearchState) bool {
		if s.Filter == kind {
			return false
		}
		s.Filter = kind
		return true
	})
}

// ChangeSort sets the sort key and, once a search has happened, re-runs the query from page 1.
// Sort changes re-fetch rather than re-order in place.
func (a *Aggregator) ChangeSort(ctx context.Context, key domain.SortKey) (SearchState, error) {
	parsed, err := domain.ParseSortKey(string(key))
	if err != nil {
		return a.Snapshot(), domainerrors.Validationf("invalid sort %q", key).
			WithDetails(map[string]string{"sort": "must be one of: relevance newest oldest rating title"})
	}
	return a.change(ctx, func(s *SearchState) bool {
		if s.Sort == parsed {
			return false
		}
		s.Sort = parsed
		return true
	})
}

func (a *Aggregator) change(ctx context.Context, apply func(*SearchState) bool) (SearchState, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return SearchState{}, ErrClosed
	}
	if !apply(&a.state) {
		snap := a.state.clone()
		a.mu.Unlock()
		return snap, nil
	}
	if !a.state.HasSearchedOnce {
		snap := a.commitLocked()
		a.mu.Unlock()
		a.notify(snap)
		return snap, nil
	}
	a.state.Page = 1
	op := a.beginLocked(ctx, modeReplace, 1)
	snap := a.commitLocked()
	a.mu.Unlock()

	a.notify(snap)
	return a.run(op)
}

// LoadMore fetches the next page and appends it. It does nothing while an operation is in flight or
// when every available result is already loaded.
func (a *Aggregator) LoadMore(ctx context.Context) (SearchState, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return SearchState{}, ErrClosed
	}
	if a.state.Loading || !a.state.HasSearchedOnce || len(a.state.Results) >= a.state.TotalAvailable {
		snap := a.state.clone()
		a.mu.Unlock()
		return snap, nil
	}
	op := a.beginLocked(ctx, modeAppend, a.state.Page+1)
	snap := a.commitLocked()
	a.mu.Unlock()

	a.notify(snap)
	return a.run(op)
}

// Close cancels any in-flight operation. Later operations return ErrClosed.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.issued++
	a.state.Loading = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// beginLocked issues a new operation, cancelling the one in flight. Caller holds a.mu.
func (a *Aggregator) beginLocked(ctx context.Context, m mode, page int) *operation {
	if a.cancel != nil {
		a.cancel()
	}
	a.issued++

	// The operation outlives a disconnecting caller so the session still settles.
	opCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.state.Loading = true

	return &operation{
		seq:    a.issued,
		mode:   m,
		query:  a.state.Query,
		filter: a.state.Filter,
		sort:   a.state.Sort,
		page:   page,
		ctx:    opCtx,
		cancel: cancel,
	}
}

// commitLocked bumps the version and returns a snapshot. Caller holds a.mu.
func (a *Aggregator) commitLocked() SearchState {
	a.version++
	a.state.Version = a.version
	return a.state.clone()
}

func (a *Aggregator) notify(s SearchState) {
	if a.onChange != nil {
		a.onChange(s)
	}
}

// run performs op's I/O without holding the lock, then commits if op is still the latest.
func (a *Aggregator) run(op *operation) (SearchState, error) {
	defer op.cancel()

	page, err := a.catalog.Search(op.ctx, omdb.SearchParams{
		Query: op.query,
		Page:  op.page,
		Type:  op.filter.CatalogType(),
	})

	var items []domain.Summary
	if err == nil {
		items = page.Items
		if op.sort == domain.SortRating {
			items = a.enrich(op.ctx, items)
		}
	}

	a.mu.Lock()
	if op.seq != a.issued {
		snap := a.state.clone()
		a.mu.Unlock()
		a.logger.Debug("search superseded", "query", op.query, "page", op.page, "seq", op.seq)
		return snap, nil
	}

	a.cancel = nil
	a.state.Loading = false
	a.state.Seq = op.seq

	switch {
	case err == nil:
		a.applyPageLocked(op, items, page.TotalCount)
	case op.mode == modeAppend:
		a.state.Error = err.Error()
		a.logger.Warn("load more failed", "query", op.query, "page", op.page, "error", err)
	case omdb.IsEmptyResult(err):
		a.state.Results = nil
		a.state.TotalAvailable = 0
		a.state.Outcome = OutcomeEmpty
		a.state.Error = ""
	case omdb.IsTransport(err):
		a.state.Results = nil
		a.state.TotalAvailable = 0
		a.state.Outcome = OutcomeFailed
		a.state.Error = err.Error()
		a.logger.Warn("search failed", "query", op.query, "filter", op.filter, "error", err)
	}

	snap := a.commitLocked()
	a.mu.Unlock()

	a.notify(snap)
	return snap, nil
}

func (a *Aggregator) applyPageLocked(op *operation, items []domain.Summary, total int) {
	switch {
	case op.mode == modeReplace:
		a.state.Results = ApplySort(items, op.sort)
	case a.policy == SortGlobal:
		a.state.Results = ApplySort(append(a.state.Results, items...), op.sort)
	default:
		a.state.Results = append(a.state.Results, ApplySort(items, op.sort)...)
	}

	// Upstream counts are occasionally smaller than what was actually delivered.
	a.state.TotalAvailable = max(total, len(a.state.Results))
	a.state.Page = op.page
	a.state.Outcome = OutcomeOK
	a.state.Error = ""

	a.logger.Debug("search committed",
		"query", op.query,
		"mode", op.mode.String(),
		"page", op.page,
		"results", len(a.state.Results),
		"total", a.state.TotalAvailable,
	)
}

// enrich looks up each record's rating in parallel and waits for every lookup to settle.
// A failed lookup leaves the rating nil, which sorts as 0.
func (a *Aggregator) enrich(ctx context.Context, records []domain.Summary) []domain.Summary {
	out := make([]domain.Summary, len(records))
	copy(out, records)

	var failed atomic.Int32
	p := pool.New().WithMaxGoroutines(a.workers)
	for i := range out {
		if out[i].ID == "" {
			continue
		}
		p.Go(func() {
			d, err := a.catalog.GetByID(ctx, out[i].ID)
			if err != nil {
				failed.Add(1)
				a.logger.Debug("rating lookup failed", "id", out[i].ID, "error", err)
				return
			}
			out[i].Rating = d.Rating
		})
	}
	p.Wait()

	if n := failed.Load(); n > 0 {
		a.logger.Info("rating enrichment degraded", "failed", n, "total", len(out))
	}
	return out
}
