package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cinescope/cinescope-server/internal/discovery"
	"github.com/cinescope/cinescope-server/internal/domain"
	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/id"
	"github.com/cinescope/cinescope-server/internal/sse"
)

// DefaultSessionIdleTimeout is used when DiscoveryOptions.IdleTimeout is unset.
const DefaultSessionIdleTimeout = 30 * time.Minute

// DiscoveryOptions configures the discovery session registry.
type DiscoveryOptions struct {
	Workers    int
	SortPolicy discovery.SortPolicy

	// IdleTimeout evicts sessions not touched for this long. Negative disables eviction.
	IdleTimeout time.Duration
}

// Session is a discovery session as returned to callers.
type Session struct {
	ID    string                `json:"id"`
	State discovery.SearchState `json:"state"`
}

type session struct {
	id         string
	agg        *discovery.Aggregator
	lastAccess atomic.Int64 // unix nanoseconds
}

func (s *session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

func (s *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastAccess.Load()))
}

// DiscoveryService owns the live search sessions, one Aggregator each, and publishes every
// state change on the event stream.
type DiscoveryService struct {
	catalog     discovery.Catalog
	sse         *sse.Manager
	logger      *slog.Logger
	workers     int
	policy      discovery.SortPolicy
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDiscoveryService creates the registry and starts its idle-session cleanup loop.
// sseManager may be nil, in which case state changes are not published.
func NewDiscoveryService(catalog discovery.Catalog, sseManager *sse.Manager, opts DiscoveryOptions, logger *slog.Logger) *DiscoveryService {
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = DefaultSessionIdleTimeout
	}
	s := &DiscoveryService{
		catalog:     catalog,
		sse:         sseManager,
		logger:      logger,
		workers:     opts.Workers,
		policy:      opts.SortPolicy,
		idleTimeout: opts.IdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session),
		stop:        make(chan struct{}),
	}

	if s.idleTimeout > 0 {
		interval := min(s.idleTimeout/2, time.Minute)
		s.wg.Go(func() { s.cleanupLoop(interval) })
	}
	return s
}

// Create starts a new, empty session.
func (s *DiscoveryService) Create(_ context.Context) (*Session, error) {
	sessionID, err := id.NewSessionID()
	if err != nil {
		return nil, domainerrors.Internal("failed to create session").WithCause(err)
	}

	sess := &session{id: sessionID}
	sess.agg = discovery.New(s.catalog, discovery.Options{
		Workers:    s.workers,
		SortPolicy: s.policy,
		Logger:     s.logger.With("session_id", sessionID),
		OnChange: func(st discovery.SearchState) {
			s.publish(sse.NewSearchUpdatedEvent(sessionID, st))
		},
	})
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[sessionID] = sess
	total := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("discovery session created", "session_id", sessionID, "total_sessions", total)
	return &Session{ID: sessionID, State: sess.agg.Snapshot()}, nil
}

// Get returns the session's current state.
func (s *DiscoveryService) Get(_ context.Context, sessionID string) (discovery.SearchState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return discovery.SearchState{}, err
	}
	return sess.agg.Snapshot(), nil
}

// Exists reports whether sessionID is live. It does not count as activity.
func (s *DiscoveryService) Exists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Delete disposes of a session, cancelling its in-flight search.
func (s *DiscoveryService) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return domainerrors.NotFoundf("session %s not found", sessionID)
	}
	sess.agg.Close()

	s.logger.Info("discovery session deleted", "session_id", sessionID)
	return nil
}

// Query submits a search. A blank query leaves the session unchanged.
func (s *DiscoveryService) Query(ctx context.Context, sessionID, query string) (discovery.SearchState, error) {
	return s.do(sessionID, func(agg *discovery.Aggregator) (discovery.SearchState, error) {
		return agg.SubmitQuery(ctx, query)
	})
}

// Filter changes the kind filter.
func (s *DiscoveryService) Filter(ctx context.Context, sessionID, filter string) (discovery.SearchState, error) {
	return s.do(sessionID, func(agg *discovery.Aggregator) (discovery.SearchState, error) {
		return agg.ChangeFilter(ctx, domain.FilterKind(filter))
	})
}

// Sort changes the sort key.
func (s *DiscoveryService) Sort(ctx context.Context, sessionID, sort string) (discovery.SearchState, error) {
	return s.do(sessionID, func(agg *discovery.Aggregator) (discovery.SearchState, error) {
		return agg.ChangeSort(ctx, domain.SortKey(sort))
	})
}

// LoadMore appends the next page.
func (s *DiscoveryService) LoadMore(ctx context.Context, sessionID string) (discovery.SearchState, error) {
	return s.do(sessionID, func(agg *discovery.Aggregator) (discovery.SearchState, error) {
		return agg.LoadMore(ctx)
	})
}

// Count returns the number of live sessions.
func (s *DiscoveryService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the idle timeout and returns how many went.
func (s *DiscoveryService) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	now := s.now()

	var expired []*session
	s.mu.Lock()
	for key, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTimeout {
			expired = append(expired, sess)
			delete(s.sessions, key)
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.agg.Close()
		s.publish(sse.NewSessionExpiredEvent(sess.id))
	}
	if len(expired) > 0 {
		s.logger.Info("idle discovery sessions evicted", "evicted", len(expired), "remaining", remaining)
	}
	return len(expired)
}

// Close stops the cleanup loop and disposes of every session.
func (s *DiscoveryService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.agg.Close()
	}
}

func (s *DiscoveryService) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *DiscoveryService) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domainerrors.NotFoundf("session %s not found", sessionID)
	}
	sess.touch(s.now())
	return sess, nil
}

// do runs op against a session and maps a session closed mid-call to not found.
func (s *DiscoveryService) do(sessionID string, op func(*discovery.Aggregator) (discovery.SearchState, error)) (discovery.SearchState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return discovery.SearchState{}, err
	}

	st, err := op(sess.agg)
	sess.touch(s.now())
	if errors.Is(err, discovery.ErrClosed) {
		return discovery.SearchState{}, domainerrors.NotFoundf("session %s expired", sessionID).WithCause(err)
	}
	return st, err
}

func (s *DiscoveryService) publish(event sse.Event) {
	if s.sse != nil {
		s.sse.Emit(event)
	}
}
