package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/sse"
	"github.com/cinescope/cinescope-server/internal/trending"
)

// TrendingOptions configures the trending carousel.
type TrendingOptions struct {
	Titles   []string
	Interval time.Duration
	Viewport int
}

// TrendingService owns the process-wide trending carousel and publishes its changes.
type TrendingService struct {
	carousel *trending.Carousel
	titles   []string
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTrendingService creates the carousel. Call Start to load it.
// sseManager may be nil, in which case changes are not published.
func NewTrendingService(fetcher trending.TitleFetcher, sseManager *sse.Manager, opts TrendingOptions, logger *slog.Logger) *TrendingService {
	s := &TrendingService{
		titles: opts.Titles,
		logger: logger,
	}
	s.carousel = trending.New(fetcher, trending.Options{
		Interval: opts.Interval,
		Viewport: opts.Viewport,
		Logger:   logger.With("component", "trending"),
		OnChange: func(st trending.CarouselState) {
			if sseManager != nil {
				sseManager.Emit(sse.NewTrendingUpdatedEvent(st))
			}
		},
	})
	return s
}

// Start loads the carousel in the background. The HTTP server does not wait for it.
func (s *TrendingService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Go(func() {
		if _, err := s.carousel.Initialize(loadCtx, s.titles); err != nil && !errors.Is(err, trending.ErrClosed) {
			s.logger.Error("trending initialization failed", "error", err)
		}
	})
}

// Snapshot returns the current carousel state.
func (s *TrendingService) Snapshot() trending.CarouselState {
	return s.carousel.Snapshot()
}

// Loaded reports whether the initial fetch has finished.
func (s *TrendingService) Loaded() bool {
	return s.carousel.Snapshot().Initialized
}

// Advance moves one slide forward ("next") or back ("prev").
func (s *TrendingService) Advance(direction string) (trending.CarouselState, error) {
	dir, ok := trending.ParseDirection(direction)
	if !ok {
		return s.carousel.Snapshot(), domainerrors.Validationf("invalid direction %q", direction).
			WithDetails(map[string]string{"direction": "must be one of: next prev"})
	}
	return s.carousel.Advance(dir), nil
}

// GoTo jumps to a slide.
func (s *TrendingService) GoTo(index int) (trending.CarouselState, error) {
	st, err := s.carousel.GoTo(index)
	if errors.Is(err, trending.ErrSlideOutOfRange) {
		return st, domainerrors.Validationf("slide %d out of range", index).
			WithDetails(map[string]string{"index": "must be below total_slides"}).WithCause(err)
	}
	return st, err
}

// SetViewport sets the cards per slide, either directly or derived from a display width.
// A positive count wins over width.
func (s *TrendingService) SetViewport(count, width int) (trending.CarouselState, error) {
	switch {
	case count > 0:
	case width > 0:
		count = trending.ViewportForWidth(width)
	default:
		return s.carousel.Snapshot(), domainerrors.Validation("count or width is required").
			WithDetails(map[string]string{"count": "must be at least 1", "width": "must be at least 1"})
	}

	st, err := s.carousel.SetViewport(count)
	if errors.Is(err, trending.ErrInvalidViewport) {
		return st, domainerrors.Validation("viewport must be at least 1").WithCause(err)
	}
	return st, err
}

// Close stops loading and auto-advance.
func (s *TrendingService) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.carousel.Close()
	s.wg.Wait()
}
