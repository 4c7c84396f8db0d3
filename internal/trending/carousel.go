// Package trending drives the trending carousel: a fixed list of titles fetched once at startup,
// shown a viewport's worth at a time, with an owned auto-advance timer.
package trending

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/cinescope/cinescope-server/internal/domain"
)

const (
	// DefaultInterval is the auto-advance period.
	DefaultInterval = 5 * time.Second
	// DefaultViewport is the card count before any width is known.
	DefaultViewport = 4
)

// Carousel errors.
var (
	ErrAlreadyInitialized = errors.New("trending: already initialized")
	ErrSlideOutOfRange    = errors.New("trending: slide index out of range")
	ErrInvalidViewport    = errors.New("trending: viewport must be at least 1")
	ErrClosed             = errors.New("trending: carousel closed")
)

// Direction is a one-step move through the slides.
type Direction int

// Directions.
const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection accepts "next" and "prev".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "prev":
		return Prev, true
	default:
		return 0, false
	}
}

// TitleFetcher looks a title up by its exact name.
type TitleFetcher interface {
	GetByTitle(ctx context.Context, title string) (*domain.Detail, error)
}

// CarouselState is a point-in-time copy of the carousel.
type CarouselState struct {
	Items         []domain.Detail `json:"items"`
	ViewportCount int             `json:"viewport_count"`
	SlideIndex    int             `json:"slide_index"`
	TotalSlides   int             `json:"total_slides"`
	Slide         []domain.Detail `json:"slide"`
	Initialized   bool            `json:"initialized"`
	Loading       bool            `json:"loading"`
	AutoAdvancing bool            `json:"auto_advancing"`
	Version       uint64          `json:"version"`
}

// Options configures a Carousel.
type Options struct {
	Interval time.Duration
	Viewport int
	Logger   *slog.Logger
	OnChange func(CarouselState)
}

// Carousel is safe for concurrent use.
type Carousel struct {
	fetcher  TitleFetcher
	interval time.Duration
	logger   *slog.Logger
	onChange func(CarouselState)

	mu          sync.Mutex
	items       []domain.Detail
	viewport    int
	index       int
	initialized bool
	loading     bool
	closed      bool
	version     uint64

	timerGen  uint64
	timerStop chan struct{}
	timers    sync.WaitGroup
}

// New creates an empty carousel. Call Initialize to load it.
func New(fetcher TitleFetcher, opts Options) *Carousel {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Viewport < 1 {
		opts.Viewport = DefaultViewport
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Carousel{
		fetcher:  fetcher,
		interval: opts.Interval,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		viewport: opts.Viewport,
	}
}

// Initialize fetches every title in parallel, keeps the ones that resolved in their original order,
// and starts auto-advance. It runs at most once; later calls return ErrAlreadyInitialized.
func (c *Carousel) Initialize(ctx context.Context, titles []string) (CarouselState, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return CarouselState{}, ErrClosed
	}
	if c.initialized || c.loading {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrAlreadyInitialized
	}
	c.loading = true
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notify(snap)

	items := c.fetchAll(ctx, titles)

	c.mu.Lock()
	c.loading = false
	c.initialized = true
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrClosed
	}
	c.items = items
	c.index = 0
	c.restartTimerLocked()
	snap = c.commitLocked()
	c.mu.Unlock()

	c.logger.Info("trending loaded", "requested", len(titles), "loaded", len(items), "slides", snap.TotalSlides)
	c.notify(snap)
	return snap, nil
}

func (c *Carousel) fetchAll(ctx context.Context, titles []string) []domain.Detail {
	results := make([]*domain.Detail, len(titles))
	var dropped atomic.Int32

	// One lookup per title, all in flight together.
	p := pool.New()
	for i, title := range titles {
		p.Go(func() {
			d, err := c.fetcher.GetByTitle(ctx, title)
			if err != nil {
				dropped.Add(1)
				c.logger.Debug("trending title dropped", "title", title, "error", err)
				return
			}
			results[i] = d
		})
	}
	p.Wait()

	if n := dropped.Load(); n > 0 {
		c.logger.Info("trending titles unavailable", "dropped", n, "requested", len(titles))
	}

	items := make([]domain.Detail, 0, len(titles))
	for _, d := range results {
		if d != nil {
			items = append(items, *d)
		}
	}
	return items
}

// Snapshot returns a copy of the current state.
func (c *Carousel) Snapshot() CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Advance moves one slide in dir, wrapping at both ends. It does nothing when there are no slides.
func (c *Carousel) Advance(dir Direction) CarouselState {
	c.mu.Lock()
	if !c.advanceLocked(dir) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap
}

// GoTo jumps to slide index.
func (c *Carousel) GoTo(index int) (CarouselState, error) {
	c.mu.Lock()
	if index < 0 || index >= totalSlides(len(c.items), c.viewport) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrSlideOutOfRange
	}
	c.index = index
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap, nil
}

// SetViewport changes how many items a slide shows. The slide index is left alone, so it may point
// past the last slide until the next move. The timer restarts when the slide count changes.
func (c *Carousel) SetViewport(count int) (CarouselState, error) {
	if count < 1 {
		return c.Snapshot(), ErrInvalidViewport
	}

	c.mu.Lock()
	if count == c.viewport {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	before := totalSlides(len(c.items), c.viewport)
	c.viewport = count
	if totalSlides(len(c.items), count) != before {
		c.restartTimerLocked()
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap, nil
}

// Close stops auto-advance and waits for the timer goroutine to exit.
func (c *Carousel) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()

	c.timers.Wait()
}

func (c *Carousel) advanceLocked(dir Direction) bool {
	total := totalSlides(len(c.items), c.viewport)
	if total == 0 {
		return false
	}
	c.index = wrap(c.index+int(dir), total)
	return true
}

// restartTimerLocked replaces the auto-advance goroutine. Caller holds c.mu.
func (c *Carousel) restartTimerLocked() {
	c.stopTimerLocked()
	if c.closed || totalSlides(len(c.items), c.viewport) == 0 {
		return
	}

	c.timerGen++
	gen := c.timerGen
	stop := make(chan struct{})
	c.timerStop = stop

	c.timers.Go(func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick(gen)
			}
		}
	})
}

func (c *Carousel) stopTimerLocked() {
	if c.timerStop != nil {
		close(c.timerStop)
		c.timerStop = nil
	}
}

func (c *Carousel) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen || c.timerStop == nil || !c.advanceLocked(Next) {
		c.mu.Unlock()
		return
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *Carousel) commitLocked() CarouselState {
	c.version++
	return c.snapshotLocked()
}

func (c *Carousel) snapshotLocked() CarouselState {
	total := totalSlides(len(c.items), c.viewport)

	var slide []domain.Detail
	if start := c.index * c.viewport; start >= 0 && start < len(c.items) {
		slide = slices.Clone(c.items[start:min(start+c.viewport, len(c.items))])
	}
	if slide == nil {
		slide = []domain.Detail{}
	}

	items := slices.Clone(c.items)
	if items == nil {
		items = []domain.Detail{}
	}

	return CarouselState{
		Items:         items,
		ViewportCount: c.viewport,
		SlideIndex:    c.index,
		TotalSlides:   total,
		Slide:         slide,
		Initialized:   c.initialized,
		Loading:       c.loading,
		AutoAdvancing: c.timerStop != nil,
		Version:       c.version,
	}
}

func (c *Carousel) notify(s CarouselState) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
