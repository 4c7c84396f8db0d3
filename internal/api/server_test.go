package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cinescope/cinescope-server/internal/domain"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb/omdbmock"
	"github.com/cinescope/cinescope-server/internal/service"
	"github.com/cinescope/cinescope-server/internal/sse"
)

// testEnvelope decodes either envelope shape.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

// fakeCatalogStatus stands in for the catalog client in health checks.
type fakeCatalogStatus struct{ configured bool }

func (f fakeCatalogStatus) Configured() bool { return f.configured }
func (f fakeCatalogStatus) BaseURL() string  { return "http://catalog.test" }

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	catalog *omdbmock.MockCatalog
}

type testServerOption func(*Options)

func withRateLimit(perMinute, burst int) testServerOption {
	return func(o *Options) {
		o.RateLimit = perMinute
		o.RateBurst = burst
	}
}

// setupTestServer creates a server backed by a mock catalog. The trending carousel is not started.
func setupTestServer(t *testing.T, opts ...testServerOption) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := gomock.NewController(t)
	catalog := omdbmock.NewMockCatalog(ctrl)

	sseManager := sse.NewManager(logger)
	discoverySvc := service.NewDiscoveryService(catalog, sseManager, service.DiscoveryOptions{IdleTimeout: time.Hour}, logger)
	trendingSvc := service.NewTrendingService(catalog, sseManager, service.TrendingOptions{
		Titles:   []string{"Heat", "Alien", "Up"},
		Interval: time.Hour,
		Viewport: 2,
	}, logger)

	services := &Services{
		Discovery: discoverySvc,
		Trending:  trendingSvc,
		Title:     service.NewTitleService(catalog, logger),
		Catalog:   fakeCatalogStatus{configured: true},
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	server := NewServer(services, sseManager, o, logger)

	t.Cleanup(func() {
		server.Close()
		trendingSvc.Close()
		discoverySvc.Close()
		_ = sseManager.Shutdown(context.Background()) //nolint:errcheck // test cleanup
	})

	return &testServer{
		Server:  server,
		api:     humatest.Wrap(t, server.API()),
		catalog: catalog,
	}
}

// startTrending loads the carousel with one detail per title and waits for it.
func (ts *testServer) startTrending(t *testing.T) {
	t.Helper()
	ts.catalog.EXPECT().GetByTitle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, title string) (*domain.Detail, error) {
			return &domain.Detail{Summary: domain.Summary{ID: "id-" + title, Title: title, Kind: domain.KindMovie}}, nil
		}).Times(3)

	ts.services.Trending.Start(context.Background())
	require.Eventually(t, ts.services.Trending.Loaded, time.Second, 5*time.Millisecond)
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestNewServer_RegistersEveryRoute(t *testing.T) {
	var ts *testServer
	require.NotPanics(t, func() { ts = setupTestServer(t) })

	doc := ts.API().OpenAPI()
	for _, path := range []string{
		"/health",
		"/api/v1/sessions",
		"/api/v1/sessions/{id}",
		"/api/v1/sessions/{id}/query",
		"/api/v1/sessions/{id}/filter",
		"/api/v1/sessions/{id}/sort",
		"/api/v1/sessions/{id}/more",
		"/api/v1/titles/{id}",
		"/api/v1/trending",
		"/api/v1/trending/advance",
		"/api/v1/trending/slide",
		"/api/v1/trending/viewport",
	} {
		assert.Contains(t, doc.Paths, path)
	}

	// Both controllers' snapshots are exposed under their own schema names.
	schemas := doc.Components.Schemas.Map()
	assert.Contains(t, schemas, "SearchState")
	assert.Contains(t, schemas, "CarouselState")
}

func TestServer_RateLimit(t *testing.T) {
	ts := setupTestServer(t, withRateLimit(60, 2))

	for range 2 {
		resp := ts.api.Get("/api/v1/trending")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/trending")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	env := decode[any](t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", env.Code)

	// Health checks are never limited.
	resp = ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.api.Do(http.MethodOptions, "/api/v1/sessions",
		"Origin: http://localhost:3000",
		"Access-Control-Request-Method: POST",
	)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
