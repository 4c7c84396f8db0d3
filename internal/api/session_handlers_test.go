package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cinescope/cinescope-server/internal/discovery"
	"github.com/cinescope/cinescope-server/internal/domain"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb"
	"github.com/cinescope/cinescope-server/internal/service"
)

func searchPage(total int, titles ...string) *omdb.SearchPage {
	items := make([]domain.Summary, len(titles))
	for i, title := range titles {
		items[i] = domain.Summary{ID: "tt" + title, Title: title, Year: "1999", Kind: domain.KindMovie}
	}
	return &omdb.SearchPage{Items: items, TotalCount: total}
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decode[service.Session](t, resp.Body.Bytes())
	require.True(t, env.Success)
	require.NotEmpty(t, env.Data.ID)
	return env.Data.ID
}

func TestCreateSession(t *testing.T) {
	ts := setupTestServer(t)

	sessionID := ts.createSession(t)

	resp := ts.api.Get("/api/v1/sessions/" + sessionID)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.False(t, env.Data.HasSearchedOnce)
	assert.Equal(t, domain.FilterAll, env.Data.Filter)
	assert.Equal(t, discovery.OutcomeNone, env.Data.Outcome)
}

func TestGetSession_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/sessions/ses-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decode[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestSubmitQuery(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	ts.catalog.EXPECT().
		Search(gomock.Any(), omdb.SearchParams{Query: "matrix", Page: 1}).
		Return(searchPage(12, "Matrix", "Matrix Reloaded"), nil)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/query", map[string]any{"query": "  matrix "})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "matrix", env.Data.Query)
	assert.Len(t, env.Data.Results, 2)
	assert.Equal(t, 12, env.Data.TotalAvailable)
	assert.True(t, env.Data.HasMore)
	assert.Equal(t, discovery.OutcomeOK, env.Data.Outcome)
}

func TestSubmitQuery_BlankIsNoop(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/query", map[string]any{"query": "   "})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.False(t, env.Data.HasSearchedOnce)
	assert.Empty(t, env.Data.Results)
}

func TestSubmitQuery_UpstreamFailureIsState(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	ts.catalog.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, omdb.ErrServer)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/query", map[string]any{"query": "heat"})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.Equal(t, discovery.OutcomeFailed, env.Data.Outcome)
	assert.NotEmpty(t, env.Data.Error)
	assert.Empty(t, env.Data.Results)
}

func TestChangeFilter(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	gomock.InOrder(
		ts.catalog.EXPECT().Search(gomock.Any(), omdb.SearchParams{Query: "alien", Page: 1}).
			Return(searchPage(2, "Alien", "Aliens"), nil),
		ts.catalog.EXPECT().Search(gomock.Any(), omdb.SearchParams{Query: "alien", Page: 1, Type: "series"}).
			Return(searchPage(1, "Alien Nation"), nil),
	)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/query", map[string]any{"query": "alien"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Put("/api/v1/sessions/"+sessionID+"/filter", map[string]any{"filter": "series"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.Equal(t, domain.FilterSeries, env.Data.Filter)
	assert.Len(t, env.Data.Results, 1)
}

func TestChangeFilter_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	resp := ts.api.Put("/api/v1/sessions/"+sessionID+"/filter", map[string]any{"filter": "podcast"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env := decode[map[string]any](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", env.Code)
	details, ok := env.Details.(map[string]any)
	require.True(t, ok, "details: %v", env.Details)
	assert.Contains(t, details, "filter")
}

func TestChangeSort_BeforeSearchKeepsEmptyState(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	resp := ts.api.Put("/api/v1/sessions/"+sessionID+"/sort", map[string]any{"sort": "title"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.Equal(t, domain.SortTitle, env.Data.Sort)
	assert.False(t, env.Data.HasSearchedOnce)
}

func TestLoadMore(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	gomock.InOrder(
		ts.catalog.EXPECT().Search(gomock.Any(), omdb.SearchParams{Query: "up", Page: 1}).
			Return(searchPage(3, "Up", "Upgrade"), nil),
		ts.catalog.EXPECT().Search(gomock.Any(), omdb.SearchParams{Query: "up", Page: 2}).
			Return(searchPage(3, "Upside"), nil),
	)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/query", map[string]any{"query": "up"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/sessions/"+sessionID+"/more", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[discovery.SearchState](t, resp.Body.Bytes())
	assert.Len(t, env.Data.Results, 3)
	assert.Equal(t, 2, env.Data.Page)
	assert.False(t, env.Data.HasMore)
}

func TestDeleteSession(t *testing.T) {
	ts := setupTestServer(t)
	sessionID := ts.createSession(t)

	resp := ts.api.Delete("/api/v1/sessions/" + sessionID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/sessions/" + sessionID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/sessions/" + sessionID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
