package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinescope/cinescope-server/internal/discovery"
	"github.com/cinescope/cinescope-server/internal/service"
	"github.com/cinescope/cinescope-server/internal/validation"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create search session",
		Description:   "Creates an empty discovery session. Follow it live with GET /api/v1/stream?session={id}.",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session state",
		Description: "Returns the session's current search state",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Delete session",
		Description:   "Disposes of a session and cancels its in-flight search",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "submitQuery",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/query",
		Summary:     "Submit query",
		Description: "Starts a fresh search from page 1. A blank query changes nothing.",
		Tags:        []string{"Sessions"},
	}, s.handleSubmitQuery)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeFilter",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/filter",
		Summary:     "Change kind filter",
		Description: "Sets the kind filter and re-runs the current query from page 1",
		Tags:        []string{"Sessions"},
	}, s.handleChangeFilter)

	huma.Register(s.api, huma.Operation{
		OperationID: "changeSort",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/sort",
		Summary:     "Change sort",
		Description: "Sets the sort key and re-runs the current query from page 1",
		Tags:        []string{"Sessions"},
	}, s.handleChangeSort)

	huma.Register(s.api, huma.Operation{
		OperationID: "loadMore",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/more",
		Summary:     "Load more results",
		Description: "Appends the next page. Does nothing while a search is running or when every result is loaded.",
		Tags:        []string{"Sessions"},
	}, s.handleLoadMore)
}

// === DTOs ===

// SessionOutput contains a new session.
type SessionOutput struct {
	Body service.Session
}

// SessionPathInput identifies a session.
type SessionPathInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// SessionStateOutput contains a session's search state.
type SessionStateOutput struct {
	Body discovery.SearchState
}

// SubmitQueryRequest is the request body for submitting a query.
type SubmitQueryRequest struct {
	Query string `json:"query" validate:"max=200" doc:"Search text; blank is a no-op"`
}

// SubmitQueryInput wraps the submit query request.
type SubmitQueryInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body SubmitQueryRequest
}

// ChangeFilterRequest is the request body for changing the kind filter.
type ChangeFilterRequest struct {
	Filter string `json:"filter" validate:"required,oneof=all movie series game" doc:"Kind filter" example:"movie"`
}

// ChangeFilterInput wraps the change filter request.
type ChangeFilterInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body ChangeFilterRequest
}

// ChangeSortRequest is the request body for changing the sort key.
type ChangeSortRequest struct {
	Sort string `json:"sort" validate:"required,oneof=relevance newest oldest rating title year year_oldest" doc:"Sort key" example:"rating"`
}

// ChangeSortInput wraps the change sort request.
type ChangeSortInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body ChangeSortRequest
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	sess, err := s.services.Discovery.Create(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionOutput{Body: *sess}, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionPathInput) (*SessionStateOutput, error) {
	st, err := s.services.Discovery.Get(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionStateOutput{Body: st}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := s.services.Discovery.Delete(ctx, input.ID); err != nil {
		return nil, apiError(err)
	}
	return nil, nil
}

func (s *Server) handleSubmitQuery(ctx context.Context, input *SubmitQueryInput) (*SessionStateOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Discovery.Query(ctx, input.ID, input.Body.Query)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionStateOutput{Body: st}, nil
}

func (s *Server) handleChangeFilter(ctx context.Context, input *ChangeFilterInput) (*SessionStateOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Discovery.Filter(ctx, input.ID, input.Body.Filter)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionStateOutput{Body: st}, nil
}

func (s *Server) handleChangeSort(ctx context.Context, input *ChangeSortInput) (*SessionStateOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Discovery.Sort(ctx, input.ID, input.Body.Sort)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionStateOutput{Body: st}, nil
}

func (s *Server) handleLoadMore(ctx context.Context, input *SessionPathInput) (*SessionStateOutput, error) {
	st, err := s.services.Discovery.LoadMore(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &SessionStateOutput{Body: st}, nil
}
