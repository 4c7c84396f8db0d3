package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"catalog":  s.checkCatalog(),
		"trending": s.checkTrending(),
		"sessions": s.checkSessions(),
		"sse":      s.checkSSEManager(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCatalog reports whether catalog requests can be made at all. It does not call out.
func (s *Server) checkCatalog() ComponentHealth {
	if s.services == nil || s.services.Catalog == nil {
		return ComponentHealth{Status: statusDegraded, Message: "catalog not configured"}
	}
	if !s.services.Catalog.Configured() {
		return ComponentHealth{Status: statusUnhealthy, Message: "catalog API key missing"}
	}
	return ComponentHealth{Status: statusHealthy, Message: s.services.Catalog.BaseURL()}
}

func (s *Server) checkTrending() ComponentHealth {
	if s.services == nil || s.services.Trending == nil {
		return ComponentHealth{Status: statusDegraded, Message: "trending not configured"}
	}

	st := s.services.Trending.Snapshot()
	switch {
	case !st.Initialized:
		return ComponentHealth{Status: statusDegraded, Message: "loading"}
	case len(st.Items) == 0:
		return ComponentHealth{Status: statusDegraded, Message: "no titles available"}
	default:
		return ComponentHealth{Status: statusHealthy, Message: pluralize(len(st.Items), "title")}
	}
}

func (s *Server) checkSessions() ComponentHealth {
	if s.services == nil || s.services.Discovery == nil {
		return ComponentHealth{Status: statusDegraded, Message: "discovery not configured"}
	}
	return ComponentHealth{Status: statusHealthy, Message: pluralize(s.services.Discovery.Count(), "active session")}
}

// checkSSEManager verifies the SSE event system is running.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{Status: statusDegraded, Message: "SSE manager not configured"}
	}
	return ComponentHealth{Status: statusHealthy, Message: pluralize(s.sseManager.ClientCount(), "connected client")}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
