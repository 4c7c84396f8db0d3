package api

import (
	"github.com/cinescope/cinescope-server/internal/service"
)

// CatalogStatus reports on the remote catalog client for health checks.
type CatalogStatus interface {
	Configured() bool
	BaseURL() string
}

// Services groups all business logic services used by the API server.
type Services struct {
	Discovery *service.DiscoveryService // Search sessions
	Trending  *service.TrendingService  // Trending carousel
	Title     *service.TitleService     // Detail lookups
	Catalog   CatalogStatus
}
