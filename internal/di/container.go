// Package di provides dependency injection configuration for the Cinescope server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/config"
	"github.com/cinescope/cinescope-server/internal/di/providers"
	"github.com/cinescope/cinescope-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSSEManager)

	// Catalog
	do.Provide(injector, providers.ProvideCatalogClient)

	// Business services
	do.Provide(injector, providers.ProvideDiscoveryService)
	do.Provide(injector, providers.ProvideTrendingService)
	do.Provide(injector, providers.ProvideTitleService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.LoggerHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	if _, err := do.Invoke[*providers.CatalogClientHandle](injector); err != nil {
		return err
	}

	// Business services
	_ = do.MustInvoke[*providers.DiscoveryServiceHandle](injector)
	_ = do.MustInvoke[*providers.TrendingServiceHandle](injector)
	_ = do.MustInvoke[*service.TitleService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
