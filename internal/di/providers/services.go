package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/config"
	"github.com/cinescope/cinescope-server/internal/discovery"
	"github.com/cinescope/cinescope-server/internal/service"
)

// DiscoveryServiceHandle wraps the discovery service with shutdown capability.
type DiscoveryServiceHandle struct {
	*service.DiscoveryService
}

// Shutdown implements do.Shutdownable.
func (h *DiscoveryServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideDiscoveryService provides the search session registry.
func ProvideDiscoveryService(i do.Injector) (*DiscoveryServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	svc := service.NewDiscoveryService(catalog.Client, sseHandle.Manager, service.DiscoveryOptions{
		Workers:     cfg.Catalog.EnrichWorkers,
		SortPolicy:  discovery.SortPolicy(cfg.Search.SortPolicy),
		IdleTimeout: cfg.Search.SessionIdleTimeout,
	}, log.Logger.Logger)

	return &DiscoveryServiceHandle{DiscoveryService: svc}, nil
}

// TrendingServiceHandle wraps the trending service with shutdown capability.
type TrendingServiceHandle struct {
	*service.TrendingService
}

// Shutdown implements do.Shutdownable.
func (h *TrendingServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideTrendingService provides the trending carousel and starts loading it in the background.
func ProvideTrendingService(i do.Injector) (*TrendingServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	svc := service.NewTrendingService(catalog.Client, sseHandle.Manager, service.TrendingOptions{
		Titles:   cfg.Trending.Titles,
		Interval: cfg.Trending.Interval,
		Viewport: cfg.Trending.Viewport,
	}, log.Logger.Logger)
	svc.Start(context.Background())

	log.Info("Trending carousel loading", "titles", len(cfg.Trending.Titles), "interval", cfg.Trending.Interval)

	return &TrendingServiceHandle{TrendingService: svc}, nil
}

// ProvideTitleService provides title detail lookups.
func ProvideTitleService(i do.Injector) (*service.TitleService, error) {
	log := do.MustInvoke[*LoggerHandle](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)

	return service.NewTitleService(catalog.Client, log.Logger.Logger), nil
}
