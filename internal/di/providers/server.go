package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/api"
	"github.com/cinescope/cinescope-server/internal/config"
	"github.com/cinescope/cinescope-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	catalog := do.MustInvoke[*CatalogClientHandle](i)

	services := &api.Services{
		Discovery: do.MustInvoke[*DiscoveryServiceHandle](i).DiscoveryService,
		Trending:  do.MustInvoke[*TrendingServiceHandle](i).TrendingService,
		Title:     do.MustInvoke[*service.TitleService](i),
		Catalog:   catalog.Client,
	}

	handler := api.NewServer(services, sseHandle.Manager, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
	}, log.Logger.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
