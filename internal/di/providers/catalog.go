package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/config"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb"
)

// CatalogClientHandle wraps the catalog client with shutdown capability.
type CatalogClientHandle struct {
	*omdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *CatalogClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideCatalogClient provides the remote movie catalog client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	client, err := omdb.New(omdb.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	}, log.With("component", "catalog"))
	if err != nil {
		return nil, err
	}

	log.Info("Catalog client initialized", "base_url", client.BaseURL(), "timeout", cfg.Catalog.Timeout)
	return &CatalogClientHandle{Client: client}, nil
}
