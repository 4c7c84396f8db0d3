// Package providers contains dependency injection providers for the Cinescope server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/config"
	"github.com/cinescope/cinescope-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// LoggerHandle wraps the logger so the rotating log file is closed on shutdown.
type LoggerHandle struct {
	*logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *LoggerHandle) Shutdown() error {
	return h.Close()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*LoggerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
		Rotation: logger.RotationConfig{
			Path:       cfg.Logger.File,
			MaxSizeMB:  cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAgeDays: cfg.Logger.MaxAgeDays,
		},
	})

	log.Info("Starting Cinescope Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"catalog_url", cfg.Catalog.BaseURL,
		"sort_policy", cfg.Search.SortPolicy,
		"trending_titles", len(cfg.Trending.Titles),
	)
	if cfg.Catalog.APIKey == "" {
		log.Warn("CATALOG_API_KEY is not set; catalog requests will be rejected")
	}

	return &LoggerHandle{Logger: log}, nil
}
