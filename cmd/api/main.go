// Package main provides the entry point for the Cinescope server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/cinescope/cinescope-server/internal/di"
	"github.com/cinescope/cinescope-server/internal/di/providers"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Keep a plain logger for the shutdown messages; the handle's file closes with the container.
	log := do.MustInvoke[*providers.LoggerHandle](injector).Logger.Logger

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Providers shut down in reverse dependency order, HTTP server first.
	if err := injector.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}

	fmt.Fprintln(os.Stderr, "Cinescope server stopped")
}
