package sse

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrShuttingDown is returned by Connect once Shutdown has begun.
var ErrShuttingDown = errors.New("sse: manager shutting down")

// SessionExists reports whether a discovery session is live.
type SessionExists func(sessionID string) bool

// Handler handles SSE connections at GET /api/v1/stream.
type Handler struct {
	manager       *Manager
	sessionExists SessionExists
	logger        *slog.Logger
}

// NewHandler creates a new SSE Handler. sessionExists may be nil, in which case any
// ?session= value is accepted.
func NewHandler(manager *Manager, sessionExists SessionExists, logger *slog.Logger) *Handler {
	return &Handler{
		manager:       manager,
		sessionExists: sessionExists,
		logger:        logger,
	}
}

// ServeHTTP handles the SSE connection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Early client disconnect.
	if r.Context().Err() != nil {
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID != "" && h.sessionExists != nil && !h.sessionExists(sessionID) {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)

	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect(sessionID)
	if err != nil {
		h.logger.Error("failed to register SSE client", slog.String("error", err.Error()))
		http.Error(w, "Failed to establish connection", http.StatusServiceUnavailable)
		return
	}
	defer h.manager.Disconnect(client.ID)

	clientLogger := h.logger.With(slog.String("client_id", client.ID))

	if err := h.sendEvent(w, rc, "connected", map[string]string{
		"client_id":  client.ID,
		"session_id": sessionID,
		"message":    "SSE connection established",
	}); err != nil {
		clientLogger.Warn("failed to send initial connection message", slog.String("error", err.Error()))
		return
	}

	ctx := r.Context()
	for {
		select {
		case event, ok := <-client.EventChan:
			if !ok {
				clientLogger.Info("client closed by manager")
				return
			}
			if err := h.sendEvent(w, rc, string(event.Type), event); err != nil {
				// Client disconnect is normal, not an error condition.
				clientLogger.Info("client disconnected during send")
				return
			}

		case <-client.Done:
			clientLogger.Info("client closed by manager")
			return

		case <-ctx.Done():
			clientLogger.Info("client context canceled")
			return
		}
	}
}

// sendEvent writes one SSE frame and flushes it.
func (h *Handler) sendEvent(w http.ResponseWriter, rc *http.ResponseController, eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, jsonData); err != nil {
		return err
	}

	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset after each successful write so hung connections eventually fail.
	if err := rc.SetWriteDeadline(time.Now().Add(60 * time.Second)); err != nil {
		// Not every ResponseWriter supports deadlines.
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}

	return nil
}
