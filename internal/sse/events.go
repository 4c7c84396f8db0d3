// Package sse implements Server-Sent Events for live search and trending updates.
package sse

import (
	"time"

	"github.com/cinescope/cinescope-server/internal/discovery"
	"github.com/cinescope/cinescope-server/internal/trending"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventSearchUpdated carries a new discovery session state. Only sent to clients
	// subscribed to that session.
	EventSearchUpdated EventType = "search.updated"
	// EventSessionExpired tells a session's subscribers the session was evicted.
	EventSessionExpired EventType = "session.expired"

	// EventTrendingUpdated carries a new carousel state.
	EventTrendingUpdated EventType = "trending.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID limits delivery to clients subscribed to one discovery session.
	// Empty means broadcast to all.
	SessionID string `json:"-"`
}

// SearchEventData is the data payload for search.updated events.
type SearchEventData struct {
	SessionID string                `json:"session_id"`
	State     discovery.SearchState `json:"state"`
}

// SessionExpiredEventData is the data payload for session.expired events.
type SessionExpiredEventData struct {
	SessionID string `json:"session_id"`
}

// TrendingEventData is the data payload for trending.updated events.
type TrendingEventData struct {
	State trending.CarouselState `json:"state"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewSearchUpdatedEvent creates a search.updated event scoped to sessionID.
func NewSearchUpdatedEvent(sessionID string, state discovery.SearchState) Event {
	return Event{
		Type:      EventSearchUpdated,
		Data:      SearchEventData{SessionID: sessionID, State: state},
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewSessionExpiredEvent creates a session.expired event scoped to sessionID.
func NewSessionExpiredEvent(sessionID string) Event {
	return Event{
		Type:      EventSessionExpired,
		Data:      SessionExpiredEventData{SessionID: sessionID},
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewTrendingUpdatedEvent creates a trending.updated event.
func NewTrendingUpdatedEvent(state trending.CarouselState) Event {
	return Event{
		Type:      EventTrendingUpdated,
		Data:      TrendingEventData{State: state},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
