// Package otel provides structured observability for arcade.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and a background drain
// goroutine. An optional RingBuffer keeps recent events in memory for the
// debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Browse session lifecycle
	KindSessionStart EventKind = "session.start"
	KindSessionReady EventKind = "session.ready"
	KindSessionError EventKind = "session.error"
	KindSessionStale EventKind = "session.stale"

	// Load more
	KindPageStart    EventKind = "page.start"
	KindPageComplete EventKind = "page.complete"
	KindPageError    EventKind = "page.error"
	KindPageSkip     EventKind = "page.skip"

	// Typeahead
	KindQuickSearch EventKind = "quick.search"
	KindQuickStale  EventKind = "quick.stale"

	// Collaborators
	KindGatewayRetry EventKind = "gateway.retry"
	KindPrefsError   EventKind = "prefs.error"

	// UI
	KindKeyPress EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace (ARCADE_TRACE only)
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // "session", "ui", "gateway", "main"
	SessionID string         `json:"session_id,omitempty"` // random hex, same for the whole run
	QueryID   string         `json:"qid,omitempty"`        // browse session correlation id
	Token     uint64         `json:"token,omitempty"`      // request token the event belongs to
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Total     int            `json:"total,omitempty"`
	Query     string         `json:"query,omitempty"`
	Category  string         `json:"category,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
