package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read from the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("ARCADE_TRACE") != "")
}

// TraceEnabled reports whether ARCADE_TRACE is set. When true the UI emits
// one event per received message.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
