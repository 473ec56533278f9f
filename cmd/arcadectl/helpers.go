package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/arcade/internal/config"
)

// eventRecord mirrors otel.Event for JSON decoding.
// We decode from JSONL rather than importing otel to keep this
// subcommand usable even if the event schema evolves.
type eventRecord struct {
	Time      time.Time      `json:"t"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	Comp      string         `json:"comp"`
	SessionID string         `json:"session_id"`
	QueryID   string         `json:"qid"`
	Token     uint64         `json:"token"`
	DurMs     float64        `json:"dur_ms"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Query     string         `json:"query"`
	Category  string         `json:"category"`
	Err       string         `json:"err"`
	Msg       string         `json:"msg"`
	Extra     map[string]any `json:"extra"`
}

// eventLogPath returns the path to ~/.arcade/arcade.events.jsonl.
func eventLogPath() string {
	return filepath.Join(config.Dir(), "arcade.events.jsonl")
}

// openEventLog opens the event log or exits with a hint.
func openEventLog() *os.File {
	logPath := eventLogPath()
	f, err := os.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Event log not found at %s\n", logPath)
		fmt.Fprintf(os.Stderr, "  Run arcade first to generate events.\n")
		os.Exit(1)
	}
	return f
}

// scanEvents calls fn for every decodable line in r. Undecodable lines
// are skipped.
func scanEvents(r io.Reader, fn func(ev eventRecord, raw []byte)) error {
	scanner := bufio.NewScanner(r)
	// Allow large lines (some events may have big Extra maps)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		fn(ev, raw)
	}
	return scanner.Err()
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
