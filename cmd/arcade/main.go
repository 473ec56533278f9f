// Command arcade is a terminal browser for a game catalog served by a
// search gateway (see cmd/catalogd).
//
// Usage:
//
//	arcade [-q query] [-gateway url]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/arcade/internal/config"
	"github.com/abelbrown/arcade/internal/gateway"
	"github.com/abelbrown/arcade/internal/otel"
	"github.com/abelbrown/arcade/internal/prefs"
	"github.com/abelbrown/arcade/internal/ui"
)

func main() {
	query := flag.String("q", "", "Start with this search")
	gatewayURL := flag.String("gateway", "", "Search gateway base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *gatewayURL != "" {
		cfg.Gateway.BaseURL = *gatewayURL
	}

	// Data directory: ~/.arcade/
	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Event log + ring buffer for the debug overlay
	obsLog, ring, closeLog := openEventLog(filepath.Join(dataDir, "arcade.events.jsonl"))
	defer closeLog()

	obsLog.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStartup,
		Comp:  "main",
		Msg:   "gateway " + cfg.Gateway.BaseURL,
		Extra: map[string]any{"prefs": cfg.Prefs.Backend, "page_size": cfg.Browse.PageSize},
	})

	client := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Timeout(),
		gateway.WithRateLimit(cfg.Gateway.RequestsPerSec),
		gateway.WithLogger(obsLog),
	)

	// Prefs are optional: without a store the app starts with defaults
	var store prefs.Store
	if st, err := openPrefs(cfg); err != nil {
		obsLog.Error(otel.KindPrefsError, "main", err)
	} else {
		store = st
		defer st.Close()
	}

	app := ui.NewApp(ui.AppConfig{
		Gateway:    client,
		Prefs:      store,
		PageSize:   cfg.Browse.PageSize,
		QuickLimit: cfg.Browse.QuickLimit,
		Debounce:   cfg.Debounce(),
		Timeout:    cfg.Timeout(),
		View:       ui.ViewMode(cfg.UI.DefaultView),
		Query:      *query,
		Obs:        ui.ObsConfig{Logger: obsLog, Ring: ring},
	})

	program := tea.NewProgram(app, tea.WithAltScreen())

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		obsLog.Error(otel.KindError, "main", err)
		log.Printf("Error running program: %v", err)
	}

	obsLog.Info(otel.KindShutdown, "main", "bye")
}

// openEventLog opens the JSONL event log. When the file cannot be opened
// events still reach the ring buffer.
func openEventLog(path string) (*otel.Logger, *otel.RingBuffer, func()) {
	ring := otel.NewRingBuffer(otel.DefaultRingSize)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Warning: event log disabled: %v", err)
		l := otel.NewNullLogger()
		l.SetRingBuffer(ring)
		return l, ring, l.Close
	}

	l := otel.NewLogger(f)
	l.SetRingBuffer(ring)
	return l, ring, func() {
		l.Close()
		f.Close()
	}
}

func openPrefs(cfg *config.Config) (prefs.Store, error) {
	switch cfg.Prefs.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return prefs.OpenRedis(ctx, prefs.RedisOptions{
			Addr:   cfg.Prefs.RedisAddr,
			DB:     cfg.Prefs.RedisDB,
			Prefix: cfg.Prefs.RedisPrefix,
		})
	case "sqlite":
		return prefs.OpenSQLite(cfg.Prefs.Path)
	}
	return nil, fmt.Errorf("unknown prefs backend %q", cfg.Prefs.Backend)
}
