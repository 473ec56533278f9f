// Command catalogd serves a game catalog over the search gateway API that
// arcade browses. The corpus lives in SQLite and is seeded from YAML.
//
// Usage:
//
//	catalogd [-addr :8787] [-db catalog.db] [-seed games.yaml] [-log-level info]
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelbrown/arcade/internal/logging"
	"github.com/abelbrown/arcade/internal/server"
	"github.com/abelbrown/arcade/internal/store"
)

//go:embed games.yaml
var defaultSeed []byte

func main() {
	addr := flag.String("addr", ":8787", "Listen address")
	dbPath := flag.String("db", ":memory:", "SQLite database path")
	seedPath := flag.String("seed", "", "YAML seed file (default: built-in sample catalog)")
	noSeed := flag.Bool("no-seed", false, "Skip seeding; serve the database as is")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logDir := flag.String("log-dir", "", "Write logs to a dated file in this directory instead of stderr")
	flag.Parse()

	if *logDir != "" {
		if err := logging.InitFile(*logDir, "catalogd", *logLevel); err != nil {
			logging.Init(os.Stderr, *logLevel)
			logging.Warn("file logging unavailable", "err", err)
		}
	} else {
		logging.Init(os.Stderr, *logLevel)
	}
	defer logging.Close()

	if err := run(*addr, *dbPath, *seedPath, *noSeed); err != nil {
		logging.Error("catalogd failed", "err", err)
		os.Exit(1)
	}
}

func run(addr, dbPath, seedPath string, noSeed bool) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if !noSeed {
		if err := seed(st, seedPath); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(st).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		logging.Info("listening", "addr", addr, "db", dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	logging.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func seed(st *store.Store, path string) error {
	var r io.Reader = bytes.NewReader(defaultSeed)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	items, err := store.LoadSeed(r)
	if err != nil {
		return err
	}
	n, err := st.SaveItems(context.Background(), items)
	if err != nil {
		return err
	}
	logging.Info("seeded catalog", "games", len(items), "new", n)
	return nil
}
