package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/arcade/internal/prefs"
	"github.com/abelbrown/arcade/internal/session"
)

// prefsTimeout bounds each preference read or write.
const prefsTimeout = 2 * time.Second

var errNoGateway = errors.New("no gateway configured")

// startCmd runs the concurrent search and count for a new session.
func (a App) startCmd(req session.StartRequest) tea.Cmd {
	gw, timeout := a.gw, a.timeout
	return func() tea.Msg {
		if gw == nil {
			return StartLoaded{Result: session.StartResult{Token: req.Token, Err: errNoGateway}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return StartLoaded{Result: session.FetchStart(ctx, gw, req)}
	}
}

// pageCmd fetches the next page of the current session.
func (a App) pageCmd(req session.PageRequest) tea.Cmd {
	gw, timeout := a.gw, a.timeout
	return func() tea.Msg {
		if gw == nil {
			return PageLoaded{Result: session.PageResult{Token: req.Token, Offset: req.Offset, Err: errNoGateway}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return PageLoaded{Result: session.FetchPage(ctx, gw, req)}
	}
}

// quickCmd runs one typeahead search.
func (a App) quickCmd(req session.QuickRequest) tea.Cmd {
	gw, timeout := a.gw, a.timeout
	return func() tea.Msg {
		if gw == nil {
			return QuickLoaded{Result: session.QuickResult{Token: req.Token, Text: req.Text, Err: errNoGateway}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return QuickLoaded{Result: session.FetchQuick(ctx, gw, req)}
	}
}

// debounceCmd delivers a QuickTick for tok once the debounce window passes.
func (a App) debounceCmd(tok session.Token) tea.Cmd {
	return tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return QuickTick{Token: tok}
	})
}

func loadPrefsCmd(store prefs.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		defer cancel()

		sortKey, err := prefs.GetOr(ctx, store, prefs.KeySort, "")
		if err != nil {
			return PrefsLoaded{Err: err}
		}
		view, err := prefs.GetOr(ctx, store, prefs.KeyView, "")
		return PrefsLoaded{Sort: sortKey, View: view, Err: err}
	}
}

func savePrefCmd(store prefs.Store, key, value string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), prefsTimeout)
		defer cancel()
		return PrefSaved{Key: key, Err: store.Set(ctx, key, value)}
	}
}
