// Package ui provides the Bubble Tea TUI for arcade.
package ui

import "github.com/abelbrown/arcade/internal/session"

// StartLoaded is sent when the search and count for a new session return.
type StartLoaded struct {
	Result session.StartResult
}

// PageLoaded is sent when a load-more request returns.
type PageLoaded struct {
	Result session.PageResult
}

// QuickTick fires when the quick-search debounce window for Token expires.
type QuickTick struct {
	Token session.Token
}

// QuickLoaded is sent when a quick-search request returns.
type QuickLoaded struct {
	Result session.QuickResult
}

// PrefsLoaded carries the persisted sort key and view mode. Empty fields
// mean nothing was stored.
type PrefsLoaded struct {
	Sort string
	View string
	Err  error
}

// PrefSaved is sent after a preference write.
type PrefSaved struct {
	Key string
	Err error
}
