// Package prefs persists small user preferences (last sort key and view
// mode) in a key-value store. Two backends exist: a local SQLite file
// and Redis.
package prefs

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("prefs: key not found")

// Known keys.
const (
	KeySort = "sort_key"
	KeyView = "view_mode"
)

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// GetOr returns the stored value for key, or fallback when the key is
// missing or the store fails. The error is returned for logging only;
// ErrNotFound is not reported.
func GetOr(ctx context.Context, s Store, key, fallback string) (string, error) {
	v, err := s.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return fallback, nil
	case err != nil:
		return fallback, err
	}
	return v, nil
}
