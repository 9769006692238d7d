// Package calcpad provides the public API for the calculator: a set of
// panels sharing one history log and one settings store.
package calcpad

import (
	"log/slog"

	"nickandperla.net/calcpad/internal/store"
)

// Option configures an App.
type Option func(*App)

// WithHistoryFile persists history at path. A .db or .sqlite suffix selects
// the SQLite backend, anything else a JSON file.
func WithHistoryFile(path string) Option {
	return func(a *App) {
		a.historyPath = path
		a.setBackend(nil)
	}
}

// WithSQLiteHistory persists history in a SQLite database at path,
// whatever its suffix.
func WithSQLiteHistory(path string) Option {
	return func(a *App) {
		s, err := store.NewSQLite(path)
		if err != nil {
			a.optErr = err
			return
		}
		a.historyPath = path
		a.setBackend(s)
	}
}

// WithMemoryHistory keeps history in memory only (for testing).
func WithMemoryHistory() Option {
	return func(a *App) {
		a.historyPath = ""
		a.setBackend(store.NewMemory())
	}
}

// WithMaxEntries sets the history capacity.
func WithMaxEntries(n int) Option {
	return func(a *App) {
		a.maxEntries = n
	}
}

// WithMaxDepth bounds user function recursion in the panels.
func WithMaxDepth(depth int) Option {
	return func(a *App) {
		a.maxDepth = depth
	}
}

// WithSettingsFile loads and saves settings at path. Without it settings
// live in memory only.
func WithSettingsFile(path string) Option {
	return func(a *App) {
		a.settingsPath = path
	}
}

// setBackend replaces the history backend, closing the one it replaces.
func (a *App) setBackend(b store.Backend) {
	if a.backend != nil {
		a.backend.Close()
	}
	a.backend = b
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}
