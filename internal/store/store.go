// Package store provides persistence for the calculation history log.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrCorrupt is returned by Load when the persisted payload is not a
// sequence of strings.
var ErrCorrupt = errors.New("history payload is not a list of strings")

// Backend persists the whole history log. Save always rewrites the full
// sequence; there is no incremental append.
type Backend interface {
	// Load returns the persisted entries, oldest first. A missing backing
	// store is not an error and yields no entries.
	Load() ([]string, error)
	// Save replaces the persisted entries.
	Save(entries []string) error
	// Close releases resources.
	Close() error
}

// Locator is implemented by backends that live at a path.
type Locator interface {
	Path() string
}

// Open picks a backend from the path: an empty path is in-memory, a .db or
// .sqlite suffix is SQLite, anything else is a JSON file.
func Open(path string) (Backend, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		return NewMemory(), nil
	case ext == ".db" || ext == ".sqlite":
		s, err := NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open history database %s: %w", path, err)
		}
		return s, nil
	default:
		return NewJSONFile(path), nil
	}
}
