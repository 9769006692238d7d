// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package history implements the bounded, persisted calculation log shared
// by all calculator panels.
package history

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/store"
)

// DefaultMaxEntries is the capacity used when none is given.
const DefaultMaxEntries = 20

// Log is an insertion-ordered list of entries, oldest first, holding at
// most MaxEntries. Every mutation rewrites the backend in full; backend
// failures are logged and otherwise ignored, so the in-memory log stays
// authoritative.
type Log struct {
	mu         sync.Mutex
	entries    []string
	maxEntries int
	backend    store.Backend
	logger     *slog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries sets the capacity. Values below 1 keep the default.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// New creates a Log over backend and loads it. Load never fails: a missing,
// unreadable or corrupt backing store yields an empty log.
func New(backend store.Backend, opts ...Option) *Log {
	l := &Log{
		maxEntries: DefaultMaxEntries,
		backend:    backend,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.backend == nil {
		l.backend = store.NewMemory()
	}
	l.load()
	return l
}

// load reads the backend, keeping only the newest maxEntries.
func (l *Log) load() {
	entries, err := l.backend.Load()
	if err != nil {
		l.logger.Warn("history load failed, starting empty", "err", err)
		l.entries = nil
		return
	}
	if n := len(entries); n > l.maxEntries {
		entries = entries[n-l.maxEntries:]
	}
	l.entries = append([]string(nil), entries...)
	l.logger.Debug("history loaded", "entries", len(l.entries))
}

// Append trims entry and, unless it is empty, adds it to the end, evicting
// the oldest entry when the log is over capacity, then persists.
func (l *Log) Append(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.maxEntries {
		l.entries = append(l.entries[:0:0], l.entries[1:]...)
	}
	l.persist()
	l.logger.Info("history added", "entry", entry)
}

// Clear empties the log and persists the empty state.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.persist()
	l.logger.Info("history cleared")
}

// Flush rewrites the backend with the current entries.
func (l *Log) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.persist()
}

// persist saves the log (caller must hold lock).
func (l *Log) persist() {
	if err := l.backend.Save(l.entries); err != nil {
		l.logger.Error("history save failed", "err", err)
	}
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// MaxEntries returns the fixed capacity.
func (l *Log) MaxEntries() int {
	return l.maxEntries
}

// Last returns the newest entry.
func (l *Log) Last() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}

// String joins all entries with newlines, for copying to a clipboard.
func (l *Log) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.entries, "\n")
}

// Close releases the backend.
func (l *Log) Close() error {
	return l.backend.Close()
}
