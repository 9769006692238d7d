package store

import (
	"sync"
)

// Memory is an in-memory backend for testing and for running without a
// history file.
type Memory struct {
	mu      sync.RWMutex
	entries []string
}

// NewMemory creates a new in-memory backend, optionally pre-populated.
func NewMemory(entries ...string) *Memory {
	return &Memory{entries: append([]string(nil), entries...)}
}

// Load returns a copy of the stored entries.
func (m *Memory) Load() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.entries...), nil
}

// Save replaces the stored entries.
func (m *Memory) Save(entries []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]string(nil), entries...)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
