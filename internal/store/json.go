// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONFile stores the history as a UTF-8 JSON array of strings.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

// NewJSONFile creates a backend for the file at path. The file is not
// touched until Load or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (j *JSONFile) Path() string {
	return j.path
}

// Load reads the file. A missing file yields no entries; a file that is not
// a JSON array of strings yields ErrCorrupt.
func (j *JSONFile) Load() ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", j.path, err)
	}

	// null elements decode as nil pointers, not "".
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, j.path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: null payload", ErrCorrupt, j.path)
	}
	entries := make([]string, len(raw))
	for i, e := range raw {
		if e == nil {
			return nil, fmt.Errorf("%w: %s: null entry at %d", ErrCorrupt, j.path, i)
		}
		entries[i] = *e
	}
	return entries, nil
}

// Save rewrites the whole file through a temp file and rename, so a failed
// write never leaves a truncated history behind.
func (j *JSONFile) Save(entries []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entries == nil {
		entries = []string{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(j.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write history %s: %w", j.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history %s: %w", j.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write history %s: %w", j.path, err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("write history %s: %w", j.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (j *JSONFile) Close() error {
	return nil
}
