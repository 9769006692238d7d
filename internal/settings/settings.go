// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package settings loads, holds and saves user settings.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Theme is the color palette name.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme parses a theme name, case-insensitively.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	}
	return ThemeDark, false
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Palette holds the colors a front end applies for a theme.
type Palette struct {
	Background string
	Foreground string
	Accent     string
	EntryBg    string
}

// Palette returns the colors for the theme.
func (t Theme) Palette() Palette {
	if t == ThemeLight {
		return Palette{Background: "#f7f7f7", Foreground: "#232b36", Accent: "#2ecc71", EntryBg: "#ffffff"}
	}
	return Palette{Background: "#232b36", Foreground: "#f7f7f7", Accent: "#2ecc71", EntryBg: "#2b3036"}
}

// MaxPrecision caps decimal_precision; float64 carries no more digits.
const MaxPrecision = 17

// Settings is the flat set of user options.
type Settings struct {
	Theme              Theme `json:"theme"`
	DecimalPrecision   int   `json:"decimal_precision"`
	ClearHistoryOnExit bool  `json:"clear_history_on_exit"`
}

// Defaults returns the settings used when the file or a key is missing.
func Defaults() Settings {
	return Settings{
		Theme:              ThemeDark,
		DecimalPrecision:   4,
		ClearHistoryOnExit: false,
	}
}

// Provider gives read access to the current settings. Panels call Current
// on every evaluation so changes apply without restart.
type Provider interface {
	Current() Settings
}

// Current lets a fixed Settings value act as a Provider.
func (s Settings) Current() Settings {
	return s
}

// Parse decodes a settings document. Unknown keys are ignored and each
// missing or invalid key falls back to its default. Only a document that is
// not a JSON object is an error.
func Parse(data []byte) (Settings, error) {
	s := Defaults()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	if raw == nil {
		return s, fmt.Errorf("parse settings: not an object")
	}

	if v, ok := raw["theme"]; ok {
		var name string
		if json.Unmarshal(v, &name) == nil {
			if t, ok := ParseTheme(name); ok {
				s.Theme = t
			}
		}
	}
	if v, ok := raw["decimal_precision"]; ok {
		if p, ok := parsePrecision(v); ok {
			s.DecimalPrecision = p
		}
	}
	if v, ok := raw["clear_history_on_exit"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			s.ClearHistoryOnExit = b
		}
	}
	return s, nil
}

// parsePrecision accepts a whole JSON number or a numeric string.
func parsePrecision(v json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var str string
		if json.Unmarshal(v, &str) != nil {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return 0, false
		}
		f = float64(n)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	if f > MaxPrecision {
		return MaxPrecision, true
	}
	return int(f), true
}

// ClampPrecision limits p to [0, MaxPrecision].
func ClampPrecision(p int) int {
	if p < 0 {
		return 0
	}
	if p > MaxPrecision {
		return MaxPrecision
	}
	return p
}

// Load reads settings from path. A missing file yields defaults with no
// error; an unreadable or corrupt file yields defaults and the error.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read settings %s: %w", path, err)
	}
	return Parse(data)
}

// Save writes settings to path through a temp file and rename.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
