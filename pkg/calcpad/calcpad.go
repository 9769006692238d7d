// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package calcpad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/panel"
	"nickandperla.net/calcpad/internal/settings"
	"nickandperla.net/calcpad/internal/store"
)

// DefaultMaxEntries is the history capacity of an App.
const DefaultMaxEntries = 50

// PanelName identifies one of the calculator panels.
type PanelName string

const (
	PanelStandard     PanelName = "standard"
	PanelScientific   PanelName = "scientific"
	PanelProgrammable PanelName = "programmable"
	PanelArea         PanelName = "area"
)

// Panels lists the panel names in tab order.
var Panels = []PanelName{PanelStandard, PanelArea, PanelScientific, PanelProgrammable}

// ParsePanel parses a panel name, case-insensitively.
func ParsePanel(name string) (PanelName, error) {
	for _, p := range Panels {
		if strings.EqualFold(strings.TrimSpace(name), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown panel %q", name)
}

// App owns the shared settings and history and the four panels.
type App struct {
	logger       *slog.Logger
	historyPath  string
	settingsPath string
	maxEntries   int
	maxDepth     int
	backend      store.Backend
	optErr       error

	settings     *settings.Live
	history      *history.Log
	standard     *panel.Standard
	area         *panel.Area
	scientific   *panel.Scientific
	programmable *panel.Programmable

	closeOnce sync.Once
	closeErr  error
}

// New creates an App with the given options. History defaults to memory
// unless a history option is given.
func New(opts ...Option) (*App, error) {
	a := &App{
		maxEntries: DefaultMaxEntries,
		maxDepth:   eval.DefaultMaxDepth,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.optErr != nil {
		if a.backend != nil {
			a.backend.Close()
		}
		return nil, a.optErr
	}

	if a.backend == nil {
		b, err := store.Open(a.historyPath)
		if err != nil {
			return nil, err
		}
		a.backend = b
	}

	a.settings = settings.Open(a.settingsPath, a.logger)
	a.history = history.New(a.backend,
		history.WithMaxEntries(a.maxEntries),
		history.WithLogger(a.logger),
	)

	popts := []panel.Option{panel.WithLogger(a.logger), panel.WithMaxDepth(a.maxDepth)}
	a.standard = panel.NewStandard(a.history, a.settings, popts...)
	a.area = panel.NewArea(a.history, a.settings, popts...)
	a.scientific = panel.NewScientific(a.history, a.settings, popts...)
	a.programmable = panel.NewProgrammable(a.history, a.settings, popts...)

	a.logger.Debug("app started",
		"history", a.historyPath,
		"settings", a.settingsPath,
		"max_entries", a.history.MaxEntries(),
	)
	return a, nil
}

// Settings returns the live settings.
func (a *App) Settings() *settings.Live { return a.settings }

// History returns the shared history log.
func (a *App) History() *history.Log { return a.history }

// Standard returns the Standard panel.
func (a *App) Standard() *panel.Standard { return a.standard }

// Area returns the Area panel.
func (a *App) Area() *panel.Area { return a.area }

// Scientific returns the Scientific panel.
func (a *App) Scientific() *panel.Scientific { return a.scientific }

// Programmable returns the Programmable panel.
func (a *App) Programmable() *panel.Programmable { return a.programmable }

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Eval evaluates input on the named panel and returns the display text.
// The Standard panel receives input as a sequence of key presses followed
// by "=". The Area panel takes "SHAPE DIM...".
func (a *App) Eval(name PanelName, input string) (string, error) {
	switch name {
	case PanelStandard:
		a.standard.Press("AC")
		if _, err := a.standard.Type(input); err != nil {
			return a.standard.Display(), err
		}
		return a.standard.Press("=")
	case PanelScientific:
		return a.scientific.Evaluate(input), nil
	case PanelProgrammable:
		lines := a.programmable.Evaluate(input)
		if len(lines) == 0 {
			return "", nil
		}
		return lines[len(lines)-1], nil
	case PanelArea:
		fields := strings.Fields(input)
		if len(fields) == 0 {
			return "", fmt.Errorf("area needs a shape")
		}
		shape, ok := panel.ParseShape(fields[0])
		if !ok {
			return "", fmt.Errorf("unknown shape %q", fields[0])
		}
		if len(fields) == 1 {
			a.area.Select(shape)
			return a.area.Display(), nil
		}
		return a.area.Calculate(shape, fields[1:]...), nil
	}
	return "", fmt.Errorf("unknown panel %q", name)
}

// ToggleTheme flips the theme and saves the settings.
func (a *App) ToggleTheme() (settings.Theme, error) {
	s := a.settings.ToggleTheme()
	return s.Theme, a.settings.Save()
}

// UpdateSettings edits the settings and saves them, like the settings
// dialog's Save button.
func (a *App) UpdateSettings(fn func(*settings.Settings)) (settings.Settings, error) {
	s := a.settings.Update(fn)
	return s, a.settings.Save()
}

// WatchSettings reloads the settings file on change until ctx is done.
func (a *App) WatchSettings(ctx context.Context, onChange func(settings.Settings)) error {
	return a.settings.Watch(ctx, settings.DefaultDebounce, func(s settings.Settings) {
		a.logger.Info("settings changed",
			"theme", s.Theme,
			"decimal_precision", s.DecimalPrecision,
			"clear_history_on_exit", s.ClearHistoryOnExit,
		)
		if onChange != nil {
			onChange(s)
		}
	})
}

// Close applies the exit behavior: history is cleared when
// clear_history_on_exit is set, otherwise flushed; settings are saved; the
// history backend is released. Close is idempotent.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		if a.settings.Current().ClearHistoryOnExit {
			a.history.Clear()
		} else {
			a.history.Flush()
		}
		a.closeErr = errors.Join(a.settings.Save(), a.history.Close())
		a.logger.Debug("app closed")
	})
	return a.closeErr
}
