package settings

import (
	"io"
	"log/slog"
	"sync"
)

// Live holds the current settings of a running application. It is mutated
// in memory by user edits and persisted only on Save.
type Live struct {
	mu     sync.RWMutex
	cur    Settings
	path   string
	logger *slog.Logger
}

// Open loads settings from path into a Live. Load problems are logged and
// yield defaults; they never prevent startup. An empty path keeps settings
// in memory only.
func Open(path string, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Live{cur: Defaults(), path: path, logger: logger}
	if path != "" {
		s, err := Load(path)
		if err != nil {
			logger.Warn("settings load failed, using defaults", "path", path, "err", err)
		}
		l.cur = s
	}
	return l
}

// Current returns a snapshot of the settings.
func (l *Live) Current() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// Path returns the backing file path.
func (l *Live) Path() string {
	return l.path
}

// Set replaces the settings in memory.
func (l *Live) Set(s Settings) {
	s.DecimalPrecision = ClampPrecision(s.DecimalPrecision)
	if _, ok := ParseTheme(string(s.Theme)); !ok {
		s.Theme = ThemeDark
	}
	l.mu.Lock()
	l.cur = s
	l.mu.Unlock()
}

// Update applies fn to a copy of the settings and stores the result.
func (l *Live) Update(fn func(*Settings)) Settings {
	s := l.Current()
	fn(&s)
	l.Set(s)
	return l.Current()
}

// SetPrecision sets decimal_precision, clamped to [0, MaxPrecision].
func (l *Live) SetPrecision(p int) Settings {
	return l.Update(func(s *Settings) { s.DecimalPrecision = p })
}

// ToggleTheme flips between dark and light.
func (l *Live) ToggleTheme() Settings {
	return l.Update(func(s *Settings) { s.Theme = s.Theme.Toggle() })
}

// Save persists the settings. Without a path it does nothing.
func (l *Live) Save() error {
	if l.path == "" {
		return nil
	}
	if err := Save(l.path, l.Current()); err != nil {
		l.logger.Error("settings save failed", "path", l.path, "err", err)
		return err
	}
	l.logger.Debug("settings saved", "path", l.path)
	return nil
}

// Reload re-reads the file. On error the current settings are kept.
func (l *Live) Reload() error {
	if l.path == "" {
		return nil
	}
	s, err := Load(l.path)
	if err != nil {
		l.logger.Warn("settings reload failed", "path", l.path, "err", err)
		return err
	}
	l.Set(s)
	return nil
}
