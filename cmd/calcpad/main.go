// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command calcpad is the terminal calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/mcpserver"
	"nickandperla.net/calcpad/pkg/calcpad"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		evalStr      = flag.String("e", "", "Evaluate an expression and exit")
		panelF       = flag.String("panel", "scientific", "Panel: standard, scientific, programmable or area")
		historyPath  = flag.String("history", "history.json", "History file (.db or .sqlite for SQLite, empty for memory only)")
		sqlite       = flag.Bool("sqlite", false, "Store history in SQLite whatever the file suffix")
		settingsPath = flag.String("settings", "settings.json", "Settings file")
		maxHistory   = flag.Int("max-history", calcpad.DefaultMaxEntries, "Number of history entries kept")
		maxDepth     = flag.Int("max-depth", eval.DefaultMaxDepth, "Maximum nesting of user function calls")
		logPath      = flag.String("log", "", "Write logs to this file instead of stderr")
		debug        = flag.Bool("debug", false, "Enable debug logging")
		mcp          = flag.Bool("mcp", false, "Serve the calculator as MCP tools over stdio")
		watch        = flag.Bool("watch", false, "Reload the settings file when it changes")
	)

	flag.Parse()

	logger, closeLog, err := newLogger(*logPath, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	p, err := calcpad.ParsePanel(*panelF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Build options
	opts := []calcpad.Option{
		calcpad.WithSettingsFile(*settingsPath),
		calcpad.WithMaxEntries(*maxHistory),
		calcpad.WithMaxDepth(*maxDepth),
		calcpad.WithLogger(logger),
	}

	// Configure history backend
	switch {
	case *historyPath == "":
		opts = append(opts, calcpad.WithMemoryHistory())
	case *sqlite:
		opts = append(opts, calcpad.WithSQLiteHistory(*historyPath))
	default:
		opts = append(opts, calcpad.WithHistoryFile(*historyPath))
	}

	app, err := calcpad.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.Close()

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := app.WatchSettings(ctx, nil); err != nil {
				logger.Error("settings watch stopped", "err", err)
			}
		}()
	}

	switch {
	case *mcp:
		if err := mcpserver.Serve(app); err != nil {
			logger.Error("mcp server failed", "err", err)
			return 1
		}
		return 0

	case *evalStr != "":
		result, err := app.Eval(p, *evalStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(result)
		if format.IsError(result) {
			return 1
		}
		return 0

	case !isTerminal(os.Stdin):
		// Piped input: one line per calculation, no prompts
		runBasicREPL(newSession(app, os.Stdout, p), os.Stdin, false)
		return 0
	}

	runREPL(newSession(app, os.Stdout, p))
	return 0
}

// newLogger writes text logs to path, or stderr when path is empty. Only
// warnings and errors are shown unless debug is set.
func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
