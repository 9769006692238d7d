// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package panel implements the calculator panels. Each panel turns raw user
// input into display text through the evaluator and formatter and appends
// committed calculations to the shared history log.
package panel

import (
	"io"
	"log/slog"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/settings"
)

// Option configures a panel.
type Option func(*base)

// WithLogger sets the panel's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) { b.logger = logger }
}

// WithMaxDepth bounds user function recursion for panels that evaluate
// definitions.
func WithMaxDepth(depth int) Option {
	return func(b *base) { b.maxDepth = depth }
}

// base holds what every panel shares: the history log, the settings
// provider and a private evaluator.
type base struct {
	history  *history.Log
	settings settings.Provider
	logger   *slog.Logger
	maxDepth int
	eval     *eval.Evaluator
}

func newBase(h *history.Log, s settings.Provider, opts []Option) base {
	b := base{
		history:  h,
		settings: s,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: eval.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.settings == nil {
		b.settings = settings.Defaults()
	}
	b.eval = eval.New(eval.WithMaxDepth(b.maxDepth))
	return b
}

// precision reads decimal_precision on every call so changes apply to the
// next evaluation.
func (b *base) precision() int {
	return b.settings.Current().DecimalPrecision
}

// record appends a committed calculation, if the panel has a history.
func (b *base) record(entry string) {
	if b.history == nil {
		return
	}
	b.history.Append(entry)
}
