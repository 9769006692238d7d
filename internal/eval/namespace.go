// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the calculator expression evaluator.
package eval

import (
	"sort"
	"sync"

	"nickandperla.net/calcpad/internal/expr"
)

// Function is a user-defined function.
type Function struct {
	Name   string
	Params []string
	Body   expr.Expr
}

// Binding is what a name is bound to: exactly one of Value or Func is set.
type Binding struct {
	Value Number
	Func  *Function
}

// Namespace is a thread-safe set of bindings for one calculator session.
type Namespace struct {
	mu    sync.RWMutex
	store map[string]Binding
}

// NewNamespace creates a new empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		store: make(map[string]Binding),
	}
}

// Get retrieves a binding by name.
func (n *Namespace) Get(name string) (Binding, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.store[name]
	return b, ok
}

// Set stores a binding by name.
func (n *Namespace) Set(name string, b Binding) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store[name] = b
}

// Has returns true if the name exists in the namespace.
func (n *Namespace) Has(name string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.store[name]
	return ok
}

// Delete removes a binding from the namespace.
func (n *Namespace) Delete(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.store, name)
}

// Names returns the bound names in sorted order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.store))
	for k := range n.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
