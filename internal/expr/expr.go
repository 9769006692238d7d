// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines calculator expression types.
package expr

import (
	"strings"

	"nickandperla.net/calcpad/internal/token"
)

// Expr is the interface all expression types implement.
type Expr interface {
	// String returns a canonical, fully parenthesized rendering of the expression.
	String() string
	exprNode()
}

// Number is a numeric literal. Literal keeps the source text so integer
// literals can stay integers.
type Number struct {
	Literal string
}

func (n Number) String() string { return n.Literal }
func (Number) exprNode()        {}

// Ident is a reference to a bound name or constant.
type Ident struct {
	Name string
}

func (i Ident) String() string { return i.Name }
func (Ident) exprNode()        {}

// Unary is a prefix sign (+x, -x).
type Unary struct {
	Op      token.Token
	Operand Expr
}

func (u Unary) String() string { return "(" + u.Op.String() + u.Operand.String() + ")" }
func (Unary) exprNode()        {}

// Binary is an infix operation, including comparisons and exponentiation.
type Binary struct {
	Op          token.Token
	Left, Right Expr
}

func (b Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}
func (Binary) exprNode() {}

// Postfix is a postfix operator; the only one is factorial (x!).
type Postfix struct {
	Op      token.Token
	Operand Expr
}

func (p Postfix) String() string { return "(" + p.Operand.String() + p.Op.String() + ")" }
func (Postfix) exprNode()        {}

// Call is a function application, builtin or user defined.
type Call struct {
	Name string
	Args []Expr
}

func (c Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
func (Call) exprNode() {}

// Definition binds Name to a value (Params == nil) or to a function of Params.
type Definition struct {
	Name   string
	Params []string // nil for a value binding
	Body   Expr
}

// IsFunction returns true if the definition declares parameters, even zero of them.
func (d Definition) IsFunction() bool { return d.Params != nil }

func (d Definition) String() string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	if d.IsFunction() {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(d.Params, ", "))
		sb.WriteByte(')')
	}
	sb.WriteString(" = ")
	sb.WriteString(d.Body.String())
	return sb.String()
}
func (Definition) exprNode() {}
