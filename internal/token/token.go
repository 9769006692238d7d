// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token types.
package token

// Token represents a calculator token type.
type Token int

const (
	EOF Token = iota
	ILLEGAL

	NUMBER // 3, 3.14, 1e-3
	IDENT  // sin, x, square

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^ or **
	BANG    // !
	ASSIGN  // =

	// Comparisons
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// Delimiters
	LPAREN // (
	RPAREN // )
	COMMA  // ,
	COLON  // :
)

// Keywords recognized by the parser. They scan as IDENT.
const (
	KeywordDef    = "def"
	KeywordReturn = "return"
)

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NUMBER:
		return "NUMBER"
	case IDENT:
		return "IDENT"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case CARET:
		return "^"
	case BANG:
		return "!"
	case ASSIGN:
		return "="
	case EQ:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case COMMA:
		return ","
	case COLON:
		return ":"
	}
	return "UNKNOWN"
}

// IsComparison returns true if the token compares two operands.
func (t Token) IsComparison() bool {
	switch t {
	case EQ, NE, LT, LE, GT, GE:
		return true
	}
	return false
}

// IsAdditive returns true for + and -.
func (t Token) IsAdditive() bool {
	return t == PLUS || t == MINUS
}

// IsMultiplicative returns true for *, / and %.
func (t Token) IsMultiplicative() bool {
	switch t {
	case STAR, SLASH, PERCENT:
		return true
	}
	return false
}
