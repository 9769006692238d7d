// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming Unicode-aware lexer for calculator input.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/calcpad/internal/token"
)

// Scanner tokenizes calculator input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	pos    int // Rune offset of the next unread rune (0-based)
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   int // Rune offset where this token started
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if err := s.skipWhitespace(); err != nil {
		return nil, err
	}

	start := s.pos
	r, err := s.read()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case isDigit(r) || r == '.':
		s.unread()
		return s.scanNumber()
	case isIdentStart(r):
		s.unread()
		return s.scanIdent()
	}

	single := func(t token.Token) (*Item, error) {
		return &Item{Token: t, Value: string(r), Pos: start}, nil
	}
	// pair returns t2 if the next rune is next, otherwise t1.
	pair := func(next rune, t1, t2 token.Token) (*Item, error) {
		ok, err := s.accept(next)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Item{Token: t2, Value: string(r) + string(next), Pos: start}, nil
		}
		return single(t1)
	}

	switch r {
	case '+':
		return single(token.PLUS)
	case '-', '−':
		return single(token.MINUS)
	case '*':
		return pair('*', token.STAR, token.CARET)
	case '×':
		return single(token.STAR)
	case '/', '÷':
		return single(token.SLASH)
	case '%':
		return single(token.PERCENT)
	case '^':
		return single(token.CARET)
	case '!':
		return pair('=', token.BANG, token.NE)
	case '=':
		return pair('=', token.ASSIGN, token.EQ)
	case '<':
		return pair('=', token.LT, token.LE)
	case '>':
		return pair('=', token.GT, token.GE)
	case '(':
		return single(token.LPAREN)
	case ')':
		return single(token.RPAREN)
	case ',':
		return single(token.COMMA)
	case ':':
		return single(token.COLON)
	}
	return single(token.ILLEGAL)
}

// scanNumber scans a decimal literal with optional fraction and exponent.
func (s *Scanner) scanNumber() (*Item, error) {
	s.buf.Reset()
	start := s.pos

	digits := func() error {
		for {
			r, err := s.read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if !isDigit(r) {
				s.unread()
				return nil
			}
			s.buf.WriteRune(r)
		}
	}

	if err := digits(); err != nil {
		return nil, err
	}
	ok, err := s.accept('.')
	if err != nil {
		return nil, err
	}
	if ok {
		s.buf.WriteRune('.')
		if err := digits(); err != nil {
			return nil, err
		}
	}

	// Exponent only when followed by digits, so "2e" is not swallowed.
	if b, _ := s.reader.Peek(3); len(b) >= 2 && (b[0] == 'e' || b[0] == 'E') {
		n := 1
		if b[1] == '+' || b[1] == '-' {
			n = 2
		}
		if len(b) > n && isDigit(rune(b[n])) {
			for i := 0; i < n; i++ {
				r, _ := s.read()
				s.buf.WriteRune(r)
			}
			if err := digits(); err != nil {
				return nil, err
			}
		}
	}

	value := s.buf.String()
	if value == "." {
		return &Item{Token: token.ILLEGAL, Value: value, Pos: start}, nil
	}
	return &Item{Token: token.NUMBER, Value: value, Pos: start}, nil
}

// scanIdent scans an identifier (letters, digits, underscores).
func (s *Scanner) scanIdent() (*Item, error) {
	s.buf.Reset()
	start := s.pos
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isIdentChar(r) {
			s.unread()
			break
		}
		s.buf.WriteRune(r)
	}
	return &Item{Token: token.IDENT, Value: s.buf.String(), Pos: start}, nil
}

// skipWhitespace consumes and discards whitespace.
func (s *Scanner) skipWhitespace() error {
	for {
		r, err := s.read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.unread()
			return nil
		}
	}
}

// accept consumes the next rune if it equals want.
func (s *Scanner) accept(want rune) (bool, error) {
	r, err := s.read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if r != want {
		s.unread()
		return false, nil
	}
	return true, nil
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.pos++
	return r, nil
}

func (s *Scanner) unread() {
	if s.reader.UnreadRune() == nil {
		s.pos--
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentChar returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
