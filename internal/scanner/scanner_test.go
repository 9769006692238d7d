package scanner

import (
	"strings"
	"testing"

	"nickandperla.net/calcpad/internal/token"
)

func scanAll(t *testing.T, input string) []Item {
	t.Helper()
	s := New(strings.NewReader(input))
	var items []Item
	for {
		item, err := s.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if item.Token == token.EOF {
			return items
		}
		items = append(items, *item)
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		input  string
		tokens []token.Token
		values []string
	}{
		{"1 + 2", []token.Token{token.NUMBER, token.PLUS, token.NUMBER}, []string{"1", "+", "2"}},
		{"3.25*x", []token.Token{token.NUMBER, token.STAR, token.IDENT}, []string{"3.25", "*", "x"}},
		{"2**3", []token.Token{token.NUMBER, token.CARET, token.NUMBER}, []string{"2", "**", "3"}},
		{"2^3", []token.Token{token.NUMBER, token.CARET, token.NUMBER}, nil},
		{"5!", []token.Token{token.NUMBER, token.BANG}, nil},
		{"a != b", []token.Token{token.IDENT, token.NE, token.IDENT}, nil},
		{"a == b", []token.Token{token.IDENT, token.EQ, token.IDENT}, nil},
		{"a = b", []token.Token{token.IDENT, token.ASSIGN, token.IDENT}, nil},
		{"a<=b>=c<d>e", []token.Token{token.IDENT, token.LE, token.IDENT, token.GE, token.IDENT, token.LT, token.IDENT, token.GT, token.IDENT}, nil},
		{"f(x, y): z", []token.Token{token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN, token.COLON, token.IDENT}, nil},
		{"6 × 2 ÷ 3 − 1", []token.Token{token.NUMBER, token.STAR, token.NUMBER, token.SLASH, token.NUMBER, token.MINUS, token.NUMBER}, nil},
		{"7 % 2", []token.Token{token.NUMBER, token.PERCENT, token.NUMBER}, nil},
		{"π_2", []token.Token{token.IDENT}, []string{"π_2"}},
		{"1e10", []token.Token{token.NUMBER}, []string{"1e10"}},
		{"1.5E-3", []token.Token{token.NUMBER}, []string{"1.5E-3"}},
		{"2e", []token.Token{token.NUMBER, token.IDENT}, []string{"2", "e"}},
		{"2e+", []token.Token{token.NUMBER, token.IDENT, token.PLUS}, []string{"2", "e", "+"}},
		{".5", []token.Token{token.NUMBER}, []string{".5"}},
		{".", []token.Token{token.ILLEGAL}, nil},
		{"$", []token.Token{token.ILLEGAL}, nil},
	}
	for _, tt := range tests {
		items := scanAll(t, tt.input)
		if len(items) != len(tt.tokens) {
			t.Errorf("%q: expected %d tokens, got %d (%v)", tt.input, len(tt.tokens), len(items), items)
			continue
		}
		for i, item := range items {
			if item.Token != tt.tokens[i] {
				t.Errorf("%q: token %d: expected %v, got %v", tt.input, i, tt.tokens[i], item.Token)
			}
			if tt.values != nil && item.Value != tt.values[i] {
				t.Errorf("%q: value %d: expected %q, got %q", tt.input, i, tt.values[i], item.Value)
			}
		}
	}
}

func TestPositions(t *testing.T) {
	items := scanAll(t, "  π + 12")
	want := []int{2, 4, 6}
	for i, item := range items {
		if item.Pos != want[i] {
			t.Errorf("item %d (%s): expected pos %d, got %d", i, item.Value, want[i], item.Pos)
		}
	}
}

func TestEOFRepeats(t *testing.T) {
	s := New(strings.NewReader("1+"))
	want := []token.Token{token.NUMBER, token.PLUS, token.EOF, token.EOF}
	for i, w := range want {
		n, err := s.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if n.Token != w {
			t.Errorf("item %d: expected %v, got %v", i, w, n.Token)
		}
	}
}
