package parser

import (
	"errors"
	"strings"
	"testing"

	"nickandperla.net/calcpad/internal/expr"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "(-(2 ^ 2))"},
		{"2 ^ -1", "(2 ^ (-1))"},
		{"3!", "(3!)"},
		{"-3!", "(-(3!))"},
		{"2 * 3!", "(2 * (3!))"},
		{"1 + 2 < 4", "((1 + 2) < 4)"},
		{"a % b / c", "((a % b) / c)"},
		{"sqrt(x + 1)", "sqrt((x + 1))"},
		{"pow(2, 3)", "pow(2, 3)"},
		{"f()", "f()"},
	}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got := e.String(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.want, got)
		}
	}
}

func TestParseDefinitions(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		params   []string
		body     string
		function bool
	}{
		{"x = 3", "x", nil, "3", false},
		{"x = (y = 1)", "x", nil, "", false},
		{"area(r) = pi * r ^ 2", "area", []string{"r"}, "(pi * (r ^ 2))", true},
		{"def square(x): return x * x", "square", []string{"x"}, "(x * x)", true},
		{"def add(a, b): a + b", "add", []string{"a", "b"}, "(a + b)", true},
		{"one() = 1", "one", []string{}, "1", true},
	}
	for _, tt := range tests {
		e, err := Parse(tt.input)
		if tt.body == "" {
			// "=" inside parentheses is not a comparison operator
			if err == nil {
				t.Errorf("%q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		d, ok := e.(expr.Definition)
		if !ok {
			t.Errorf("%q: expected Definition, got %T", tt.input, e)
			continue
		}
		if d.Name != tt.name || d.IsFunction() != tt.function || d.Body.String() != tt.body {
			t.Errorf("%q: unexpected definition %s", tt.input, d)
		}
		if len(d.Params) != len(tt.params) {
			t.Errorf("%q: expected params %v, got %v", tt.input, tt.params, d.Params)
		}
	}
}

func TestComparisonIsNotDefinition(t *testing.T) {
	for _, input := range []string{"x == 3", "x != 3", "x <= 3", "x >= 3"} {
		e, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if _, ok := e.(expr.Binary); !ok {
			t.Errorf("%q: expected Binary, got %T", input, e)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(1",
		"1)",
		"1 2",
		"f(1,",
		"f(1 2)",
		"3 = x",
		"f(1) = 2",
		"f(a, a) = a",
		"def f(x) x",
		"def (x): x",
		"def = 2",
		"return 1",
		"x = ",
		"#",
	}
	for _, input := range tests {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("%q: expected syntax error", input)
			continue
		}
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: expected *SyntaxError, got %T", input, err)
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("1 + * 2")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Pos != 4 {
		t.Errorf("expected position 4, got %d", se.Pos)
	}
}

func TestNestingLimit(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}
	if _, err := Parse(nested(200)); err != nil {
		t.Fatalf("Parse of 200 levels failed: %v", err)
	}

	tests := []struct {
		input string
		msg   string
	}{
		{nested(MaxDepth + 10), "expression nested too deeply"},
		{strings.Repeat("-", MaxDepth+1) + "1", "expression nested too deeply"},
		{strings.Repeat("2^", MaxDepth+1) + "2", "expression nested too deeply"},
		{"1" + strings.Repeat("+1", MaxTokens), "expression too long"},
		{nested(3000000), "expression too long"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%.20q...: expected *SyntaxError, got %v", tt.input, err)
			continue
		}
		if se.Msg != tt.msg {
			t.Errorf("%.20q...: expected %q, got %q", tt.input, tt.msg, se.Msg)
		}
	}
}
