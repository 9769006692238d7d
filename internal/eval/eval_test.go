package eval

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"1 + 2", Int(3)},
		{"7 / 2", Float(3.5)},
		{"6 / 3", Float(2)},
		{"2 * (3 + 4)", Int(14)},
		{"2 ^ 10", Int(1024)},
		{"2 ** 3", Int(8)},
		{"2^3^2", Int(512)},
		{"-2^2", Int(-4)},
		{"7 % 3", Int(1)},
		{"-7 % 3", Int(2)},
		{"7.5 % 2", Float(1.5)},
		{"5!", Int(120)},
		{"0!", Int(1)},
		{"3!!", Int(720)},
		{"0^0", Int(1)},
		{"2^-1", Float(0.5)},
		{"1e3", Float(1000)},
		{".5 + .5", Float(1)},
		{"3 > 2", Int(1)},
		{"3 == 2", Int(0)},
		{"2 <= 2.0", Int(1)},
		{"abs(-5)", Int(5)},
		{"round(2.5)", Int(2)},
		{"floor(-1.5)", Int(-2)},
		{"ceil(1.2)", Int(2)},
		{"pow(3, 2)", Int(9)},
		{"sqrt(16)", Float(4)},
		{"sin(90)", Float(1)},
		{"atan(1)", Float(45)},
		{"ln(1)", Float(0)},
		{"3 × 4 ÷ 2", Float(6)},
		{"9223372036854775807 + 1", Float(9223372036854775808)},
	}
	for _, tt := range tests {
		e := New()
		got, err := e.Evaluate(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if !sameValue(got, tt.want) {
			t.Errorf("%q: expected %#v, got %#v", tt.input, tt.want, got)
		}
	}
}

// sameValue compares type exactly and floats to within rounding error.
func sameValue(got, want Value) bool {
	switch w := want.(type) {
	case Float:
		g, ok := got.(Float)
		return ok && math.Abs(float64(g)-float64(w)) < 1e-9
	default:
		return got == want
	}
}

func TestConstants(t *testing.T) {
	e := New()
	for _, name := range []string{"pi", "π"} {
		v, err := e.Evaluate(name)
		if err != nil {
			t.Fatalf("Evaluate(%s) failed: %v", name, err)
		}
		if v != Float(math.Pi) {
			t.Errorf("expected pi, got %v", v)
		}
	}
	v, err := e.Evaluate("ln(e)")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !sameValue(v, Float(1)) {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"1/0", DivisionByZero},
		{"1/(2-2)", DivisionByZero},
		{"5 % 0", DivisionByZero},
		{"0^-1", DivisionByZero},
		{"sqrt(-4)", DomainError},
		{"ln(0)", DomainError},
		{"log(-1)", DomainError},
		{"asin(2)", DomainError},
		{"(-8)^(1/3)", DomainError},
		{"(-3)!", DomainError},
		{"2.5!", DomainError},
		{"171!", DomainError},
		{"foo + 1", UndefinedReference},
		{"nothing(1)", UndefinedReference},
		{"", InvalidExpression},
		{"   ", InvalidExpression},
		{"1 +", InvalidExpression},
		{"2 3", InvalidExpression},
		{"(1 + 2", InvalidExpression},
		{"1 + 2)", InvalidExpression},
		{"@", InvalidExpression},
		{".", InvalidExpression},
		{"sin", InvalidExpression},
		{"sin(1, 2)", InvalidExpression},
		{"pow(1)", InvalidExpression},
		{"import os", InvalidExpression},
		{"__import__('os')", InvalidExpression},
		{"10^400", Unclassified},
		{"1e999", Unclassified},
	}
	for _, tt := range tests {
		e := New()
		v, err := e.Evaluate(tt.input)
		if err == nil {
			t.Errorf("%q: expected %v error, got %v", tt.input, tt.kind, v)
			continue
		}
		var ee *Error
		if !errors.As(err, &ee) {
			t.Errorf("%q: expected *Error, got %T", tt.input, err)
			continue
		}
		if ee.Kind != tt.kind {
			t.Errorf("%q: expected %v, got %v (%v)", tt.input, tt.kind, ee.Kind, err)
		}
	}
}

func TestFactorialBounds(t *testing.T) {
	e := New()

	v, err := e.Evaluate("20!")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v != Int(2432902008176640000) {
		t.Errorf("expected exact 20!, got %#v", v)
	}

	v, err = e.Evaluate("21!")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if _, ok := v.(Float); !ok {
		t.Errorf("expected Float for 21!, got %#v", v)
	}

	v, err = e.Evaluate("170!")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if f := v.(Number).Float64(); math.IsInf(f, 0) || f < 7e306 {
		t.Errorf("expected finite 170!, got %v", f)
	}
}

func TestValueBinding(t *testing.T) {
	e := New()

	v, err := e.Evaluate("x = 3")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	d, ok := v.(Defined)
	if !ok || d.Name != "x" || d.Params != nil {
		t.Fatalf("expected Defined x, got %#v", v)
	}

	v, err = e.Evaluate("x * 2")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v != Int(6) {
		t.Errorf("expected 6, got %v", v)
	}

	// rebinding replaces
	if _, err := e.Evaluate("x = x + 1"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, _ := e.Evaluate("x"); v != Int(4) {
		t.Errorf("expected 4, got %v", v)
	}

	// failed definitions bind nothing
	if _, err := e.Evaluate("y = 1/0"); KindOf(err) != DivisionByZero {
		t.Errorf("expected DivisionByZero, got %v", err)
	}
	if e.Namespace().Has("y") {
		t.Error("y should not be bound")
	}
}

func TestFunctionDefinition(t *testing.T) {
	e := New()

	for _, def := range []string{
		"def square(x): return x*x",
		"def cube(x): x^3",
		"add(a, b) = a + b",
		"two() = 2",
	} {
		v, err := e.Evaluate(def)
		if err != nil {
			t.Fatalf("Evaluate(%q) failed: %v", def, err)
		}
		if d, ok := v.(Defined); !ok || d.Params == nil {
			t.Fatalf("expected function definition, got %#v", v)
		}
	}

	tests := []struct {
		input string
		want  Value
	}{
		{"square(5)", Int(25)},
		{"cube(2)", Int(8)},
		{"add(1, 2)", Int(3)},
		{"add(square(2), cube(2))", Int(12)},
		{"two() * 3", Int(6)},
	}
	for _, tt := range tests {
		got, err := e.Evaluate(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.want, got)
		}
	}

	// parameters shadow bindings only inside the call
	if _, err := e.Evaluate("x = 10"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, _ := e.Evaluate("square(3) + x"); v != Int(19) {
		t.Errorf("expected 19, got %v", v)
	}

	if _, err := e.Evaluate("add(1)"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression for arity, got %v", err)
	}
	if _, err := e.Evaluate("square"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression for bare function, got %v", err)
	}
	if _, err := e.Evaluate("x(1)"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression for calling a value, got %v", err)
	}
	if _, err := e.Evaluate("def f(a, a): a"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression for duplicate parameter, got %v", err)
	}
}

func TestLateBinding(t *testing.T) {
	e := New()
	if _, err := e.Evaluate("f(x) = x + k"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if _, err := e.Evaluate("f(1)"); KindOf(err) != UndefinedReference {
		t.Errorf("expected UndefinedReference before k is bound, got %v", err)
	}
	if _, err := e.Evaluate("k = 5"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, _ := e.Evaluate("f(1)"); v != Int(6) {
		t.Errorf("expected 6, got %v", v)
	}
}

func TestBuiltinsCannotBeRedefined(t *testing.T) {
	e := New()
	for _, def := range []string{"sin = 3", "pi = 3", "fact(n) = n", "def sqrt(x): x", "f(e) = e"} {
		_, err := e.Evaluate(def)
		if KindOf(err) != Unclassified {
			t.Errorf("%q: expected Unclassified, got %v", def, err)
			continue
		}
		if !strings.Contains(AsError(err).Message(), "builtin") {
			t.Errorf("%q: unexpected message %q", def, AsError(err).Message())
		}
	}
	if v, _ := e.Evaluate("sqrt(9)"); v != Float(3) {
		t.Errorf("expected sqrt intact, got %v", v)
	}
}

func TestRecursionDepth(t *testing.T) {
	e := New(WithMaxDepth(16))
	if _, err := e.Evaluate("loop(n) = loop(n + 1)"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	_, err := e.Evaluate("loop(1)")
	if KindOf(err) != Unclassified {
		t.Fatalf("expected Unclassified, got %v", err)
	}
	if AsError(err).Message() != "maximum recursion depth exceeded" {
		t.Errorf("unexpected message %q", AsError(err).Message())
	}

	// depth is restored after the failure
	if _, err := e.Evaluate("g(n) = n * 2"); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if v, _ := e.Evaluate("g(g(g(1)))"); v != Int(8) {
		t.Errorf("expected 8, got %v", v)
	}
}

func TestDeeplyNestedInput(t *testing.T) {
	e := New()
	for _, input := range []string{
		strings.Repeat("(", 3000000) + "1" + strings.Repeat(")", 3000000),
		strings.Repeat("(", 1000) + "1" + strings.Repeat(")", 1000),
	} {
		if _, err := e.Evaluate(input); KindOf(err) != InvalidExpression {
			t.Errorf("expected InvalidExpression, got %v", err)
		}
	}
	if v, err := e.Evaluate("((((2))))^((3))"); err != nil || v != Int(8) {
		t.Errorf("expected 8, got %v (%v)", v, err)
	}
}

func TestEvaluateNumberRejectsDefinitions(t *testing.T) {
	e := New()
	if _, err := e.EvaluateNumber("x = 1"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression, got %v", err)
	}
	if e.Namespace().Has("x") {
		t.Error("x should not be bound")
	}
	n, err := e.EvaluateNumber("1 + 1")
	if err != nil {
		t.Fatalf("EvaluateNumber failed: %v", err)
	}
	if n != Int(2) {
		t.Errorf("expected 2, got %v", n)
	}
}

func TestNamespaceDelete(t *testing.T) {
	e := New()
	for _, line := range []string{"rate = 0.5", "half(x) = x * rate"} {
		if _, err := e.Evaluate(line); err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
	}
	ns := e.Namespace()
	if got := ns.Names(); len(got) != 2 || got[0] != "half" || got[1] != "rate" {
		t.Errorf("unexpected names %v", got)
	}

	ns.Delete("rate")
	if ns.Has("rate") {
		t.Error("rate should be gone")
	}
	if _, err := e.Evaluate("half(4)"); KindOf(err) != UndefinedReference {
		t.Errorf("expected UndefinedReference after delete, got %v", err)
	}
}

func TestApplyAndPower(t *testing.T) {
	e := New()

	v, err := e.Apply("sqrt", Int(16))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v != Float(4) {
		t.Errorf("expected 4, got %v", v)
	}
	if _, err := e.Apply("fact", Int(-1)); KindOf(err) != DomainError {
		t.Errorf("expected DomainError, got %v", err)
	}
	if _, err := e.Apply("cbrt", Int(8)); KindOf(err) != UndefinedReference {
		t.Errorf("expected UndefinedReference, got %v", err)
	}
	if _, err := e.Apply("sin"); KindOf(err) != InvalidExpression {
		t.Errorf("expected InvalidExpression for arity, got %v", err)
	}

	p, err := e.Power(Int(2), Int(62))
	if err != nil {
		t.Fatalf("Power failed: %v", err)
	}
	if p != Int(1<<62) {
		t.Errorf("expected 2^62, got %v", p)
	}
	p, err = e.Power(Int(2), Int(64))
	if err != nil {
		t.Fatalf("Power failed: %v", err)
	}
	if _, ok := p.(Float); !ok {
		t.Errorf("expected overflow to Float, got %#v", p)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{Errorf(DivisionByZero, "1 / 0"), "Divide by zero"},
		{Errorf(InvalidExpression, "unexpected )"), "invalid expression"},
		{Errorf(DomainError, "sqrt of negative number -4"), "math domain error"},
		{Errorf(UndefinedReference, "foo"), "undefined name"},
		{Errorf(Unclassified, "result out of range"), "result out of range"},
	}
	for _, tt := range tests {
		if got := tt.err.Message(); got != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.err.Kind, tt.want, got)
		}
	}

	plain := errors.New("disk on fire")
	if KindOf(plain) != Unclassified {
		t.Errorf("expected Unclassified for plain error")
	}
	if AsError(plain).Message() != "disk on fire" {
		t.Errorf("expected description kept, got %q", AsError(plain).Message())
	}
	if !errors.Is(AsError(plain), plain) {
		t.Error("AsError should wrap the original")
	}
}
