package eval

import (
	"math"
)

// BuiltinFunc is the signature for builtin functions. Arity is checked by
// the caller, so args always has the declared length.
type BuiltinFunc func(args []Number) (Number, error)

// Builtin is an entry of the fixed function table.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

// MaxFactorial is the largest argument whose factorial fits in a float64.
const MaxFactorial = 170

// maxIntFactorial is the largest argument whose factorial fits in an int64.
const maxIntFactorial = 20

// getBuiltin returns the builtin function for the given name, or nil if not found.
func getBuiltin(name string) *Builtin {
	switch name {
	case "sin":
		return &Builtin{name, 1, trig(math.Sin)}
	case "cos":
		return &Builtin{name, 1, trig(math.Cos)}
	case "tan":
		return &Builtin{name, 1, trig(math.Tan)}
	case "asin":
		return &Builtin{name, 1, inverseTrig(math.Asin, true)}
	case "acos":
		return &Builtin{name, 1, inverseTrig(math.Acos, true)}
	case "atan":
		return &Builtin{name, 1, inverseTrig(math.Atan, false)}
	case "sqrt":
		return &Builtin{name, 1, builtinSqrt}
	case "ln":
		return &Builtin{name, 1, logarithm("ln", math.Log)}
	case "log":
		return &Builtin{name, 1, logarithm("log", math.Log10)}
	case "abs":
		return &Builtin{name, 1, builtinAbs}
	case "fact", "factorial":
		return &Builtin{name, 1, builtinFactorial}
	case "pow":
		return &Builtin{name, 2, builtinPow}
	case "round":
		return &Builtin{name, 1, rounding(math.RoundToEven)}
	case "floor":
		return &Builtin{name, 1, rounding(math.Floor)}
	case "ceil":
		return &Builtin{name, 1, rounding(math.Ceil)}
	}
	return nil
}

// getConstant returns a named constant.
func getConstant(name string) (Number, bool) {
	switch name {
	case "pi", "π":
		return Float(math.Pi), true
	case "e":
		return Float(math.E), true
	}
	return nil, false
}

// IsReserved returns true if name is a builtin function or constant and so
// cannot be rebound by a definition.
func IsReserved(name string) bool {
	if getBuiltin(name) != nil {
		return true
	}
	_, ok := getConstant(name)
	return ok
}

// trig wraps a radian trig function so it takes degrees.
func trig(f func(float64) float64) BuiltinFunc {
	return func(args []Number) (Number, error) {
		deg := args[0].Float64()
		return Float(f(deg * math.Pi / 180)), nil
	}
}

// inverseTrig wraps an inverse trig function so it returns degrees.
// bounded functions reject arguments outside [-1, 1].
func inverseTrig(f func(float64) float64, bounded bool) BuiltinFunc {
	return func(args []Number) (Number, error) {
		x := args[0].Float64()
		if bounded && (x < -1 || x > 1) {
			return nil, newError(DomainError, "argument %s outside [-1, 1]", args[0])
		}
		return Float(f(x) * 180 / math.Pi), nil
	}
}

func builtinSqrt(args []Number) (Number, error) {
	x := args[0].Float64()
	if x < 0 {
		return nil, newError(DomainError, "sqrt of negative number %s", args[0])
	}
	return Float(math.Sqrt(x)), nil
}

func logarithm(name string, f func(float64) float64) BuiltinFunc {
	return func(args []Number) (Number, error) {
		x := args[0].Float64()
		if x <= 0 {
			return nil, newError(DomainError, "%s of non-positive number %s", name, args[0])
		}
		return Float(f(x)), nil
	}
}

func builtinAbs(args []Number) (Number, error) {
	switch n := args[0].(type) {
	case Int:
		if n == math.MinInt64 {
			return Float(-float64(n)), nil
		}
		if n < 0 {
			return -n, nil
		}
		return n, nil
	default:
		return Float(math.Abs(n.Float64())), nil
	}
}

// builtinFactorial accepts whole numbers only. Results up to 20! are exact
// integers; up to 170! they are floats; beyond that they overflow float64.
func builtinFactorial(args []Number) (Number, error) {
	n := args[0]
	if !isIntegral(n) {
		return nil, newError(DomainError, "factorial of non-integer %s", n)
	}
	f := n.Float64()
	if f < 0 {
		return nil, newError(DomainError, "factorial of negative number %s", n)
	}
	if f > MaxFactorial {
		return nil, newError(DomainError, "factorial argument %s exceeds %d", n, MaxFactorial)
	}
	k := int(f)
	if k <= maxIntFactorial {
		result := int64(1)
		for i := int64(2); i <= int64(k); i++ {
			result *= i
		}
		return Int(result), nil
	}
	result := 1.0
	for i := 2; i <= k; i++ {
		result *= float64(i)
	}
	return Float(result), nil
}

func builtinPow(args []Number) (Number, error) {
	return power(args[0], args[1])
}

// power computes base^exp. 0^0 is 1. A negative base with a non-integer
// exponent is a domain error rather than NaN. Int^Int with a non-negative
// exponent stays Int while it fits in int64.
func power(base, exp Number) (Number, error) {
	b, x := base.Float64(), exp.Float64()
	if b < 0 && !isIntegral(exp) {
		return nil, newError(DomainError, "negative base %s with non-integer exponent %s", base, exp)
	}
	if b == 0 && x < 0 {
		return nil, newError(DivisionByZero, "zero raised to negative power %s", exp)
	}
	bi, bok := base.(Int)
	xi, xok := exp.(Int)
	if bok && xok && xi >= 0 {
		if r, ok := intPow(int64(bi), int64(xi)); ok {
			return Int(r), nil
		}
	}
	return checkFinite(Float(math.Pow(b, x)))
}

// intPow computes b^x by squaring, reporting false on int64 overflow.
func intPow(b, x int64) (int64, bool) {
	result := int64(1)
	for x > 0 {
		if x&1 == 1 {
			r, ok := mulInt(result, b)
			if !ok {
				return 0, false
			}
			result = r
		}
		x >>= 1
		if x > 0 {
			sq, ok := mulInt(b, b)
			if !ok {
				return 0, false
			}
			b = sq
		}
	}
	return result, true
}

func rounding(f func(float64) float64) BuiltinFunc {
	return func(args []Number) (Number, error) {
		if n, ok := args[0].(Int); ok {
			return n, nil
		}
		return intFromFloat(f(args[0].Float64())), nil
	}
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (a >= 0 && b < 0 && r < 0) || (a < 0 && b > 0 && r >= 0) {
		return 0, false
	}
	return r, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return r, true
}
