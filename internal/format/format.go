// Package format renders evaluation results for display and history.
package format

import (
	"strconv"

	"nickandperla.net/calcpad/internal/eval"
)

// ErrorPrefix starts every rendered error.
const ErrorPrefix = "Error: "

// DefinedText is shown when a definition succeeds.
const DefinedText = "OK"

// Value renders v. Floats get exactly precision digits after the decimal
// point in fixed notation, rounded half to even on the exact binary value.
// Ints render without a decimal point.
func Value(v eval.Value, precision int) string {
	if precision < 0 {
		precision = 0
	}
	switch n := v.(type) {
	case eval.Int:
		return strconv.FormatInt(int64(n), 10)
	case eval.Float:
		return Float(float64(n), precision)
	case eval.Defined:
		return DefinedText
	case nil:
		return ""
	}
	return v.String()
}

// Float renders f in fixed notation. Negative zero, including values that
// round to zero, renders without a sign.
func Float(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(f, 'f', precision, 64)
	if len(s) > 1 && s[0] == '-' && isZero(s[1:]) {
		return s[1:]
	}
	return s
}

func isZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '.' {
			return false
		}
	}
	return true
}

// Error renders err as "Error: <message>". Evaluation errors use the fixed
// message of their kind; anything else is treated as Unclassified.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return ErrorPrefix + eval.AsError(err).Message()
}

// Result renders either the error or the value.
func Result(v eval.Value, err error, precision int) string {
	if err != nil {
		return Error(err)
	}
	return Value(v, precision)
}

// IsError reports whether text is a rendered error.
func IsError(text string) bool {
	return len(text) >= len(ErrorPrefix) && text[:len(ErrorPrefix)] == ErrorPrefix
}
