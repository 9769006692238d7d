package eval

import (
	"math"
	"strconv"
	"strings"
)

// Value is the result of a successful evaluation: Int, Float or Defined.
type Value interface {
	String() string
	isValue()
}

// Number is a numeric Value.
type Number interface {
	Value
	Float64() float64
}

// Int is an exact integer result.
type Int int64

func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int) Float64() float64 { return float64(i) }
func (Int) isValue()           {}

// Float is a floating-point result.
type Float float64

func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Float64() float64 { return float64(f) }
func (Float) isValue()           {}

// Defined confirms that a definition bound Name.
type Defined struct {
	Name   string
	Params []string // nil for a value binding
}

func (d Defined) String() string {
	if d.Params == nil {
		return d.Name
	}
	return d.Name + "(" + strings.Join(d.Params, ", ") + ")"
}
func (Defined) isValue() {}

// isIntegral reports whether n holds a whole number.
func isIntegral(n Number) bool {
	if _, ok := n.(Int); ok {
		return true
	}
	f := n.Float64()
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// intFromFloat returns f as an Int when it is whole and fits in int64,
// otherwise as a Float.
func intFromFloat(f float64) Number {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// checkFinite rejects NaN and infinite results.
func checkFinite(n Number) (Number, error) {
	f, ok := n.(Float)
	if !ok {
		return n, nil
	}
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, newError(Unclassified, "result out of range")
	}
	return n, nil
}
