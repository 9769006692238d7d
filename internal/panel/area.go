package panel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/settings"
)

// Shape is a plane figure the Area panel can measure.
type Shape int

const (
	Circle Shape = iota
	Triangle
	Square
	Rectangle
)

// Shapes lists every shape in display order.
var Shapes = []Shape{Circle, Triangle, Square, Rectangle}

func (s Shape) String() string {
	switch s {
	case Circle:
		return "Circle"
	case Triangle:
		return "Triangle"
	case Square:
		return "Square"
	case Rectangle:
		return "Rectangle"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Dimensions names the inputs the shape needs, in order.
func (s Shape) Dimensions() []string {
	switch s {
	case Circle:
		return []string{"radius"}
	case Triangle:
		return []string{"base", "height"}
	case Square:
		return []string{"side"}
	case Rectangle:
		return []string{"length", "width"}
	}
	return nil
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(name string) (Shape, bool) {
	for _, s := range Shapes {
		if strings.EqualFold(strings.TrimSpace(name), s.String()) {
			return s, true
		}
	}
	return Circle, false
}

const (
	areaPrefix     = "Area: "
	areaEmpty      = "Area: -"
	areaIncomplete = "Area: - (incomplete)"
)

// ErrIncomplete reports missing or non-numeric dimensions.
var ErrIncomplete = errors.New("incomplete input")

// Area computes the area of a selected shape from raw text inputs.
type Area struct {
	base
	mu      sync.Mutex
	shape   Shape
	inputs  []string
	display string
}

// NewArea creates an Area panel with Circle selected.
func NewArea(h *history.Log, s settings.Provider, opts ...Option) *Area {
	return &Area{
		base:    newBase(h, s, opts),
		shape:   Circle,
		display: areaEmpty,
	}
}

// Shape returns the selected shape.
func (p *Area) Shape() Shape {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shape
}

// Display returns the result line, e.g. "Area: 28.27".
func (p *Area) Display() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}

// Select switches shape and clears the inputs.
func (p *Area) Select(shape Shape) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shape = shape
	p.inputs = nil
	p.display = areaIncomplete
}

// Calculate selects shape, stores the raw inputs and recomputes the
// display. It is called on every input change and never records history.
func (p *Area) Calculate(shape Shape, inputs ...string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calculate(shape, inputs)
}

// CalculateAndSave calculates and records the result as one step, so
// concurrent callers never save each other's inputs.
func (p *Area) CalculateAndSave(shape Shape, inputs ...string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calculate(shape, inputs)
	return p.save()
}

// calculate is Calculate without locking (caller must hold lock).
func (p *Area) calculate(shape Shape, inputs []string) string {
	p.shape = shape
	p.inputs = append([]string(nil), inputs...)

	a, err := Compute(shape, inputs...)
	switch {
	case errors.Is(err, ErrIncomplete):
		p.display = areaIncomplete
	case err != nil:
		p.display = format.Error(err)
	default:
		p.display = areaPrefix + format.Float(a, p.precision())
	}
	return p.display
}

// Save appends the current shape, inputs and display to history, e.g.
// "Circle radius=3 -> Area: 28.27".
func (p *Area) Save() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save()
}

func (p *Area) save() string {
	entry := describe(p.shape, p.inputs) + " -> " + p.display
	p.record(entry)
	return entry
}

func describe(shape Shape, inputs []string) string {
	in := func(i int) string {
		if i < len(inputs) {
			return strings.TrimSpace(inputs[i])
		}
		return ""
	}
	switch shape {
	case Circle:
		return "Circle radius=" + in(0)
	case Triangle:
		return "Triangle base=" + in(0) + ", height=" + in(1)
	case Square:
		return "Square side=" + in(0)
	case Rectangle:
		return "Rectangle L=" + in(0) + ", W=" + in(1)
	}
	return shape.String()
}

// Compute returns the area for shape. Missing or non-numeric inputs yield
// ErrIncomplete; a negative dimension is a domain error.
func Compute(shape Shape, inputs ...string) (float64, error) {
	dims := shape.Dimensions()
	if dims == nil {
		return 0, eval.Errorf(eval.InvalidExpression, "unknown shape %d", int(shape))
	}
	if len(inputs) < len(dims) {
		return 0, ErrIncomplete
	}

	vals := make([]float64, len(dims))
	for i, name := range dims {
		v, err := strconv.ParseFloat(strings.TrimSpace(inputs[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrIncomplete
		}
		if v < 0 {
			return 0, eval.Errorf(eval.DomainError, "negative %s", name)
		}
		vals[i] = v
	}

	var a float64
	switch shape {
	case Circle:
		a = math.Pi * vals[0] * vals[0]
	case Triangle:
		a = 0.5 * vals[0] * vals[1]
	case Square:
		a = vals[0] * vals[0]
	case Rectangle:
		a = vals[0] * vals[1]
	}
	if math.IsInf(a, 0) {
		return 0, eval.Errorf(eval.Unclassified, "result out of range")
	}
	return a, nil
}
