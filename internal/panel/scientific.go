package panel

import (
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/settings"
)

// Functions lists the one-touch functions of the Scientific panel.
var Functions = []string{"sin", "cos", "tan", "sqrt", "ln", "log", "!", "x^y"}

// Scientific evaluates expressions and applies functions to the current input.
type Scientific struct {
	base
	mu      sync.Mutex
	display string
}

// NewScientific creates a Scientific panel with an empty display.
func NewScientific(h *history.Log, s settings.Provider, opts ...Option) *Scientific {
	return &Scientific{base: newBase(h, s, opts)}
}

// Display returns the current display text.
func (p *Scientific) Display() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}

// Evaluate evaluates input, displays and records "<input> = <out>". Blank
// input is ignored.
func (p *Scientific) Evaluate(input string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	input = strings.TrimSpace(input)
	if input == "" {
		return p.display
	}
	v, err := p.eval.EvaluateNumber(input)
	p.commit(input, input, v, err)
	return p.display
}

// Apply applies fn to the value of input and records "<fn>(<input>) = <out>".
// x^y expects input as "base,exponent".
func (p *Scientific) Apply(fn, input string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	input = strings.TrimSpace(input)
	if input == "" {
		return p.display
	}
	v, err := p.apply(fn, input)
	p.commit(fn+"("+input+")", input, v, err)
	return p.display
}

func (p *Scientific) apply(fn, input string) (eval.Number, error) {
	if fn == "x^y" {
		xs, ys, ok := strings.Cut(input, ",")
		if !ok {
			return nil, eval.Errorf(eval.InvalidExpression, "x^y takes base,exponent")
		}
		b, err := p.eval.EvaluateNumber(xs)
		if err != nil {
			return nil, err
		}
		e, err := p.eval.EvaluateNumber(ys)
		if err != nil {
			return nil, err
		}
		return p.eval.Power(b, e)
	}

	name := fn
	switch fn {
	case "!":
		name = "fact"
	case "sin", "cos", "tan", "sqrt", "ln", "log":
	default:
		return nil, eval.Errorf(eval.UndefinedReference, "%s", fn)
	}
	x, err := p.eval.EvaluateNumber(input)
	if err != nil {
		return nil, err
	}
	return p.eval.Apply(name, x)
}

// commit displays the result and records it (caller must hold lock).
func (p *Scientific) commit(label, input string, v eval.Number, err error) {
	var out string
	if err != nil {
		p.logger.Debug("scientific evaluation failed", "input", input, "kind", eval.KindOf(err), "err", err)
		out = format.Error(err)
	} else {
		out = format.Value(v, p.precision())
	}
	p.display = out
	p.record(label + " = " + out)
}
