package panel

import (
	"fmt"
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/settings"
)

// State is the Standard panel's input state.
type State int

const (
	// Idle means keys extend the current display.
	Idle State = iota
	// JustEvaluated means the display holds a result: a digit starts a new
	// number, an operator continues from the result.
	JustEvaluated
)

func (s State) String() string {
	if s == JustEvaluated {
		return "JustEvaluated"
	}
	return "Idle"
}

// Keys lists the keys the Standard panel accepts.
var Keys = []string{
	"AC", "/", "*", "-",
	"7", "8", "9", "+",
	"4", "5", "6", "=",
	"1", "2", "3",
	"0", ".", "(", ")",
}

// Standard is a key-driven arithmetic calculator.
type Standard struct {
	base
	mu      sync.Mutex
	display string
	state   State
}

// NewStandard creates a Standard panel showing "0".
func NewStandard(h *history.Log, s settings.Provider, opts ...Option) *Standard {
	return &Standard{
		base:    newBase(h, s, opts),
		display: "0",
		state:   Idle,
	}
}

// Display returns the current display text.
func (p *Standard) Display() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}

// Press handles one key and returns the new display.
func (p *Standard) Press(key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case key == "=":
		p.evaluate()
	case strings.EqualFold(key, "AC"):
		p.display = "0"
		p.state = Idle
	case isDigitKey(key), isOperatorKey(key), key == ".", key == "(", key == ")":
		p.insert(key)
	default:
		return p.display, fmt.Errorf("unknown key %q", key)
	}
	return p.display, nil
}

// Type presses each rune of keys in turn. "AC" cannot be typed; use Press.
func (p *Standard) Type(keys string) (string, error) {
	display := p.Display()
	for _, r := range keys {
		if r == ' ' {
			continue
		}
		var err error
		if display, err = p.Press(string(r)); err != nil {
			return display, err
		}
	}
	return display, nil
}

// insert applies a non-command key (caller must hold lock).
func (p *Standard) insert(key string) {
	replace := format.IsError(p.display) ||
		(p.display == "0" && (isDigitKey(key) || key == "(")) ||
		(p.state == JustEvaluated && isDigitKey(key))
	if replace {
		p.display = ""
	}
	p.state = Idle
	p.display += key
}

// evaluate commits the display (caller must hold lock). An error display is
// left alone so it is never recorded twice.
func (p *Standard) evaluate() {
	if format.IsError(p.display) {
		return
	}
	input := p.display
	v, err := p.eval.EvaluateNumber(input)
	out := format.Result(v, err, p.precision())
	if err != nil {
		p.logger.Debug("standard evaluation failed", "input", input, "kind", eval.KindOf(err), "err", err)
	}
	p.display = out
	p.state = JustEvaluated
	p.record(input + " = " + out)
}

func isDigitKey(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

func isOperatorKey(key string) bool {
	switch key {
	case "+", "-", "*", "/":
		return true
	}
	return false
}
