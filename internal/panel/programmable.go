package panel

import (
	"strings"
	"sync"

	"nickandperla.net/calcpad/internal/eval"
	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/history"
	"nickandperla.net/calcpad/internal/settings"
)

// Banner is shown at the top of a fresh Programmable transcript.
var Banner = []string{
	"Programmable Calculator",
	"Type expressions or define functions.",
	"Example: def square(x): return x*x",
	"Then use: square(5)",
}

// Programmable evaluates free-form lines, including definitions, against
// bindings private to the panel.
type Programmable struct {
	base
	mu         sync.Mutex
	transcript []string
}

// NewProgrammable creates a Programmable panel with the banner shown.
func NewProgrammable(h *history.Log, s settings.Provider, opts ...Option) *Programmable {
	return &Programmable{
		base:       newBase(h, s, opts),
		transcript: append([]string(nil), Banner...),
	}
}

// Evaluate runs one line and returns the transcript lines it produced:
// the echoed input and the result ("OK" for a definition). The line is
// recorded in history as "<line> = <out>". Blank input yields nothing.
func (p *Programmable) Evaluate(line string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	v, err := p.eval.Evaluate(line)
	if err != nil {
		p.logger.Debug("programmable evaluation failed", "input", line, "kind", eval.KindOf(err), "err", err)
	}
	out := format.Result(v, err, p.precision())

	lines := []string{">>> " + line, out}
	p.transcript = append(p.transcript, lines...)
	p.record(line + " = " + out)
	return lines
}

// Transcript returns a copy of everything shown so far.
func (p *Programmable) Transcript() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.transcript...)
}

// Clear empties the transcript. Bindings are kept.
func (p *Programmable) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcript = nil
}

// Bindings returns the names defined so far, sorted.
func (p *Programmable) Bindings() []string {
	return p.eval.Namespace().Names()
}

// Undefine removes a binding and reports whether it existed.
func (p *Programmable) Undefine(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	ns := p.eval.Namespace()
	if !ns.Has(name) {
		return false
	}
	ns.Delete(name)
	return true
}
