package eval

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nickandperla.net/calcpad/internal/expr"
	"nickandperla.net/calcpad/internal/parser"
	"nickandperla.net/calcpad/internal/token"
)

// DefaultMaxDepth bounds nested user function calls.
const DefaultMaxDepth = 64

// Evaluator evaluates calculator input against a namespace of bindings.
// It only sees numbers, its namespace and the fixed builtin table.
type Evaluator struct {
	namespace *Namespace
	maxDepth  int
	depth     int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth sets the maximum user function call depth.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) { e.maxDepth = depth }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		namespace: NewNamespace(),
		maxDepth:  DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Namespace returns the evaluator's bindings.
func (e *Evaluator) Namespace() *Namespace {
	return e.namespace
}

// Evaluate parses and evaluates one line. A definition binds a name and
// returns Defined; an expression returns Int or Float. Any failure is
// returned as *Error.
func (e *Evaluator) Evaluate(input string) (result Value, err error) {
	defer e.recoverInto(&err)

	node, err := parseLine(input)
	if err != nil {
		return nil, err
	}
	if def, ok := node.(expr.Definition); ok {
		return e.define(def)
	}
	return e.eval(node, nil)
}

// EvaluateNumber evaluates an expression and rejects definitions.
func (e *Evaluator) EvaluateNumber(input string) (result Number, err error) {
	defer e.recoverInto(&err)

	node, err := parseLine(input)
	if err != nil {
		return nil, err
	}
	if _, ok := node.(expr.Definition); ok {
		return nil, newError(InvalidExpression, "definition not allowed here")
	}
	return e.eval(node, nil)
}

// Apply calls a builtin function by name on already evaluated arguments.
func (e *Evaluator) Apply(name string, args ...Number) (result Number, err error) {
	defer e.recoverInto(&err)

	b := getBuiltin(name)
	if b == nil {
		return nil, newError(UndefinedReference, "%s", name)
	}
	return e.callBuiltin(b, args)
}

// Power computes base^exp with the same rules as the ^ operator.
func (e *Evaluator) Power(base, exp Number) (Number, error) {
	return power(base, exp)
}

// recoverInto converts a panic into an Unclassified error so nothing
// escapes the evaluator.
func (e *Evaluator) recoverInto(err *error) {
	if r := recover(); r != nil {
		e.depth = 0
		*err = newError(Unclassified, "internal error: %v", r)
	}
}

func parseLine(input string) (expr.Expr, error) {
	node, err := parser.Parse(input)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			return nil, &Error{Kind: InvalidExpression, Detail: se.Msg, Err: err}
		}
		return nil, &Error{Kind: Unclassified, Detail: err.Error(), Err: err}
	}
	return node, nil
}

// define processes a definition, the only operation that mutates bindings.
func (e *Evaluator) define(def expr.Definition) (Value, error) {
	if IsReserved(def.Name) {
		return nil, newError(Unclassified, "cannot redefine builtin %s", def.Name)
	}
	if def.IsFunction() {
		for _, p := range def.Params {
			if IsReserved(p) {
				return nil, newError(Unclassified, "cannot use builtin %s as a parameter", p)
			}
		}
		e.namespace.Set(def.Name, Binding{Func: &Function{
			Name:   def.Name,
			Params: def.Params,
			Body:   def.Body,
		}})
		return Defined{Name: def.Name, Params: def.Params}, nil
	}

	v, err := e.eval(def.Body, nil)
	if err != nil {
		return nil, err
	}
	e.namespace.Set(def.Name, Binding{Value: v})
	return Defined{Name: def.Name}, nil
}

// eval walks the tree. scope holds the parameters of the innermost user
// function call, nil at top level.
func (e *Evaluator) eval(node expr.Expr, scope map[string]Number) (Number, error) {
	switch n := node.(type) {
	case expr.Number:
		return parseNumber(n.Literal)

	case expr.Ident:
		return e.lookup(n.Name, scope)

	case expr.Unary:
		v, err := e.eval(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		if n.Op == token.PLUS {
			return v, nil
		}
		return negate(v), nil

	case expr.Binary:
		left, err := e.eval(n.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(n.Right, scope)
		if err != nil {
			return nil, err
		}
		return binary(n.Op, left, right)

	case expr.Postfix:
		v, err := e.eval(n.Operand, scope)
		if err != nil {
			return nil, err
		}
		return builtinFactorial([]Number{v})

	case expr.Call:
		args := make([]Number, 0, len(n.Args))
		for _, a := range n.Args {
			v, err := e.eval(a, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return e.call(n.Name, args)

	case expr.Definition:
		return nil, newError(InvalidExpression, "definition inside expression")
	}
	return nil, newError(Unclassified, "unknown expression %T", node)
}

func (e *Evaluator) lookup(name string, scope map[string]Number) (Number, error) {
	if v, ok := scope[name]; ok {
		return v, nil
	}
	if b, ok := e.namespace.Get(name); ok {
		if b.Func != nil {
			return nil, newError(InvalidExpression, "%s is a function", name)
		}
		return b.Value, nil
	}
	if v, ok := getConstant(name); ok {
		return v, nil
	}
	if getBuiltin(name) != nil {
		return nil, newError(InvalidExpression, "%s is a function", name)
	}
	return nil, newError(UndefinedReference, "%s", name)
}

func (e *Evaluator) call(name string, args []Number) (Number, error) {
	if b := getBuiltin(name); b != nil {
		return e.callBuiltin(b, args)
	}
	binding, ok := e.namespace.Get(name)
	if !ok {
		return nil, newError(UndefinedReference, "%s", name)
	}
	if binding.Func == nil {
		return nil, newError(InvalidExpression, "%s is not a function", name)
	}
	fn := binding.Func
	if len(args) != len(fn.Params) {
		return nil, newError(InvalidExpression, "%s takes %d argument(s), got %d", name, len(fn.Params), len(args))
	}

	if e.depth >= e.maxDepth {
		return nil, newError(Unclassified, "maximum recursion depth exceeded")
	}
	e.depth++
	defer func() { e.depth-- }()

	scope := make(map[string]Number, len(args))
	for i, p := range fn.Params {
		scope[p] = args[i]
	}
	return e.eval(fn.Body, scope)
}

func (e *Evaluator) callBuiltin(b *Builtin, args []Number) (Number, error) {
	if len(args) != b.Arity {
		return nil, newError(InvalidExpression, "%s takes %d argument(s), got %d", b.Name, b.Arity, len(args))
	}
	v, err := b.Fn(args)
	if err != nil {
		return nil, err
	}
	return checkFinite(v)
}

// parseNumber keeps integer literals exact when they fit in int64.
func parseNumber(lit string) (Number, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			return nil, newError(Unclassified, "result out of range")
		}
		return nil, &Error{Kind: InvalidExpression, Detail: fmt.Sprintf("bad number %q", lit), Err: err}
	}
	return Float(f), nil
}

func negate(v Number) Number {
	if i, ok := v.(Int); ok && i != math.MinInt64 {
		return -i
	}
	return Float(-v.Float64())
}

// binary applies an infix operator. Int op Int stays Int for + - * % unless
// the result overflows int64; / always yields Float.
func binary(op token.Token, left, right Number) (Number, error) {
	li, lok := left.(Int)
	ri, rok := right.(Int)
	ints := lok && rok
	l, r := left.Float64(), right.Float64()

	switch op {
	case token.PLUS:
		if ints {
			if v, ok := addInt(int64(li), int64(ri)); ok {
				return Int(v), nil
			}
		}
		return checkFinite(Float(l + r))

	case token.MINUS:
		if ints {
			if v, ok := subInt(int64(li), int64(ri)); ok {
				return Int(v), nil
			}
		}
		return checkFinite(Float(l - r))

	case token.STAR:
		if ints {
			if v, ok := mulInt(int64(li), int64(ri)); ok {
				return Int(v), nil
			}
		}
		return checkFinite(Float(l * r))

	case token.SLASH:
		if r == 0 {
			return nil, newError(DivisionByZero, "%s / %s", left, right)
		}
		return checkFinite(Float(l / r))

	case token.PERCENT:
		if r == 0 {
			return nil, newError(DivisionByZero, "%s %% %s", left, right)
		}
		if ints && !(li == math.MinInt64 && ri == -1) {
			m := li % ri
			if m != 0 && (m < 0) != (ri < 0) {
				m += ri
			}
			return m, nil
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return checkFinite(Float(m))

	case token.CARET:
		return power(left, right)

	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE:
		return compare(op, left, right), nil
	}
	return nil, newError(Unclassified, "unknown operator %s", op)
}

// compare yields Int(1) for true and Int(0) for false.
func compare(op token.Token, left, right Number) Number {
	var c int
	li, lok := left.(Int)
	ri, rok := right.(Int)
	if lok && rok {
		c = cmp.Compare(li, ri)
	} else {
		c = cmp.Compare(left.Float64(), right.Float64())
	}

	var ok bool
	switch op {
	case token.EQ:
		ok = c == 0
	case token.NE:
		ok = c != 0
	case token.LT:
		ok = c < 0
	case token.LE:
		ok = c <= 0
	case token.GT:
		ok = c > 0
	case token.GE:
		ok = c >= 0
	}
	if ok {
		return Int(1)
	}
	return Int(0)
}
