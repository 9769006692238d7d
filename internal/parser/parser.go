// Package parser turns a line of calculator input into an expression tree.
//
// A line is either an expression or a definition. It is a definition when it
// starts with the "def" keyword or contains an "=" outside any parentheses;
// comparison operators (==, !=, <=, >=) scan as their own tokens and never
// make a line a definition.
package parser

import (
	"fmt"
	"strings"

	"nickandperla.net/calcpad/internal/expr"
	"nickandperla.net/calcpad/internal/scanner"
	"nickandperla.net/calcpad/internal/token"
)

// SyntaxError reports malformed input.
type SyntaxError struct {
	Pos int // Rune offset of the offending token
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// MaxDepth bounds nesting of parentheses, signs and exponents on a line;
// MaxTokens bounds its length.
const (
	MaxDepth  = 256
	MaxTokens = 4096
)

// Parser is a recursive-descent parser over a fully scanned token slice.
type Parser struct {
	items []scanner.Item
	pos   int
	depth int
}

// Parse scans and parses a single line.
func Parse(input string) (expr.Expr, error) {
	items, err := scanAll(input)
	if err != nil {
		return nil, err
	}
	p := &Parser{items: items}
	return p.parseLine()
}

func scanAll(input string) ([]scanner.Item, error) {
	scan := scanner.New(strings.NewReader(input))
	var items []scanner.Item
	for {
		item, err := scan.Next()
		if err != nil {
			return nil, err
		}
		if item.Token == token.ILLEGAL {
			return nil, &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("unexpected character %q", item.Value)}
		}
		if item.Token == token.EOF {
			return append(items, *item), nil
		}
		if len(items) == MaxTokens {
			return nil, &SyntaxError{Pos: item.Pos, Msg: "expression too long"}
		}
		items = append(items, *item)
	}
}

func (p *Parser) peek() scanner.Item {
	return p.items[p.pos]
}

func (p *Parser) next() scanner.Item {
	item := p.items[p.pos]
	if item.Token != token.EOF {
		p.pos++
	}
	return item
}

func (p *Parser) accept(t token.Token) bool {
	if p.peek().Token == t {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t token.Token) (scanner.Item, error) {
	item := p.next()
	if item.Token != t {
		return item, p.unexpected(item, t.String())
	}
	return item, nil
}

func (p *Parser) unexpected(item scanner.Item, want string) error {
	got := item.Value
	if item.Token == token.EOF {
		got = "end of input"
	}
	if want == "" {
		return &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("unexpected %s", got)}
	}
	return &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("expected %s, got %s", want, got)}
}

// parseLine dispatches between the definition and expression forms.
func (p *Parser) parseLine() (expr.Expr, error) {
	if first := p.peek(); first.Token == token.EOF {
		return nil, &SyntaxError{Pos: first.Pos, Msg: "empty expression"}
	}

	var e expr.Expr
	var err error
	switch {
	case p.peek().Token == token.IDENT && p.peek().Value == token.KeywordDef:
		e, err = p.parseDef()
	case p.assignIndex() >= 0:
		e, err = p.parseAssignment()
	default:
		e, err = p.parseExpr()
	}
	if err != nil {
		return nil, err
	}
	if item := p.peek(); item.Token != token.EOF {
		return nil, p.unexpected(item, "")
	}
	return e, nil
}

// assignIndex returns the index of the first "=" at parenthesis depth 0, or -1.
func (p *Parser) assignIndex() int {
	depth := 0
	for i, item := range p.items {
		switch item.Token {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.ASSIGN:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseDef parses: def NAME ( params ) : [return] expr
func (p *Parser) parseDef() (expr.Expr, error) {
	p.next() // def
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	if item := p.peek(); item.Token == token.IDENT && item.Value == token.KeywordReturn {
		p.next()
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return expr.Definition{Name: name.Value, Params: params, Body: body}, nil
}

// parseAssignment parses: NAME = expr | NAME ( params ) = expr
func (p *Parser) parseAssignment() (expr.Expr, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if isKeyword(name.Value) {
		return nil, &SyntaxError{Pos: name.Pos, Msg: fmt.Sprintf("%s is a keyword", name.Value)}
	}
	var params []string
	if p.accept(token.LPAREN) {
		if params, err = p.parseParams(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return expr.Definition{Name: name.Value, Params: params, Body: body}, nil
}

// parseParams parses a parameter list after "(" through ")". The result is
// never nil so that f() = 1 still declares a function.
func (p *Parser) parseParams() ([]string, error) {
	params := []string{}
	if p.accept(token.RPAREN) {
		return params, nil
	}
	seen := make(map[string]bool)
	for {
		item, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if seen[item.Value] {
			return nil, &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("duplicate parameter %s", item.Value)}
		}
		seen[item.Value] = true
		params = append(params, item.Value)
		if p.accept(token.RPAREN) {
			return params, nil
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
}

// parseExpr parses: sum (cmp sum)?
func (p *Parser) parseExpr() (expr.Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if op := p.peek().Token; op.IsComparison() {
		p.next()
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

// parseSum parses: term (("+" | "-") term)*
func (p *Parser) parseSum() (expr.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().Token.IsAdditive() {
		op := p.next().Token
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = expr.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseTerm parses: unary (("*" | "/" | "%") unary)*
func (p *Parser) parseTerm() (expr.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Token.IsMultiplicative() {
		op := p.next().Token
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = expr.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary parses: ("-" | "+") unary | power
// Sign binds looser than exponentiation, so -2^2 is -(2^2).
func (p *Parser) parseUnary() (expr.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, &SyntaxError{Pos: p.peek().Pos, Msg: "expression nested too deeply"}
	}

	if op := p.peek().Token; op.IsAdditive() {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower parses: postfix ("^" unary)?, right associative.
func (p *Parser) parsePower() (expr.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.accept(token.CARET) {
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: token.CARET, Left: base, Right: exp}, nil
	}
	return base, nil
}

// parsePostfix parses: primary "!"*
func (p *Parser) parsePostfix() (expr.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.accept(token.BANG) {
		e = expr.Postfix{Op: token.BANG, Operand: e}
	}
	return e, nil
}

// parsePrimary parses: NUMBER | IDENT | IDENT "(" args ")" | "(" expr ")"
func (p *Parser) parsePrimary() (expr.Expr, error) {
	item := p.next()
	switch item.Token {
	case token.NUMBER:
		return expr.Number{Literal: item.Value}, nil

	case token.IDENT:
		if isKeyword(item.Value) {
			return nil, p.unexpected(item, "")
		}
		if !p.accept(token.LPAREN) {
			return expr.Ident{Name: item.Value}, nil
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return expr.Call{Name: item.Value, Args: args}, nil

	case token.LPAREN:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.unexpected(item, "")
}

// parseArgs parses an argument list after "(" through ")".
func (p *Parser) parseArgs() ([]expr.Expr, error) {
	var args []expr.Expr
	if p.accept(token.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(token.RPAREN) {
			return args, nil
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
}

func isKeyword(name string) bool {
	return name == token.KeywordDef || name == token.KeywordReturn
}
