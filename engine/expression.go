/*
expression.go - Lexer and parser for algebraic expressions

PURPOSE:
  Turns an expression string like "MAX(10*AP, 1.05*TotalPremiumPaid, SV)"
  into an abstract syntax tree. Parsing is separate from evaluation so a
  malformed expression fails once with a clear reason instead of failing
  mid-computation.

GRAMMAR (precedence low to high):
  or:          and { ("||" | OR) and }
  and:         comparison { ("&&" | AND) comparison }
  comparison:  additive [ ("<" | "<=" | ">" | ">=" | "=" | "==" | "!=" | "<>") additive ]
  additive:    term { ("+" | "-") term }
  term:        unary { ("*" | "/") unary }
  unary:       ("-" | "!" | NOT) unary | primary
  primary:     NUMBER | IDENT | IDENT "(" args ")" | "(" or ")"

  AND/OR/NOT keywords are case-insensitive, like all identifiers.
*/
package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AST
// =============================================================================

type exprNode interface{ exprNode() }

type numberNode struct {
	value decimal.Decimal
}

type identNode struct {
	name string
}

type unaryNode struct {
	op      string // "-" or "!"
	operand exprNode
}

type binaryNode struct {
	op          string // "+", "-", "*", "/", "<", "<=", ">", ">=", "=", "!=", "&&", "||"
	left, right exprNode
}

type callNode struct {
	name string // upper-cased function name
	args []exprNode
}

func (numberNode) exprNode() {}
func (identNode) exprNode()  {}
func (unaryNode) exprNode()  {}
func (binaryNode) exprNode() {}
func (callNode) exprNode()   {}

// =============================================================================
// LEXER
// =============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp     // single/double char operator
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokNumber, text: l.input[start:l.pos], pos: start}, nil

	case isIdentStart(ch):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil

	case ch == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ch == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil

	case ch == '+' || ch == '-' || ch == '*' || ch == '/':
		l.pos++
		return token{kind: tokOp, text: string(ch), pos: start}, nil

	case ch == '<':
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '=' || l.input[l.pos] == '>') {
			l.pos++
		}
		text := l.input[start:l.pos]
		if text == "<>" {
			text = "!="
		}
		return token{kind: tokOp, text: text, pos: start}, nil

	case ch == '>':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
		}
		return token{kind: tokOp, text: l.input[start:l.pos], pos: start}, nil

	case ch == '=':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
		}
		return token{kind: tokOp, text: "=", pos: start}, nil

	case ch == '!':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return token{kind: tokOp, text: "!=", pos: start}, nil
		}
		return token{kind: tokOp, text: "!", pos: start}, nil

	case ch == '&':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '&' {
			l.pos++
			return token{kind: tokOp, text: "&&", pos: start}, nil
		}
		return token{}, fmt.Errorf("unexpected character '&' at position %d", start)

	case ch == '|':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '|' {
			l.pos++
			return token{kind: tokOp, text: "||", pos: start}, nil
		}
		return token{}, fmt.Errorf("unexpected character '|' at position %d", start)
	}

	return token{}, fmt.Errorf("unexpected character %q at position %d", ch, start)
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// =============================================================================
// PARSER
// =============================================================================

type parser struct {
	source string
	lex    lexer
	tok    token
}

// parseExpression parses source into an AST, or returns an *EvalError.
func parseExpression(source string) (exprNode, error) {
	p := &parser{source: source, lex: lexer{input: source}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected token '%s' at position %d", p.tok.text, p.tok.pos)
	}
	return node, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return &EvalError{Expression: p.source, Reason: err.Error()}
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &EvalError{Expression: p.source, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isOp("||") || p.isKeyword("OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "||", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (exprNode, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.isOp("&&") || p.isKeyword("AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "&&", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (exprNode, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp {
		switch p.tok.text {
		case "<", "<=", ">", ">=", "=", "!=":
			op := p.tok.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &binaryNode{op: op, left: left, right: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseAdditive() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (exprNode, error) {
	if p.isOp("-") || p.isOp("!") || p.isKeyword("NOT") {
		op := p.tok.text
		if p.isKeyword("NOT") {
			op = "!"
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (exprNode, error) {
	switch p.tok.kind {
	case tokNumber:
		value, err := decimal.NewFromString(p.tok.text)
		if err != nil {
			return nil, p.errorf("invalid number '%s'", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &numberNode{value: value}, nil

	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen {
			return p.parseCall(name)
		}
		return &identNode{name: name}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("missing closing parenthesis")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return node, nil

	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected token '%s' at position %d", p.tok.text, p.tok.pos)
}

func (p *parser) parseCall(name string) (exprNode, error) {
	// Current token is '('
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []exprNode
	if p.tok.kind != tokRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.tok.kind != tokRParen {
		return nil, p.errorf("missing closing parenthesis in call to %s", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &callNode{name: strings.ToUpper(name), args: args}, nil
}

func (p *parser) isOp(text string) bool {
	return p.tok.kind == tokOp && p.tok.text == text
}

func (p *parser) isKeyword(upper string) bool {
	return p.tok.kind == tokIdent && strings.EqualFold(p.tok.text, upper)
}
