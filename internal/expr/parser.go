// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"strconv"
	"strings"
)

type parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses src into an AST. Leading and trailing
// whitespace is ignored; token positions refer to the trimmed text.
func Parse(src string) (Node, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, parseError(NoPosition, ErrEmptyExpression, "empty expression")
	}

	tokens, err := Tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != TokenEOF {
		return nil, parseError(tok.Position, ErrUnexpectedToken, "unexpected token '%s'", tok.Value)
	}
	return root, nil
}

func (p *parser) current() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) atLogical(values ...string) bool {
	tok := p.current()
	if tok.Kind != TokenLogical {
		return false
	}
	for _, v := range values {
		if tok.Value == v {
			return true
		}
	}
	return false
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atLogical("OR", "||") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atLogical("AND", "&&") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.atLogical("NOT", "!") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if tok.Kind != TokenOperator {
		return left, nil
	}
	p.advance()

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: Operator(tok.Value), Left: left, Right: right}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Kind {
	case TokenString:
		p.advance()
		return &Literal{Value: tok.Value}, nil

	case TokenNumber:
		p.advance()
		return numberLiteral(tok)

	case TokenIdentifier:
		p.advance()
		switch strings.ToLower(tok.Value) {
		case "true":
			return &Literal{Value: true}, nil
		case "false":
			return &Literal{Value: false}, nil
		}
		return &Identifier{Name: tok.Value}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.current(); closing.Kind != TokenRParen {
			return nil, parseError(closing.Position, ErrUnexpectedToken, "expected ')'")
		}
		p.advance()
		return inner, nil

	case TokenEOF:
		return nil, parseError(tok.Position, ErrUnexpectedToken, "unexpected end of expression")

	default:
		return nil, parseError(tok.Position, ErrUnexpectedToken, "unexpected token '%s'", tok.Value)
	}
}

func numberLiteral(tok Token) (Node, error) {
	if !strings.Contains(tok.Value, ".") {
		if n, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			return &Literal{Value: n}, nil
		}
	}
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, parseError(tok.Position, ErrUnexpectedToken, "invalid number '%s'", tok.Value)
	}
	return &Literal{Value: f}, nil
}
