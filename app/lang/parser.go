package lang

import (
	"math"
	"strconv"
	"strings"
)

// Parser holds the state for parsing a token stream.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses a token slice into an AST. The whole input must be consumed.
func Parse(tokens []Token) (Node, error) {
	if len(tokens) == 0 || (len(tokens) == 1 && tokens[0].Type == TOKEN_EOF) {
		return nil, &ExprError{Msg: "empty expression", Pos: -1}
	}

	p := &Parser{tokens: tokens, pos: 0}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	// Make sure we consumed everything (except EOF)
	if tok := p.peek(); tok.Type != TOKEN_EOF {
		return nil, errorf(tok.Pos, "unexpected %q at position %d", tok.Literal, tok.Pos)
	}

	return node, nil
}

// ParseString lexes and parses an already normalized expression.
func ParseString(expr string) (Node, error) {
	return Parse(Lex(expr))
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TOKEN_EOF, Pos: -1}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// parseExpression: term ( ("+" | "-") term )*
func (p *Parser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == TOKEN_PLUS || p.peek().Type == TOKEN_MINUS {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, Left: left, Right: right}
	}

	return left, nil
}

// parseTerm: unary ( ("*" | "/") unary )*
func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == TOKEN_STAR || p.peek().Type == TOKEN_SLASH {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Type, Left: left, Right: right}
	}

	return left, nil
}

// parseUnary: ("+" | "-") unary | power
//
// Negation is stored as (-1)*operand; a negated literal folds into the literal.
func (p *Parser) parseUnary() (Node, error) {
	switch p.peek().Type {
	case TOKEN_PLUS:
		p.advance()
		return p.parseUnary()
	case TOKEN_MINUS:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(*NumberLit); ok && lit.Name == "" {
			return num(-lit.Value), nil
		}
		return mul(num(-1), operand), nil
	}
	return p.parsePower()
}

// parsePower: factor ( "^" unary )?
//
// The exponent is parsed with parseUnary, which makes ^ right-associative and
// admits negative exponents such as x^-2.
func (p *Parser) parsePower() (Node, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TOKEN_CARET {
		return base, nil
	}
	p.advance() // consume '^'
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &PowExpr{Base: base, Exp: exp}, nil
}

// parseFactor: "(" expression ")" | "x" | number | function "(" expression ")" | constant
func (p *Parser) parseFactor() (Node, error) {
	tok := p.peek()

	switch tok.Type {
	case TOKEN_NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, errorf(tok.Pos, "invalid number %q at position %d", tok.Literal, tok.Pos)
		}
		return num(v), nil

	case TOKEN_LPAREN:
		p.advance() // consume '('
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TOKEN_RPAREN {
			return nil, errorf(p.peek().Pos, "expected ')' at position %d", p.peek().Pos)
		}
		p.advance() // consume ')'
		return expr, nil

	case TOKEN_WORD:
		return p.parseWord()

	case TOKEN_EOF:
		return nil, errorf(tok.Pos, "unexpected end of expression")

	case TOKEN_ILLEGAL:
		return nil, errorf(tok.Pos, "character not allowed: %q at position %d", tok.Literal, tok.Pos)

	default:
		return nil, errorf(tok.Pos, "unexpected %q at position %d", tok.Literal, tok.Pos)
	}
}

// parseWord resolves the variable, the constants and function calls.
func (p *Parser) parseWord() (Node, error) {
	tok := p.advance()
	name := strings.ToLower(tok.Literal)

	switch name {
	case "x":
		return &VarRef{}, nil
	case "pi":
		return &NumberLit{Value: math.Pi, Name: "pi"}, nil
	case "e":
		return &NumberLit{Value: math.E, Name: "e"}, nil
	}

	if !IsFunction(name) {
		return nil, errorf(tok.Pos, "unknown function: %s", tok.Literal)
	}
	if p.peek().Type != TOKEN_LPAREN {
		return nil, errorf(tok.Pos, "function %s must be followed by '('", name)
	}
	p.advance() // consume '('
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TOKEN_RPAREN {
		return nil, errorf(p.peek().Pos, "expected ')' in call to %s", name)
	}
	p.advance() // consume ')'
	return &FuncCall{Name: name, Arg: arg}, nil
}
