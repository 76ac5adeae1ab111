package gruntz

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse builds an expression from conventional infix notation: + - * / ^
// (also **), parentheses, rational and decimal numbers, symbols, one
// argument function calls, and oo for infinity. The result is canonical.
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", rune(p.src[p.pos]))
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("parse error at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		case '-':
			p.pos++
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			terms = append(terms, NegOf(t))
		default:
			return addOf(terms), nil
		}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for {
		switch {
		case p.peek() == '*' && !p.hasPrefix("**"):
			p.pos++
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		case p.peek() == '/':
			p.pos++
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, PowOf(f, N(-1)))
		default:
			return mulOf(factors), nil
		}
	}
}

func (p *parser) hasPrefix(s string) bool {
	p.skipSpace()
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek() {
	case '-':
		p.pos++
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NegOf(e), nil
	case '+':
		p.pos++
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.hasPrefix("**") {
		p.pos += 2
	} else if p.peek() == '^' {
		p.pos++
	} else {
		return base, nil
	}
	// Exponentiation binds right, and tighter than unary minus on its left.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parseAtom() (Expr, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return e, nil
	case c >= '0' && c <= '9':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseIdent()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected %q", rune(c))
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch >= '0' && ch <= '9' {
			p.pos++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	lit := p.src[start:p.pos]
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return nil, p.errorf("bad number %q", lit)
	}
	return &Num{val: r}, nil
}

func isIdentStart(c rune) bool { return unicode.IsLetter(c) || c == '_' }

func (p *parser) parseIdent() (Expr, error) {
	start := p.pos
	for p.pos < len(p.src) {
		ch := rune(p.src[p.pos])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	if name == "oo" {
		return PosInf, nil
	}
	if p.peek() == '(' {
		p.pos++
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis in call to %s", name)
		}
		p.pos++
		if name == "sqrt" {
			return SqrtOf(arg), nil
		}
		return FuncOf(name, arg), nil
	}
	return S(name), nil
}
