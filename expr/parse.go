// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"fmt"
	"go/token"
	"strings"
)

// Parse returns the abstract syntax tree for the given expression source,
// or an error describing the first syntax problem encountered.
func Parse(name, src string) (Expr, error) {
	fset := token.NewFileSet()
	f := fset.AddFile(name, fset.Base(), len(src))

	p := newParser(f, newLexer(src, f))
	x, ok := p.expr()
	if !ok {
		return nil, p.err
	}
	if la := p.lex.Peek(); la != nil && la.kind != itemEOF {
		return nil, fmt.Errorf("expr: unexpected token %q after expression", la.val)
	}
	return x, nil
}

type parser struct {
	tokf   *token.File
	lex    *lexer
	err    error
	levels []exprFn
}

func newParser(f *token.File, l *lexer) *parser {
	p := &parser{tokf: f, lex: l}
	p.levels = []exprFn{
		binaryLevelGen(0, p, "+-"),
		binaryLevelGen(1, p, "*/%"),
		p.power,
	}
	return p
}

func (p *parser) expr() (Expr, bool) {
	return p.levels[0]()
}

type exprFn func() (Expr, bool)

func binaryLevelGen(n int, p *parser, ops string) exprFn {
	return func() (lhs Expr, ok bool) {
		next := p.levels[n+1]
		if lhs, ok = next(); !ok {
			return
		}
		for op, ok2 := p.consumeAnyOf(ops); ok2; op, ok2 = p.consumeAnyOf(ops) {
			rhs, ok3 := next()
			if !ok3 {
				return nil, false
			}
			lhs = &BinaryExpr{X: lhs, OpPos: op.pos, Op: opToken(op.val), Y: rhs}
		}
		return lhs, true
	}
}

// power parses unary +/- and right-associative exponentiation, which binds
// tighter than unary minus on its left but allows a signed exponent
// (e.g. 2^-3).
func (p *parser) power() (Expr, bool) {
	if op, ok := p.consumeAnyOf("+-"); ok {
		x, ok := p.power()
		if !ok {
			return nil, false
		}
		return &UnaryExpr{OpPos: op.pos, Op: opToken(op.val), X: x}, true
	}

	base, ok := p.primary()
	if !ok {
		return nil, false
	}
	if op, ok := p.consumeAnyOf("^"); ok {
		exp, ok := p.power()
		if !ok {
			return nil, false
		}
		return &BinaryExpr{X: base, OpPos: op.pos, Op: token.XOR, Y: exp}, true
	}
	return base, true
}

func (p *parser) primary() (x Expr, ok bool) {
	if lparen, ok := p.consumeTok(itemLParen); ok {
		inner, ok := p.expr()
		if !ok {
			return nil, false
		}
		rparen, ok := p.consumeTok(itemRParen)
		if !ok {
			p.errorf("expected ')'")
			return nil, false
		}
		return &ParenExpr{Lparen: lparen.pos, X: inner, Rparen: rparen.pos}, true
	}

	if la := p.lex.Peek(); la != nil && la.kind == itemNumber {
		t := p.lex.Token()
		return &BasicLit{ValuePos: t.pos, Value: t.val}, true
	}

	if la := p.lex.Peek(); la != nil && la.kind == itemIdentifier {
		t := p.lex.Token()
		id := &Ident{NamePos: t.pos, Name: t.val}
		if lparen, ok := p.consumeTok(itemLParen); ok {
			return p.call(id, lparen)
		}
		return id, true
	}

	p.errorf("unexpected token")
	return nil, false
}

func (p *parser) call(fun Expr, lparen *Token) (Expr, bool) {
	ce := &CallExpr{Fun: fun, Lparen: lparen.pos}

	if rparen, ok := p.consumeTok(itemRParen); ok {
		ce.Rparen = rparen.pos
		return ce, true
	}

	for {
		arg, ok := p.expr()
		if !ok {
			p.errorf("expected argument expression in call")
			return nil, false
		}
		ce.Args = append(ce.Args, arg)
		if _, ok := p.consumeTok(itemComma); ok {
			continue
		}
		rparen, ok := p.consumeTok(itemRParen)
		if !ok {
			p.errorf("expected ',' or ')' in call")
			return nil, false
		}
		ce.Rparen = rparen.pos
		return ce, true
	}
}

func (p *parser) consumeAnyOf(ops string) (*Token, bool) {
	la := p.lex.Peek()
	if la == nil || la.kind != itemOperator {
		return nil, false
	}
	if strings.Contains(ops, la.val) {
		return p.lex.Token(), true
	}
	return nil, false
}

func (p *parser) consumeTok(ty itemType) (*Token, bool) {
	la := p.lex.Peek()
	if la == nil || la.kind != ty {
		return nil, false
	}
	return p.lex.Token(), true
}

func (p *parser) errorf(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf("expr: "+format, args...)
	}
}

func opToken(val string) token.Token {
	switch val {
	case "+":
		return token.ADD
	case "-":
		return token.SUB
	case "*":
		return token.MUL
	case "/":
		return token.QUO
	case "%":
		return token.REM
	case "^":
		return token.XOR
	}
	panic("expr: opToken: illegal operator " + val)
}
