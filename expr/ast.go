// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements the small arithmetic expression language used by
// GDML define entries: literals, identifiers, unary +/-, the binary
// operators + - * / % ^, parenthesized sub-expressions, and calls to a
// fixed set of builtin math functions.
package expr

import "go/token"

// Node is anything with a source position.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Expr is any expression AST node.
type Expr interface {
	Node
	exprNode()
}

type (
	// Ident is an identifier reference.
	Ident struct {
		NamePos token.Pos
		Name    string
	}

	// BasicLit is a numeric literal.
	BasicLit struct {
		ValuePos token.Pos
		Value    string
	}

	// ParenExpr is a parenthesized sub-expression.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// CallExpr is a function call, e.g. sin(x).
	CallExpr struct {
		Fun    Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// UnaryExpr is a unary +/- expression.
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		X     Expr
	}

	// BinaryExpr is a binary expression: X Op Y.
	BinaryExpr struct {
		X     Expr
		OpPos token.Pos
		Op    token.Token
		Y     Expr
	}
)

func (x *Ident) Pos() token.Pos      { return x.NamePos }
func (x *BasicLit) Pos() token.Pos   { return x.ValuePos }
func (x *ParenExpr) Pos() token.Pos  { return x.Lparen }
func (x *CallExpr) Pos() token.Pos   { return x.Fun.Pos() }
func (x *UnaryExpr) Pos() token.Pos  { return x.OpPos }
func (x *BinaryExpr) Pos() token.Pos { return x.X.Pos() }

func (x *Ident) End() token.Pos      { return token.Pos(int(x.NamePos) + len(x.Name)) }
func (x *BasicLit) End() token.Pos   { return token.Pos(int(x.ValuePos) + len(x.Value)) }
func (x *ParenExpr) End() token.Pos  { return x.Rparen + 1 }
func (x *CallExpr) End() token.Pos   { return x.Rparen + 1 }
func (x *UnaryExpr) End() token.Pos  { return x.X.End() }
func (x *BinaryExpr) End() token.Pos { return x.Y.End() }

func (*Ident) exprNode()      {}
func (*BasicLit) exprNode()   {}
func (*ParenExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
