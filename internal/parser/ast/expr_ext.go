package ast

import (
	"github.com/otabekoff/flc/internal/lexer"
)

// Expression nodes for the ownership/generics/ADT/async surface that the
// teacher's C-like grammar never needed.

// MoveExpr wraps an operand explicitly moved out of its binding: move x.
//
// Most moves are implicit (an assignment or call argument of a non-Copy
// type moves its operand); MoveExpr exists for the explicit `move`
// keyword spec §3 lists alongside the implicit cases.
type MoveExpr struct {
	MovePos lexer.Position
	Operand Expr
}

func (m *MoveExpr) Pos() lexer.Position { return m.MovePos }
func (m *MoveExpr) End() lexer.Position { return m.Operand.End() }
func (m *MoveExpr) exprNode()           {}
func (m *MoveExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitMoveExpr(m)
}

// CastExpr represents `expr as TypeName`.
type CastExpr struct {
	Operand    Expr
	AsPos      lexer.Position
	TargetName *IdentifierExpr
}

func (c *CastExpr) Pos() lexer.Position { return c.Operand.Pos() }
func (c *CastExpr) End() lexer.Position { return c.TargetName.End() }
func (c *CastExpr) exprNode()           {}
func (c *CastExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitCastExpr(c)
}

// TupleExpr represents a tuple literal: (a, b, c).
//
// A single parenthesized expression with no comma stays a GroupingExpr;
// TupleExpr requires at least one comma, matching the usual
// tuple-vs-grouping disambiguation rule.
type TupleExpr struct {
	LeftParen  lexer.Token
	Elements   []Expr
	RightParen lexer.Token
}

func (t *TupleExpr) Pos() lexer.Position { return t.LeftParen.Position }
func (t *TupleExpr) End() lexer.Position { return t.RightParen.Position }
func (t *TupleExpr) exprNode()           {}
func (t *TupleExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitTupleExpr(t)
}

// SliceExpr represents `base[start:end]`.
type SliceExpr struct {
	Base         Expr
	LeftBracket  lexer.Token
	Start        Expr // nil means "from the beginning"
	End_         Expr // nil means "to the end"
	RightBracket lexer.Token
}

func (s *SliceExpr) Pos() lexer.Position { return s.Base.Pos() }
func (s *SliceExpr) End() lexer.Position { return s.RightBracket.Position }
func (s *SliceExpr) exprNode()           {}
func (s *SliceExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitSliceExpr(s)
}

// RangeExpr represents `start..end` or `start..=end`.
type RangeExpr struct {
	Start       Expr // nil permitted for an open-ended range
	Operator    lexer.Token
	EndExpr     Expr
	IsInclusive bool
}

func (r *RangeExpr) Pos() lexer.Position {
	if r.Start != nil {
		return r.Start.Pos()
	}
	return r.Operator.Position
}
func (r *RangeExpr) End() lexer.Position {
	if r.EndExpr != nil {
		return r.EndExpr.End()
	}
	return r.Operator.Position
}
func (r *RangeExpr) exprNode() {}
func (r *RangeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitRangeExpr(r)
}

// LambdaExpr represents an anonymous function expression:
// `|x: Int32, y: Int32| -> Int32 => x + y`.
type LambdaExpr struct {
	PipePos    lexer.Position
	Params     []*Parameter
	ReturnType Expr // nil when inferred
	Body       Expr
}

func (l *LambdaExpr) Pos() lexer.Position { return l.PipePos }
func (l *LambdaExpr) End() lexer.Position { return l.Body.End() }
func (l *LambdaExpr) exprNode()           {}
func (l *LambdaExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitLambdaExpr(l)
}

// AwaitExpr represents `await expr`.
type AwaitExpr struct {
	AwaitPos lexer.Position
	Operand  Expr
}

func (a *AwaitExpr) Pos() lexer.Position { return a.AwaitPos }
func (a *AwaitExpr) End() lexer.Position { return a.Operand.End() }
func (a *AwaitExpr) exprNode()           {}
func (a *AwaitExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitAwaitExpr(a)
}

// SpawnExpr represents `spawn expr`.
type SpawnExpr struct {
	SpawnPos lexer.Position
	Operand  Expr
}

func (s *SpawnExpr) Pos() lexer.Position { return s.SpawnPos }
func (s *SpawnExpr) End() lexer.Position { return s.Operand.End() }
func (s *SpawnExpr) exprNode()           {}
func (s *SpawnExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitSpawnExpr(s)
}

// TryExpr represents the postfix error-propagation operator: `expr?`.
type TryExpr struct {
	Operand      Expr
	QuestionMark lexer.Token
}

func (t *TryExpr) Pos() lexer.Position { return t.Operand.Pos() }
func (t *TryExpr) End() lexer.Position { return t.QuestionMark.Position }
func (t *TryExpr) exprNode()           {}
func (t *TryExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitTryExpr(t)
}

// ReferenceTypeExpr represents a borrowed type: `&T` or `&mut T`, used only
// in type position (never as a runtime expression).
type ReferenceTypeExpr struct {
	AmpPos    lexer.Position
	IsMutable bool
	Referent  Expr
}

func (r *ReferenceTypeExpr) Pos() lexer.Position { return r.AmpPos }
func (r *ReferenceTypeExpr) End() lexer.Position { return r.Referent.End() }
func (r *ReferenceTypeExpr) exprNode()           {}
func (r *ReferenceTypeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitReferenceTypeExpr(r)
}

// SliceTypeExpr represents `[]T` in type position.
type SliceTypeExpr struct {
	LeftBracket lexer.Token
	Element     Expr
}

func (s *SliceTypeExpr) Pos() lexer.Position { return s.LeftBracket.Position }
func (s *SliceTypeExpr) End() lexer.Position { return s.Element.End() }
func (s *SliceTypeExpr) exprNode()           {}
func (s *SliceTypeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitSliceTypeExpr(s)
}

// ArrayTypeExpr represents a fixed-size array in type position: `[N]T`.
type ArrayTypeExpr struct {
	LeftBracket lexer.Token
	Size        Expr
	Element     Expr
}

func (a *ArrayTypeExpr) Pos() lexer.Position { return a.LeftBracket.Position }
func (a *ArrayTypeExpr) End() lexer.Position { return a.Element.End() }
func (a *ArrayTypeExpr) exprNode()           {}
func (a *ArrayTypeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitArrayTypeExpr(a)
}

// TupleTypeExpr represents a tuple type in type position: `(T1, T2)`.
type TupleTypeExpr struct {
	LeftParen  lexer.Token
	Elements   []Expr
	RightParen lexer.Token
}

func (t *TupleTypeExpr) Pos() lexer.Position { return t.LeftParen.Position }
func (t *TupleTypeExpr) End() lexer.Position { return t.RightParen.Position }
func (t *TupleTypeExpr) exprNode()           {}
func (t *TupleTypeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitTupleTypeExpr(t)
}

// GenericTypeExpr represents an instantiated generic type in type
// position: `Vec<Int32>`, `Result<T, Error>`.
type GenericTypeExpr struct {
	Base      *IdentifierExpr
	Less      lexer.Token
	Arguments []Expr
	Greater   lexer.Token
}

func (g *GenericTypeExpr) Pos() lexer.Position { return g.Base.Pos() }
func (g *GenericTypeExpr) End() lexer.Position { return g.Greater.Position }
func (g *GenericTypeExpr) exprNode()           {}
func (g *GenericTypeExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitGenericTypeExpr(g)
}

// PathExpr represents a qualified path: `A::B` — module member access,
// enum variant reference, or associated-item path per spec §4.2.
type PathExpr struct {
	Left       Expr // IdentifierExpr or nested PathExpr
	ColonColon lexer.Token
	Right      *IdentifierExpr
}

func (p *PathExpr) Pos() lexer.Position { return p.Left.Pos() }
func (p *PathExpr) End() lexer.Position { return p.Right.End() }
func (p *PathExpr) exprNode()           {}
func (p *PathExpr) Accept(v Visitor) (interface{}, error) {
	return v.VisitPathExpr(p)
}
