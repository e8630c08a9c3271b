package ast

import (
	"github.com/otabekoff/flc/internal/lexer"
)

// EnumDecl represents an algebraic data type:
//   enum Shape { Circle(Float64), Square(Float64), Point }
type EnumDecl struct {
	EnumPos    lexer.Position
	Name       *IdentifierExpr
	Generics   []*GenericParam
	Variants   []*EnumVariant
	LeftBrace  lexer.Token
	RightBrace lexer.Token
	Visibility Visibility
}

func (e *EnumDecl) Pos() lexer.Position { return e.EnumPos }
func (e *EnumDecl) End() lexer.Position { return e.RightBrace.Position }
func (e *EnumDecl) stmtNode()           {}
func (e *EnumDecl) declNode()           {}
func (e *EnumDecl) Accept(v Visitor) error {
	return v.VisitEnumDecl(e)
}

// EnumVariant is a single variant: a bare tag (`Point`) or a
// tuple-carrying tag (`Circle(Float64)`).
type EnumVariant struct {
	Name   *IdentifierExpr
	Fields []Expr // type expressions of the carried tuple, empty for a unit variant
}

func (v *EnumVariant) Pos() lexer.Position { return v.Name.Pos() }
func (v *EnumVariant) End() lexer.Position {
	if len(v.Fields) > 0 {
		return v.Fields[len(v.Fields)-1].End()
	}
	return v.Name.End()
}

// TraitDecl declares a trait: method signatures (with optional default
// bodies) and associated-type slots.
type TraitDecl struct {
	TraitPos       lexer.Position
	Name           *IdentifierExpr
	Generics       []*GenericParam
	AssociatedType []*AssociatedTypeDecl
	Methods        []*FuncDecl // Body nil for required methods, non-nil for defaults
	LeftBrace      lexer.Token
	RightBrace     lexer.Token
	Visibility     Visibility
}

func (t *TraitDecl) Pos() lexer.Position { return t.TraitPos }
func (t *TraitDecl) End() lexer.Position { return t.RightBrace.Position }
func (t *TraitDecl) stmtNode()           {}
func (t *TraitDecl) declNode()           {}
func (t *TraitDecl) Accept(v Visitor) error {
	return v.VisitTraitDecl(t)
}

// AssociatedTypeDecl is a `type Name;` or `type Name = Default;` slot
// inside a trait.
type AssociatedTypeDecl struct {
	TypePos lexer.Position
	Name    *IdentifierExpr
	Default Expr // nil when the trait provides no default
}

func (a *AssociatedTypeDecl) Pos() lexer.Position { return a.TypePos }
func (a *AssociatedTypeDecl) End() lexer.Position {
	if a.Default != nil {
		return a.Default.End()
	}
	return a.Name.End()
}

// ImplDecl represents `impl [Trait for] Type { ... }`.
type ImplDecl struct {
	ImplPos        lexer.Position
	Generics       []*GenericParam
	TraitName      *IdentifierExpr // nil for an inherent impl
	TargetType     *IdentifierExpr
	Where          *WhereClause
	AssociatedType []*AssociatedTypeBinding
	Methods        []*FuncDecl
	LeftBrace      lexer.Token
	RightBrace     lexer.Token
}

func (i *ImplDecl) Pos() lexer.Position { return i.ImplPos }
func (i *ImplDecl) End() lexer.Position { return i.RightBrace.Position }
func (i *ImplDecl) stmtNode()           {}
func (i *ImplDecl) declNode()           {}
func (i *ImplDecl) Accept(v Visitor) error {
	return v.VisitImplDecl(i)
}

// AssociatedTypeBinding supplies a concrete type for a trait's
// associated type inside an impl block: `type Item = Int32;`.
type AssociatedTypeBinding struct {
	Name  *IdentifierExpr
	Value Expr
}
