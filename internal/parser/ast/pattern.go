package ast

import (
	"github.com/otabekoff/flc/internal/lexer"
)

// Pattern is the interface for match-arm and let-destructuring patterns.
//
// Patterns are a separate family from Expr (even though some, like
// LiteralPattern, mirror an expression shape) because exhaustiveness
// checking and binding introduction need their own traversal — reusing
// Expr would force every visitor to special-case "is this expression
// actually a pattern."
type Pattern interface {
	Node
	patternNode()
}

// LiteralPattern matches a literal value: `0`, `"x"`, `true`.
type LiteralPattern struct {
	Token lexer.Token
	Value interface{}
}

func (p *LiteralPattern) Pos() lexer.Position { return p.Token.Position }
func (p *LiteralPattern) End() lexer.Position { return p.Token.Span().End }
func (p *LiteralPattern) patternNode()        {}

// IdentPattern binds the scrutinee (or sub-value) to a new name: `x`.
type IdentPattern struct {
	Name      *IdentifierExpr
	IsMutable bool
}

func (p *IdentPattern) Pos() lexer.Position { return p.Name.Pos() }
func (p *IdentPattern) End() lexer.Position { return p.Name.End() }
func (p *IdentPattern) patternNode()        {}

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	UnderscorePos lexer.Position
}

func (p *WildcardPattern) Pos() lexer.Position { return p.UnderscorePos }
func (p *WildcardPattern) End() lexer.Position { return p.UnderscorePos }
func (p *WildcardPattern) patternNode()        {}

// VariantPattern matches an enum variant, optionally destructuring its
// carried tuple fields: `Color::Red`, `Shape::Circle(r)`.
type VariantPattern struct {
	Qualifier  *IdentifierExpr // enum name, may be empty when inferred from context
	Variant    *IdentifierExpr
	SubPattern []Pattern // empty for unit variants
}

func (p *VariantPattern) Pos() lexer.Position { return p.Variant.Pos() }
func (p *VariantPattern) End() lexer.Position {
	if len(p.SubPattern) > 0 {
		return p.SubPattern[len(p.SubPattern)-1].End()
	}
	return p.Variant.End()
}
func (p *VariantPattern) patternNode() {}

// TuplePattern destructures a tuple: `(a, b, _)`.
type TuplePattern struct {
	LeftParen  lexer.Token
	Elements   []Pattern
	RightParen lexer.Token
}

func (p *TuplePattern) Pos() lexer.Position { return p.LeftParen.Position }
func (p *TuplePattern) End() lexer.Position { return p.RightParen.Position }
func (p *TuplePattern) patternNode()        {}

// StructPattern destructures named fields: `Point { x, y }`.
type StructPattern struct {
	TypeName   *IdentifierExpr
	Fields     []*FieldPattern
	LeftBrace  lexer.Token
	RightBrace lexer.Token
}

func (p *StructPattern) Pos() lexer.Position { return p.TypeName.Pos() }
func (p *StructPattern) End() lexer.Position { return p.RightBrace.Position }
func (p *StructPattern) patternNode()        {}

// FieldPattern is one `name` or `name: subpattern` entry of a StructPattern.
type FieldPattern struct {
	Name        *IdentifierExpr
	SubPattern  Pattern // nil means shorthand binding to Name
}

// RangePattern matches a numeric range: `0..10`, `'a'..='z'`.
type RangePattern struct {
	Start       Pattern
	End_        Pattern
	IsInclusive bool
}

func (p *RangePattern) Pos() lexer.Position { return p.Start.Pos() }
func (p *RangePattern) End() lexer.Position { return p.End_.End() }
func (p *RangePattern) patternNode()        {}

// OrPattern matches if any alternative matches: `1 | 2 | 3`.
type OrPattern struct {
	Alternatives []Pattern
}

func (p *OrPattern) Pos() lexer.Position { return p.Alternatives[0].Pos() }
func (p *OrPattern) End() lexer.Position { return p.Alternatives[len(p.Alternatives)-1].End() }
func (p *OrPattern) patternNode()        {}
