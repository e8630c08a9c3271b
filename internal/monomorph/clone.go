package monomorph

import (
	"github.com/otabekoff/flc/internal/parser/ast"
	"github.com/otabekoff/flc/internal/semantic/types"
)

// cloneExpr deep-clones an expression tree, rewriting any identifier
// whose name is bound in subst to the concrete type's spelling. A
// generic parameter name can only ever appear as a type reference in
// this grammar (type parameters aren't values), so substituting every
// matching IdentifierExpr regardless of position is safe.
//
// Every clone gets its own nodes rather than sharing the generic
// template's: re-running semantic analysis over a specialized file is
// how each clone's parameter gets bound to a concrete type, and the
// analyzer's type map is keyed by node identity. Two instantiations
// sharing a node would have the second clobber the first's recorded
// type.
func cloneExpr(e ast.Expr, subst map[string]types.Type) ast.Expr {
	if e == nil {
		return nil
	}

	switch n := e.(type) {
	case *ast.IdentifierExpr:
		if t, ok := subst[n.Name]; ok {
			return &ast.IdentifierExpr{Token: n.Token, Name: t.String()}
		}
		clone := *n
		return &clone

	case *ast.BinaryExpr:
		return &ast.BinaryExpr{Left: cloneExpr(n.Left, subst), Operator: n.Operator, Right: cloneExpr(n.Right, subst)}

	case *ast.UnaryExpr:
		return &ast.UnaryExpr{Operator: n.Operator, Operand: cloneExpr(n.Operand, subst), IsPostfix: n.IsPostfix}

	case *ast.LiteralExpr:
		clone := *n
		return &clone

	case *ast.CallExpr:
		return &ast.CallExpr{Callee: cloneExpr(n.Callee, subst), LeftParen: n.LeftParen, Args: cloneExprs(n.Args, subst), RightParen: n.RightParen}

	case *ast.IndexExpr:
		return &ast.IndexExpr{Object: cloneExpr(n.Object, subst), LeftBracket: n.LeftBracket, Index: cloneExpr(n.Index, subst), RightBracket: n.RightBracket}

	case *ast.MemberExpr:
		member := *n.Member
		return &ast.MemberExpr{Object: cloneExpr(n.Object, subst), Dot: n.Dot, Member: &member}

	case *ast.AssignmentExpr:
		return &ast.AssignmentExpr{Target: cloneExpr(n.Target, subst), Operator: n.Operator, Value: cloneExpr(n.Value, subst)}

	case *ast.LogicalExpr:
		return &ast.LogicalExpr{Left: cloneExpr(n.Left, subst), Operator: n.Operator, Right: cloneExpr(n.Right, subst)}

	case *ast.GroupingExpr:
		return &ast.GroupingExpr{LeftParen: n.LeftParen, Expression: cloneExpr(n.Expression, subst), RightParen: n.RightParen}

	case *ast.ArrayLiteralExpr:
		return &ast.ArrayLiteralExpr{LeftBracket: n.LeftBracket, ElementType: cloneExpr(n.ElementType, subst), Elements: cloneExprs(n.Elements, subst), RightBrace: n.RightBrace}

	case *ast.StructLiteralExpr:
		fields := make([]*ast.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = &ast.FieldInit{Name: f.Name, Colon: f.Colon, Value: cloneExpr(f.Value, subst)}
		}
		typeName := *n.TypeName
		if t, ok := subst[typeName.Name]; ok {
			typeName.Name = t.String()
		}
		return &ast.StructLiteralExpr{TypeName: &typeName, LeftBrace: n.LeftBrace, Fields: fields, RightBrace: n.RightBrace}

	case *ast.MoveExpr:
		return &ast.MoveExpr{MovePos: n.MovePos, Operand: cloneExpr(n.Operand, subst)}

	case *ast.CastExpr:
		target := *n.TargetName
		if t, ok := subst[target.Name]; ok {
			target.Name = t.String()
		}
		return &ast.CastExpr{Operand: cloneExpr(n.Operand, subst), AsPos: n.AsPos, TargetName: &target}

	case *ast.TupleExpr:
		return &ast.TupleExpr{LeftParen: n.LeftParen, Elements: cloneExprs(n.Elements, subst), RightParen: n.RightParen}

	case *ast.SliceExpr:
		return &ast.SliceExpr{Base: cloneExpr(n.Base, subst), LeftBracket: n.LeftBracket, Start: cloneExpr(n.Start, subst), End_: cloneExpr(n.End_, subst), RightBracket: n.RightBracket}

	case *ast.RangeExpr:
		return &ast.RangeExpr{Start: cloneExpr(n.Start, subst), Operator: n.Operator, EndExpr: cloneExpr(n.EndExpr, subst), IsInclusive: n.IsInclusive}

	case *ast.LambdaExpr:
		params := make([]*ast.Parameter, len(n.Params))
		for i, p := range n.Params {
			params[i] = cloneParameter(p, subst)
		}
		return &ast.LambdaExpr{PipePos: n.PipePos, Params: params, ReturnType: cloneExpr(n.ReturnType, subst), Body: cloneExpr(n.Body, subst)}

	case *ast.AwaitExpr:
		return &ast.AwaitExpr{AwaitPos: n.AwaitPos, Operand: cloneExpr(n.Operand, subst)}

	case *ast.SpawnExpr:
		return &ast.SpawnExpr{SpawnPos: n.SpawnPos, Operand: cloneExpr(n.Operand, subst)}

	case *ast.TryExpr:
		return &ast.TryExpr{Operand: cloneExpr(n.Operand, subst), QuestionMark: n.QuestionMark}

	case *ast.ReferenceTypeExpr:
		return &ast.ReferenceTypeExpr{AmpPos: n.AmpPos, IsMutable: n.IsMutable, Referent: cloneExpr(n.Referent, subst)}

	case *ast.SliceTypeExpr:
		return &ast.SliceTypeExpr{LeftBracket: n.LeftBracket, Element: cloneExpr(n.Element, subst)}

	case *ast.ArrayTypeExpr:
		return &ast.ArrayTypeExpr{LeftBracket: n.LeftBracket, Size: cloneExpr(n.Size, subst), Element: cloneExpr(n.Element, subst)}

	case *ast.TupleTypeExpr:
		return &ast.TupleTypeExpr{LeftParen: n.LeftParen, Elements: cloneExprs(n.Elements, subst), RightParen: n.RightParen}

	case *ast.GenericTypeExpr:
		base := *n.Base
		if t, ok := subst[base.Name]; ok {
			base.Name = t.String()
		}
		return &ast.GenericTypeExpr{Base: &base, Less: n.Less, Arguments: cloneExprs(n.Arguments, subst), Greater: n.Greater}

	case *ast.PathExpr:
		return &ast.PathExpr{Left: cloneExpr(n.Left, subst), ColonColon: n.ColonColon, Right: n.Right}

	default:
		return e
	}
}

func cloneExprs(in []ast.Expr, subst map[string]types.Type) []ast.Expr {
	if in == nil {
		return nil
	}
	out := make([]ast.Expr, len(in))
	for i, e := range in {
		out[i] = cloneExpr(e, subst)
	}
	return out
}

func cloneParameter(p *ast.Parameter, subst map[string]types.Type) *ast.Parameter {
	clone := *p
	clone.Type = cloneExpr(p.Type, subst)
	return &clone
}

func cloneStmt(s ast.Stmt, subst map[string]types.Type) ast.Stmt {
	if s == nil {
		return nil
	}

	switch n := s.(type) {
	case *ast.ExprStmt:
		return &ast.ExprStmt{Expression: cloneExpr(n.Expression, subst)}

	case *ast.BlockStmt:
		return cloneBlock(n, subst)

	case *ast.IfStmt:
		return &ast.IfStmt{IfPos: n.IfPos, Condition: cloneExpr(n.Condition, subst), ThenBranch: cloneBlock(n.ThenBranch, subst), ElseBranch: cloneStmt(n.ElseBranch, subst)}

	case *ast.WhileStmt:
		return &ast.WhileStmt{WhilePos: n.WhilePos, Condition: cloneExpr(n.Condition, subst), Body: cloneBlock(n.Body, subst)}

	case *ast.ForStmt:
		return &ast.ForStmt{ForPos: n.ForPos, Init: cloneStmt(n.Init, subst), Condition: cloneExpr(n.Condition, subst), Post: cloneStmt(n.Post, subst), Body: cloneBlock(n.Body, subst)}

	case *ast.ReturnStmt:
		return &ast.ReturnStmt{ReturnPos: n.ReturnPos, Value: cloneExpr(n.Value, subst)}

	case *ast.BreakStmt:
		clone := *n
		return &clone

	case *ast.ContinueStmt:
		clone := *n
		return &clone

	case *ast.SwitchStmt:
		cases := make([]*ast.CaseClause, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = cloneCase(c, subst)
		}
		return &ast.SwitchStmt{SwitchPos: n.SwitchPos, Value: cloneExpr(n.Value, subst), Cases: cases}

	case *ast.LetStmt:
		names := append([]*ast.IdentifierExpr(nil), n.Names...)
		return &ast.LetStmt{LetPos: n.LetPos, Names: names, Type: cloneExpr(n.Type, subst), Initializer: cloneExpr(n.Initializer, subst), IsMutable: n.IsMutable, IsConst: n.IsConst}

	case *ast.VarDecl:
		names := append([]*ast.IdentifierExpr(nil), n.Names...)
		return &ast.VarDecl{VarPos: n.VarPos, Names: names, Type: cloneExpr(n.Type, subst), Initializer: cloneExpr(n.Initializer, subst), IsMutable: n.IsMutable, IsConst: n.IsConst, Visibility: n.Visibility}

	case *ast.LoopStmt:
		return &ast.LoopStmt{LoopPos: n.LoopPos, Body: cloneBlock(n.Body, subst)}

	case *ast.MatchStmt:
		arms := make([]*ast.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = &ast.MatchArm{Pattern: clonePattern(a.Pattern, subst), Guard: cloneExpr(a.Guard, subst), FatArrow: a.FatArrow, Body: cloneStmt(a.Body, subst)}
		}
		return &ast.MatchStmt{MatchPos: n.MatchPos, Scrutinee: cloneExpr(n.Scrutinee, subst), Arms: arms, RightBrace: n.RightBrace}

	case *ast.ForEachStmt:
		binding := *n.Binding
		return &ast.ForEachStmt{ForPos: n.ForPos, Binding: &binding, Iterable: cloneExpr(n.Iterable, subst), Body: cloneBlock(n.Body, subst)}

	default:
		return s
	}
}

func cloneBlock(b *ast.BlockStmt, subst map[string]types.Type) *ast.BlockStmt {
	if b == nil {
		return nil
	}
	stmts := make([]ast.Stmt, len(b.Statements))
	for i, st := range b.Statements {
		stmts[i] = cloneStmt(st, subst)
	}
	return &ast.BlockStmt{LeftBrace: b.LeftBrace, Statements: stmts, RightBrace: b.RightBrace}
}

func cloneCase(c *ast.CaseClause, subst map[string]types.Type) *ast.CaseClause {
	body := make([]ast.Stmt, len(c.Body))
	for i, st := range c.Body {
		body[i] = cloneStmt(st, subst)
	}
	return &ast.CaseClause{CasePos: c.CasePos, Values: cloneExprs(c.Values, subst), Colon: c.Colon, Body: body, IsDefault: c.IsDefault}
}

func clonePattern(p ast.Pattern, subst map[string]types.Type) ast.Pattern {
	if p == nil {
		return nil
	}

	switch n := p.(type) {
	case *ast.LiteralPattern:
		clone := *n
		return &clone

	case *ast.IdentPattern:
		clone := *n
		return &clone

	case *ast.WildcardPattern:
		clone := *n
		return &clone

	case *ast.VariantPattern:
		sub := make([]ast.Pattern, len(n.SubPattern))
		for i, e := range n.SubPattern {
			sub[i] = clonePattern(e, subst)
		}
		return &ast.VariantPattern{Qualifier: n.Qualifier, Variant: n.Variant, SubPattern: sub}

	case *ast.TuplePattern:
		elems := make([]ast.Pattern, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = clonePattern(e, subst)
		}
		return &ast.TuplePattern{LeftParen: n.LeftParen, Elements: elems, RightParen: n.RightParen}

	case *ast.StructPattern:
		fields := make([]*ast.FieldPattern, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = &ast.FieldPattern{Name: f.Name, SubPattern: clonePattern(f.SubPattern, subst)}
		}
		return &ast.StructPattern{TypeName: n.TypeName, Fields: fields, LeftBrace: n.LeftBrace, RightBrace: n.RightBrace}

	case *ast.RangePattern:
		return &ast.RangePattern{Start: clonePattern(n.Start, subst), End_: clonePattern(n.End_, subst), IsInclusive: n.IsInclusive}

	case *ast.OrPattern:
		alts := make([]ast.Pattern, len(n.Alternatives))
		for i, a := range n.Alternatives {
			alts[i] = clonePattern(a, subst)
		}
		return &ast.OrPattern{Alternatives: alts}

	default:
		return p
	}
}
