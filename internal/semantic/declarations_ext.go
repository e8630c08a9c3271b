package semantic

import (
	"fmt"

	"github.com/otabekoff/flc/internal/parser/ast"
	"github.com/otabekoff/flc/internal/semantic/types"
	"github.com/otabekoff/flc/internal/symtab"
)

// Statement and declaration visitors for the control-flow, pattern, and
// algebraic-data-type surface the teacher's C-like grammar never needed.

func (a *Analyzer) VisitForEachStmt(stmt *ast.ForEachStmt) error {
	iterableType, _ := stmt.Iterable.Accept(a)

	var elementType types.Type
	switch it := iterableType.(type) {
	case *types.ArrayType:
		elementType = it.ElementType
	case *types.SliceType:
		elementType = it.ElementType
	case types.Type:
		// A RangeExpr's Accept already returns the per-step element type.
		elementType = it
	default:
		a.error(stmt.Iterable.Pos(), "expression is not iterable")
		elementType = types.Invalid
	}

	a.enterScope(symtab.ScopeLoop)
	bindingSymbol := &symtab.Symbol{
		Name: stmt.Binding.Name,
		Kind: symtab.SymbolVariable,
		Type: elementType,
		Pos:  stmt.Binding.Pos(),
	}
	if err := a.currentScope.Define(bindingSymbol); err != nil {
		a.error(stmt.Binding.Pos(), err.Error())
	}
	_ = stmt.Body.Accept(a)
	a.exitScope()

	return nil
}

func (a *Analyzer) VisitLoopStmt(stmt *ast.LoopStmt) error {
	a.enterScope(symtab.ScopeLoop)
	_ = stmt.Body.Accept(a)
	a.exitScope()
	return nil
}

func (a *Analyzer) VisitMatchStmt(stmt *ast.MatchStmt) error {
	scrutineeType, _ := stmt.Scrutinee.Accept(a)
	scrutinee := scrutineeType.(types.Type)

	hasCatchAll := false
	coveredVariants := make(map[string]bool)

	for _, arm := range stmt.Arms {
		a.enterScope(symtab.ScopeBlock)
		a.bindPattern(arm.Pattern, scrutinee)

		if arm.Guard != nil {
			guardType, _ := arm.Guard.Accept(a)
			if !types.IsBooleanType(guardType.(types.Type)) {
				a.error(arm.Guard.Pos(), "match guard must be boolean")
			}
		}

		_ = arm.Body.Accept(a)
		a.exitScope()

		if arm.IsCatchAll() {
			hasCatchAll = true
		}
		if variant, ok := arm.Pattern.(*ast.VariantPattern); ok && arm.Guard == nil {
			coveredVariants[variant.Variant.Name] = true
		}
	}

	if enumType, ok := scrutinee.(*types.EnumType); ok && !hasCatchAll {
		for _, variant := range enumType.Variants {
			if !coveredVariants[variant.Name] {
				a.error(stmt.Pos(),
					fmt.Sprintf("match on %s is not exhaustive: missing variant %s",
						enumType.Name, variant.Name))
			}
		}
	}

	return nil
}

// bindPattern declares the bindings a pattern introduces for scrutinee
// into the current scope. Unlike resolveType, a pattern never produces a
// type itself — it only narrows and destructures one already known from
// the scrutinee or an enclosing pattern.
func (a *Analyzer) bindPattern(pattern ast.Pattern, scrutinee types.Type) {
	switch p := pattern.(type) {
	case *ast.IdentPattern:
		symbol := &symtab.Symbol{
			Name: p.Name.Name,
			Kind: symtab.SymbolVariable,
			Type: scrutinee,
			Pos:  p.Pos(),
		}
		if err := a.currentScope.Define(symbol); err != nil {
			a.error(p.Pos(), err.Error())
		}

	case *ast.WildcardPattern:
		// Binds nothing.

	case *ast.LiteralPattern:
		// No bindings; type compatibility with scrutinee is a cheap
		// check left to the exhaustiveness/never-matches pass.

	case *ast.VariantPattern:
		enumType, ok := scrutinee.(*types.EnumType)
		if !ok {
			a.error(p.Pos(), fmt.Sprintf("%s is not an enum value", scrutinee))
			return
		}
		variant := enumType.LookupVariant(p.Variant.Name)
		if variant == nil {
			a.error(p.Variant.Pos(),
				fmt.Sprintf("enum %s has no variant %s", enumType.Name, p.Variant.Name))
			return
		}
		if len(p.SubPattern) != len(variant.Fields) {
			a.error(p.Pos(),
				fmt.Sprintf("variant %s carries %d field(s), pattern has %d",
					variant.Name, len(variant.Fields), len(p.SubPattern)))
			return
		}
		for i, sub := range p.SubPattern {
			a.bindPattern(sub, variant.Fields[i])
		}

	case *ast.TuplePattern:
		tupleType, ok := scrutinee.(*types.TupleType)
		if !ok {
			a.error(p.Pos(), fmt.Sprintf("%s is not a tuple value", scrutinee))
			return
		}
		if len(p.Elements) != len(tupleType.Elements) {
			a.error(p.Pos(),
				fmt.Sprintf("tuple has %d element(s), pattern has %d",
					len(tupleType.Elements), len(p.Elements)))
			return
		}
		for i, sub := range p.Elements {
			a.bindPattern(sub, tupleType.Elements[i])
		}

	case *ast.StructPattern:
		structType, ok := scrutinee.(*types.StructType)
		if !ok {
			a.error(p.Pos(), fmt.Sprintf("%s is not a struct value", scrutinee))
			return
		}
		for _, field := range p.Fields {
			structField := structType.LookupField(field.Name.Name)
			if structField == nil {
				a.error(field.Name.Pos(),
					fmt.Sprintf("struct %s has no field %s", structType.Name, field.Name.Name))
				continue
			}
			if field.SubPattern != nil {
				a.bindPattern(field.SubPattern, structField.Type)
			} else {
				symbol := &symtab.Symbol{
					Name: field.Name.Name,
					Kind: symtab.SymbolVariable,
					Type: structField.Type,
					Pos:  field.Name.Pos(),
				}
				if err := a.currentScope.Define(symbol); err != nil {
					a.error(field.Name.Pos(), err.Error())
				}
			}
		}

	case *ast.RangePattern:
		// No bindings.

	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			a.bindPattern(alt, scrutinee)
		}
	}
}

func (a *Analyzer) VisitLetStmt(stmt *ast.LetStmt) error {
	var initType types.Type
	if stmt.Initializer != nil {
		result, _ := stmt.Initializer.Accept(a)
		initType = result.(types.Type)
	}

	var declaredType types.Type
	if stmt.Type != nil {
		declaredType = a.resolveType(stmt.Type)
		if stmt.Initializer != nil {
			a.assignable(initType, declaredType, stmt.Initializer.Pos())
		}
	} else if stmt.Initializer != nil {
		declaredType = initType
	} else {
		a.error(stmt.Pos(), "let binding must have a type or initializer")
		declaredType = types.Invalid
	}

	if len(stmt.Names) == 1 {
		a.defineLocal(stmt.Names[0], declaredType, stmt.IsConst)
		return nil
	}

	// Tuple destructuring: `let (a, b) = pair;`
	tupleType, ok := declaredType.(*types.TupleType)
	if !ok {
		a.error(stmt.Pos(), fmt.Sprintf("cannot destructure non-tuple value of type %s", declaredType))
		for _, name := range stmt.Names {
			a.defineLocal(name, types.Invalid, stmt.IsConst)
		}
		return nil
	}
	if len(tupleType.Elements) != len(stmt.Names) {
		a.error(stmt.Pos(),
			fmt.Sprintf("tuple has %d element(s), let binds %d name(s)",
				len(tupleType.Elements), len(stmt.Names)))
	}
	for i, name := range stmt.Names {
		elemType := types.Type(types.Invalid)
		if i < len(tupleType.Elements) {
			elemType = tupleType.Elements[i]
		}
		a.defineLocal(name, elemType, stmt.IsConst)
	}

	return nil
}

func (a *Analyzer) defineLocal(name *ast.IdentifierExpr, t types.Type, isConst bool) {
	symbol := &symtab.Symbol{
		Name:     name.Name,
		Kind:     symtab.SymbolVariable,
		Type:     t,
		Pos:      name.Pos(),
		Constant: isConst,
	}
	if err := a.currentScope.Define(symbol); err != nil {
		a.error(name.Pos(), err.Error())
	}
}

func (a *Analyzer) VisitEnumDecl(decl *ast.EnumDecl) error {
	variants := make([]types.EnumVariant, len(decl.Variants))
	for i, variant := range decl.Variants {
		fields := make([]types.Type, len(variant.Fields))
		for j, fieldType := range variant.Fields {
			fields[j] = a.resolveType(fieldType)
		}
		variants[i] = types.EnumVariant{Name: variant.Name.Name, Fields: fields}
	}

	enumType := types.NewEnum(decl.Name.Name, variants)

	symbol := a.globalScope.LookupLocal(decl.Name.Name)
	if symbol == nil {
		symbol = &symtab.Symbol{
			Name: decl.Name.Name,
			Kind: symtab.SymbolEnum,
			Pos:  decl.Pos(),
		}
		if err := a.globalScope.Define(symbol); err != nil {
			a.error(decl.Pos(), err.Error())
			return nil
		}
	}
	symbol.Kind = symtab.SymbolEnum
	symbol.Type = enumType

	return nil
}

func (a *Analyzer) VisitTraitDecl(decl *ast.TraitDecl) error {
	a.traits[decl.Name.Name] = decl

	symbol := a.globalScope.LookupLocal(decl.Name.Name)
	if symbol == nil {
		symbol = &symtab.Symbol{
			Name: decl.Name.Name,
			Kind: symtab.SymbolTrait,
			Type: types.Invalid, // traits are a constraint, not a value type
			Pos:  decl.Pos(),
		}
		if err := a.globalScope.Define(symbol); err != nil {
			a.error(decl.Pos(), err.Error())
		}
	}

	// A trait's default method bodies are not type-checked: the implicit
	// `self` receiver's type isn't known until an impl binds it, and
	// VisitImplDecl checks only the methods an impl block defines itself.
	return nil
}

func (a *Analyzer) VisitImplDecl(decl *ast.ImplDecl) error {
	a.impls = append(a.impls, decl)

	targetSymbol := a.globalScope.Lookup(decl.TargetType.Name)
	if targetSymbol == nil {
		a.error(decl.TargetType.Pos(), fmt.Sprintf("undefined type: %s", decl.TargetType.Name))
		return nil
	}

	if decl.TraitName != nil {
		traitDecl, ok := a.traits[decl.TraitName.Name]
		if !ok {
			a.error(decl.TraitName.Pos(), fmt.Sprintf("undefined trait: %s", decl.TraitName.Name))
		} else {
			a.checkTraitSatisfied(decl, traitDecl)
		}
	}

	prevSelf := a.selfType
	a.selfType = targetSymbol.Type
	for _, method := range decl.Methods {
		if method.Body == nil {
			continue
		}
		a.checkMethodBody(method)
	}
	a.selfType = prevSelf

	return nil
}

// checkMethodBody type-checks an impl method body. It
// mirrors VisitFuncDecl but builds its own function symbol rather than
// looking one up in the global scope, since impl/trait methods are
// never declared there by declareDecl's first pass.
func (a *Analyzer) checkMethodBody(method *ast.FuncDecl) {
	paramTypes := make([]types.Type, len(method.Params))
	for i, param := range method.Params {
		paramTypes[i] = a.resolveType(param.Type)
	}

	var returnType types.Type
	if method.ReturnType != nil {
		returnType = a.resolveType(method.ReturnType)
	} else {
		returnType = types.Void
	}

	funcType := types.NewFunction(paramTypes, returnType)
	methodSymbol := &symtab.Symbol{
		Name: method.Name.Name,
		Kind: symtab.SymbolFunction,
		Type: funcType,
		Pos:  method.Pos(),
	}

	a.enterScope(symtab.ScopeFunction)
	a.currentScope.Function = methodSymbol
	prevFunction := a.currentFunction
	a.currentFunction = methodSymbol

	for i, param := range method.Params {
		paramSymbol := &symtab.Symbol{
			Name:  param.Name.Name,
			Kind:  symtab.SymbolParameter,
			Type:  paramTypes[i],
			Pos:   param.Pos(),
			Index: i,
		}
		if err := a.currentScope.Define(paramSymbol); err != nil {
			a.error(param.Pos(), err.Error())
		}
	}

	if method.Body != nil {
		_ = method.Body.Accept(a)
	}

	a.exitScope()
	a.currentFunction = prevFunction
}

// checkTraitSatisfied reports a required method with no matching impl
// method and no default body to fall back on. It does not check method
// signatures structurally — the teacher's nominal struct typing has no
// notion of trait-bound structural comparison, so a name match is the
// resolution this exercise settles on.
func (a *Analyzer) checkTraitSatisfied(impl *ast.ImplDecl, trait *ast.TraitDecl) {
	implemented := make(map[string]bool)
	for _, method := range impl.Methods {
		implemented[method.Name.Name] = true
	}

	for _, required := range trait.Methods {
		if required.Body != nil {
			continue // has a default, impl may omit it
		}
		if !implemented[required.Name.Name] {
			a.error(impl.Pos(),
				fmt.Sprintf("impl %s for %s is missing required method %s",
					trait.Name.Name, impl.TargetType.Name, required.Name.Name))
		}
	}
}
