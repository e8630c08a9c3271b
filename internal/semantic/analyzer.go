// Package semantic implements semantic analysis for the compiler.
//
// SEMANTIC ANALYSIS:
// After parsing, we have a syntactically correct AST, but it might not be semantically valid.
// Semantic analysis checks:
// 1. Name resolution - are all names defined before use?
// 2. Type checking - do operations use compatible types?
// 3. Control flow - are break/continue/return used correctly?
// 4. Definite assignment - are variables initialized before use?
//
// DESIGN PHILOSOPHY:
// - Collect all errors, don't stop at the first one
// - Use the visitor pattern to traverse the AST
// - Build symbol table while checking
// - Annotate AST with type information (stored separately)
//
// PASSES:
// Analyze walks the top-level declarations twice: the first pass declares
// every name, the second checks each declaration, so a declaration may
// refer to one that appears later in the file.
package semantic

import (
	"fmt"
	"strings"

	"github.com/otabekoff/flc/internal/lexer"
	"github.com/otabekoff/flc/internal/parser/ast"
	"github.com/otabekoff/flc/internal/semantic/ownership"
	"github.com/otabekoff/flc/internal/semantic/types"
	"github.com/otabekoff/flc/internal/symtab"
)

// Analyzer performs semantic analysis on an AST.
//
// DESIGN CHOICE: Implement the visitor pattern to traverse the AST because:
// - Separation of concerns (AST structure vs analysis)
// - Can be reused for other analyses
// - Standard pattern in compilers
type Analyzer struct {
	// currentScope tracks the current scope during traversal
	currentScope *symtab.Scope

	// globalScope is the top-level scope
	globalScope *symtab.Scope

	// errors accumulates all semantic errors
	errors []error

	// exprTypes maps expressions to their computed types
	// We store this separately rather than modifying the AST because:
	// - AST is immutable (good for concurrent access)
	// - Can run analysis multiple times
	// - Cleaner separation of concerns
	exprTypes map[ast.Expr]types.Type

	// currentFunction tracks the function we're currently analyzing
	// Used for:
	// - Checking return types
	// - Determining if we're in a function (for return statements)
	currentFunction *symtab.Symbol

	// instantiations records every distinct generic-type-argument list a
	// generic struct or function is instantiated with, keyed by the
	// generic's declared name. The monomorphizer walks this set after
	// analysis to generate one concrete specialization per entry.
	instantiations map[string][][]types.Type

	// ownership runs the Alive/Moved/BorrowedShared/BorrowedExclusive
	// state machine for the function currently being checked: markMoved,
	// checkUse and clearMoved all delegate to it, and VisitIfStmt forks
	// it per branch and joins the results back together afterward.
	ownership *ownership.Tracker

	// traits maps each trait name to its declaration so an impl of it
	// can be checked for missing required methods; impls collects every
	// impl block visited. No orphan-rule check is made.
	traits map[string]*ast.TraitDecl
	impls  []*ast.ImplDecl

	// selfType is the receiver type `Self` resolves to while checking
	// the methods of the impl block currently being visited, nil
	// outside of one.
	selfType types.Type

	// genericFuncs remembers each generic function's type parameter
	// list by name, so a call site can infer concrete type arguments
	// from the call's argument types and record the instantiation.
	genericFuncs map[string][]*ast.GenericParam
}

// recordInstantiation notes that genericName was instantiated with args,
// skipping an argument list that is element-wise Equal to one already
// recorded for that name.
func (a *Analyzer) recordInstantiation(genericName string, args []types.Type) {
	key := make([]byte, 0, 32)
	for _, arg := range args {
		key = append(key, []byte(arg.String())...)
		key = append(key, ',')
	}
	for _, existing := range a.instantiations[genericName] {
		if len(existing) != len(args) {
			continue
		}
		same := true
		for i := range existing {
			if !existing[i].Equals(args[i]) {
				same = false
				break
			}
		}
		if same {
			return
		}
	}
	a.instantiations[genericName] = append(a.instantiations[genericName], args)
}

// Instantiations returns the recorded generic instantiation sets,
// genericName -> list of concrete type-argument lists.
func (a *Analyzer) Instantiations() map[string][][]types.Type {
	return a.instantiations
}

// markMoved records that symbol's value was moved at pos. A second use
// before the symbol is reassigned is reported by checkUse. A move out of
// a currently-borrowed symbol is itself an ownership error.
func (a *Analyzer) markMoved(symbol *symtab.Symbol, pos lexer.Position) {
	if err := a.ownership.Move(symbol, pos); err != nil {
		a.error(pos, err.Error())
	}
}

// checkUse reports a use-after-move error if symbol was previously moved.
func (a *Analyzer) checkUse(symbol *symtab.Symbol, pos lexer.Position) {
	if err := a.ownership.CheckUse(symbol, pos); err != nil {
		a.error(pos, err.Error())
	}
}

// clearMoved marks a symbol alive again, e.g. after it is reassigned.
func (a *Analyzer) clearMoved(symbol *symtab.Symbol) {
	a.ownership.Reinit(symbol)
}

// borrowShared records a `&expr` taken of symbol, reporting a conflict if
// symbol was moved out or is already exclusively borrowed.
func (a *Analyzer) borrowShared(symbol *symtab.Symbol, pos lexer.Position) {
	if err := a.ownership.BorrowShared(symbol, pos); err != nil {
		a.error(pos, err.Error())
	}
}

// borrowExclusive records a `&mut expr` taken of symbol, reporting a
// conflict if symbol was moved out or any borrow of it is already live.
func (a *Analyzer) borrowExclusive(symbol *symtab.Symbol, pos lexer.Position) {
	if err := a.ownership.BorrowExclusive(symbol, pos); err != nil {
		a.error(pos, err.Error())
	}
}

var _ ast.Visitor = (*Analyzer)(nil)

// New creates a new semantic analyzer.
func New() *Analyzer {
	globalScope := symtab.NewScope(symtab.ScopeGlobal, nil)
	return &Analyzer{
		currentScope:   globalScope,
		globalScope:    globalScope,
		errors:         make([]error, 0),
		exprTypes:      make(map[ast.Expr]types.Type),
		instantiations: make(map[string][][]types.Type),
		ownership:      ownership.NewTracker(),
		traits:         make(map[string]*ast.TraitDecl),
		impls:          make([]*ast.ImplDecl, 0),
		genericFuncs:   make(map[string][]*ast.GenericParam),
	}
}

// Analyze performs semantic analysis on a file.
// Returns the list of errors found (empty if no errors).
func (a *Analyzer) Analyze(file *ast.File) []error {
	// Reset state
	a.errors = make([]error, 0)
	a.exprTypes = make(map[ast.Expr]types.Type)
	a.instantiations = make(map[string][][]types.Type)
	a.ownership = ownership.NewTracker()
	a.traits = make(map[string]*ast.TraitDecl)
	a.impls = make([]*ast.ImplDecl, 0)
	a.currentScope = a.globalScope

	// Process package declaration
	if file.Package == nil {
		a.error(lexer.Position{}, "missing package declaration")
		return a.errors
	}

	// Process imports
	for _, imp := range file.Imports {
		a.processImport(imp)
	}

	// Process declarations
	// We do this in two passes:
	// 1. Declare all names (to allow forward references)
	// 2. Check all bodies
	for _, decl := range file.Decls {
		a.declareDecl(decl)
	}

	for _, decl := range file.Decls {
		_ = decl.Accept(a)
	}

	return a.errors
}

// processImport processes an import declaration
func (a *Analyzer) processImport(imp *ast.ImportDecl) {
	name := imp.Path.Value.(string)
	if imp.Name != nil {
		name = imp.Name.Name
	}

	symbol := &symtab.Symbol{
		Name: name,
		Kind: symtab.SymbolPackage,
		Type: types.Invalid, // Packages don't have a type
		Pos:  imp.Pos(),
	}

	if err := a.currentScope.Define(symbol); err != nil {
		a.error(imp.Pos(), err.Error())
	}
}

// declareDecl declares a top-level declaration without checking its body
func (a *Analyzer) declareDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		// Declare variables
		for _, name := range d.Names {
			// Type will be determined later
			symbol := &symtab.Symbol{
				Name:     name.Name,
				Kind:     symtab.SymbolVariable,
				Type:     types.Invalid, // Will be set during checking
				Pos:      name.Pos(),
				Constant: false,
			}
			if err := a.currentScope.Define(symbol); err != nil {
				a.error(name.Pos(), err.Error())
			}
		}

	case *ast.FuncDecl:
		// Declare function
		symbol := &symtab.Symbol{
			Name: d.Name.Name,
			Kind: symtab.SymbolFunction,
			Type: types.Invalid, // Will be set during checking
			Pos:  d.Pos(),
		}
		if err := a.currentScope.Define(symbol); err != nil {
			a.error(d.Name.Pos(), err.Error())
		}

	case *ast.StructDecl:
		// Declare struct type
		symbol := &symtab.Symbol{
			Name:   d.Name.Name,
			Kind:   symtab.SymbolStruct,
			Type:   types.Invalid, // Will be set during checking
			Pos:    d.Pos(),
			Fields: make(map[string]*symtab.Symbol),
		}
		if err := a.currentScope.Define(symbol); err != nil {
			a.error(d.Name.Pos(), err.Error())
		}

	case *ast.TypeDecl:
		// Declare type alias
		symbol := &symtab.Symbol{
			Name: d.Name.Name,
			Kind: symtab.SymbolType,
			Type: types.Invalid, // Will be set during checking
			Pos:  d.Pos(),
		}
		if err := a.currentScope.Define(symbol); err != nil {
			a.error(d.Name.Pos(), err.Error())
		}
	}
}

// Visitor implementation for declarations

func (a *Analyzer) VisitVarDecl(decl *ast.VarDecl) error {
	// Determine the type
	var varType types.Type
	var initType types.Type

	// Evaluate initializer if present
	if decl.Initializer != nil {
		result, _ := decl.Initializer.Accept(a)
		initType = result.(types.Type)
	}

	if decl.Type != nil {
		// Explicit type
		varType = a.resolveType(decl.Type)

		// Check initializer type matches declared type (if both present)
		if decl.Initializer != nil {
			if !a.assignable(initType, varType, decl.Initializer.Pos()) {
				// Error already reported by assignable
			}
		}
	} else if decl.Initializer != nil {
		// Infer from initializer
		varType = initType
	} else {
		a.error(decl.Pos(), "variable declaration must have type or initializer")
		varType = types.Invalid
	}

	// Declare or update symbols
	for _, name := range decl.Names {
		symbol := a.currentScope.LookupLocal(name.Name)
		if symbol != nil {
			// Update existing symbol (global scope)
			symbol.Type = varType
		} else {
			// Declare new symbol (local scope)
			symbol = &symtab.Symbol{
				Name:     name.Name,
				Kind:     symtab.SymbolVariable,
				Type:     varType,
				Pos:      name.Pos(),
				Constant: false,
			}
			if err := a.currentScope.Define(symbol); err != nil {
				a.error(name.Pos(), err.Error())
			}
		}
	}

	return nil
}

func (a *Analyzer) VisitFuncDecl(decl *ast.FuncDecl) error {
	symbol := a.globalScope.LookupLocal(decl.Name.Name)

	// Create function scope before resolving parameter/return types: a
	// generic parameter (func identity<T>(x: T) -> T) must already be
	// bound to a GenericParamType in scope by the time resolveType looks
	// it up, and that binding is scoped to this function alone.
	a.enterScope(symtab.ScopeFunction)
	a.currentScope.Function = symbol
	a.currentFunction = symbol

	a.defineGenerics(decl.Generics)
	if len(decl.Generics) > 0 {
		a.genericFuncs[decl.Name.Name] = decl.Generics
	}

	// Build parameter types
	paramTypes := make([]types.Type, len(decl.Params))
	for i, param := range decl.Params {
		paramTypes[i] = a.resolveType(param.Type)
	}

	// Determine return type
	var returnType types.Type
	if decl.ReturnType != nil {
		returnType = a.resolveType(decl.ReturnType)
	} else {
		returnType = types.Void
	}

	// Create function type
	funcType := types.NewFunction(paramTypes, returnType)
	if symbol != nil {
		symbol.Type = funcType
	}

	// Add parameters to scope
	for i, param := range decl.Params {
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

	// Check function body
	if decl.Body != nil {
		_ = decl.Body.Accept(a)
	}

	a.exitScope()
	a.currentFunction = nil

	return nil
}

func (a *Analyzer) VisitStructDecl(decl *ast.StructDecl) error {
	// Field types are resolved in a dedicated struct scope so a generic
	// parameter (struct Box<T> { value: T }) binds to a GenericParamType
	// only while this struct's own fields are being resolved.
	a.enterScope(symtab.ScopeStruct)
	a.defineGenerics(decl.Generics)

	structFields := make([]types.StructField, len(decl.Fields))
	fieldSymbols := make(map[string]*symtab.Symbol)

	for i, field := range decl.Fields {
		fieldType := a.resolveType(field.Type)
		structFields[i] = types.StructField{
			Name: field.Name.Name,
			Type: fieldType,
		}

		// Create field symbol
		fieldSymbol := &symtab.Symbol{
			Name:  field.Name.Name,
			Kind:  symtab.SymbolField,
			Type:  fieldType,
			Pos:   field.Pos(),
			Index: i,
		}
		fieldSymbols[field.Name.Name] = fieldSymbol
	}

	a.exitScope()

	// Create struct type
	structType := types.NewStruct(decl.Name.Name, structFields)

	// Update the struct symbol
	symbol := a.globalScope.LookupLocal(decl.Name.Name)
	if symbol != nil {
		symbol.Type = structType
		symbol.Fields = fieldSymbols
	}

	return nil
}

// defineGenerics binds each of a generic declaration's type parameters
// to a GenericParamType in the current scope, so field/parameter/return
// type expressions referencing them by name resolve instead of failing
// as an undefined type.
func (a *Analyzer) defineGenerics(generics []*ast.GenericParam) {
	for _, gp := range generics {
		genSymbol := &symtab.Symbol{
			Name: gp.Name.Name,
			Kind: symtab.SymbolType,
			Type: &types.GenericParamType{Name: gp.Name.Name},
			Pos:  gp.Name.Pos(),
		}
		if err := a.currentScope.Define(genSymbol); err != nil {
			a.error(gp.Name.Pos(), err.Error())
		}
	}
}

func (a *Analyzer) VisitTypeDecl(decl *ast.TypeDecl) error {
	// Resolve the aliased type
	aliasedType := a.resolveType(decl.Type)

	// Update the type symbol
	symbol := a.globalScope.LookupLocal(decl.Name.Name)
	if symbol != nil {
		symbol.Type = aliasedType
	}

	return nil
}

// Visitor implementation for statements

func (a *Analyzer) VisitExprStmt(stmt *ast.ExprStmt) error {
	_, err := stmt.Expression.Accept(a)
	return err
}

func (a *Analyzer) VisitBlockStmt(stmt *ast.BlockStmt) error {
	a.enterScope(symtab.ScopeBlock)
	for _, s := range stmt.Statements {
		_ = s.Accept(a)
	}
	a.exitScope()
	return nil
}

func (a *Analyzer) VisitIfStmt(stmt *ast.IfStmt) error {
	// Check condition
	condType, _ := stmt.Condition.Accept(a)
	if !types.IsBooleanType(condType.(types.Type)) {
		a.error(stmt.Condition.Pos(), "condition must be boolean")
	}

	// Each branch is checked against its own fork of the ownership state,
	// so a move made on the `then` side doesn't leak into the `else`
	// side's analysis. Join reconciles the branches afterward: a place
	// left alive on one side and moved on the other is reported right
	// here, at the point their paths merge, rather than at whatever
	// later use would otherwise silently pick one branch's story.
	preBranch := a.ownership

	thenTracker := preBranch.Fork()
	a.ownership = thenTracker
	_ = stmt.ThenBranch.Accept(a)

	var elseTracker *ownership.Tracker
	if stmt.ElseBranch != nil {
		elseTracker = preBranch.Fork()
		a.ownership = elseTracker
		_ = stmt.ElseBranch.Accept(a)
	} else {
		// No else branch: the implicit empty arm leaves every place
		// exactly as it was before the if, so join against that.
		elseTracker = preBranch
	}

	a.ownership = preBranch
	for _, err := range a.ownership.Join(stmt.Pos(), thenTracker, elseTracker) {
		a.error(stmt.Pos(), err.Error())
	}

	return nil
}

func (a *Analyzer) VisitWhileStmt(stmt *ast.WhileStmt) error {
	// Check condition
	condType, _ := stmt.Condition.Accept(a)
	if !types.IsBooleanType(condType.(types.Type)) {
		a.error(stmt.Condition.Pos(), "condition must be boolean")
	}

	// Check body
	a.enterScope(symtab.ScopeLoop)
	_ = stmt.Body.Accept(a)
	a.exitScope()

	return nil
}

func (a *Analyzer) VisitForStmt(stmt *ast.ForStmt) error {
	a.enterScope(symtab.ScopeLoop)

	// Check init
	if stmt.Init != nil {
		_ = stmt.Init.Accept(a)
	}

	// Check condition
	if stmt.Condition != nil {
		condType, _ := stmt.Condition.Accept(a)
		if !types.IsBooleanType(condType.(types.Type)) {
			a.error(stmt.Condition.Pos(), "condition must be boolean")
		}
	}

	// Check post
	if stmt.Post != nil {
		_ = stmt.Post.Accept(a)
	}

	// Check body
	_ = stmt.Body.Accept(a)

	a.exitScope()
	return nil
}

func (a *Analyzer) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	// Check if we're in a function
	if a.currentFunction == nil {
		a.error(stmt.Pos(), "return outside function")
		return nil
	}

	// Get expected return type
	funcType := a.currentFunction.Type.(*types.FunctionType)
	expectedType := funcType.ReturnType

	// Check return value
	if stmt.Value != nil {
		returnType, _ := stmt.Value.Accept(a)
		if !a.assignable(returnType.(types.Type), expectedType, stmt.Value.Pos()) {
			// Error already reported
		}
	} else {
		// Void return
		if !expectedType.Equals(types.Void) {
			a.error(stmt.Pos(), fmt.Sprintf("expected return value of type %s", expectedType))
		}
	}

	return nil
}

func (a *Analyzer) VisitBreakStmt(stmt *ast.BreakStmt) error {
	if a.currentScope.FindEnclosingLoopOrSwitch() == nil {
		a.error(stmt.Pos(), "break outside loop or switch")
	}
	return nil
}

func (a *Analyzer) VisitContinueStmt(stmt *ast.ContinueStmt) error {
	if a.currentScope.FindEnclosingLoop() == nil {
		a.error(stmt.Pos(), "continue outside loop")
	}
	return nil
}

func (a *Analyzer) VisitSwitchStmt(stmt *ast.SwitchStmt) error {
	// Check value
	valueType, _ := stmt.Value.Accept(a)

	a.enterScope(symtab.ScopeSwitch)

	// Check cases
	for _, c := range stmt.Cases {
		if !c.IsDefault {
			for _, val := range c.Values {
				caseType, _ := val.Accept(a)
				if !a.assignable(caseType.(types.Type), valueType.(types.Type), val.Pos()) {
					// Error already reported
				}
			}
		}

		// Check body
		for _, s := range c.Body {
			_ = s.Accept(a)
		}
	}

	a.exitScope()
	return nil
}

// Visitor implementation for expressions (continued in next part...)

// Helper functions

// enterScope creates a new scope. Borrows taken inside it are tracked
// separately so exitScope can release exactly those.
func (a *Analyzer) enterScope(kind symtab.ScopeKind) {
	a.currentScope = symtab.NewScope(kind, a.currentScope)
	a.ownership.EnterScope()
}

// exitScope returns to the parent scope and releases any borrows taken
// since the matching enterScope.
func (a *Analyzer) exitScope() {
	a.ownership.ExitScope()
	if a.currentScope.Parent != nil {
		a.currentScope = a.currentScope.Parent
	}
}

// error records a semantic error
func (a *Analyzer) error(pos lexer.Position, message string) {
	if pos.IsValid() {
		a.errors = append(a.errors, fmt.Errorf("%s: %s", pos.String(), message))
	} else {
		a.errors = append(a.errors, fmt.Errorf("%s", message))
	}
}

// builtinTypeNames maps the surface names of primitive types to their
// singleton Type instances. Legacy lowercase aliases (int, float, ...)
// are kept alongside the width-explicit names so existing teacher-style
// sources keep resolving the same way they always did.
var builtinTypeNames = map[string]types.Type{
	"int":   types.Int,
	"float": types.Float,
	"bool":  types.Bool,
	"Bool":  types.Bool,
	"string": types.String,
	"String": types.String,
	"char":  types.Char,
	"Char":  types.Char,
	"void":  types.Void,
	"Void":  types.Void,
	"Never": types.Never,

	"Int8":  types.Int8,
	"Int16": types.Int16,
	"Int32": types.Int32,
	"Int64": types.Int64,
	"Int128": types.Int128,
	"UInt8":  types.UInt8,
	"UInt16": types.UInt16,
	"UInt32": types.UInt32,
	"UInt64": types.UInt64,
	"UInt128": types.UInt128,

	"Float32":  types.Float32,
	"Float64":  types.Float64,
	"Float128": types.Float128,
}

// resolveType converts an AST type expression to a Type. Besides plain
// identifiers, it understands the reference/slice/array/tuple/generic
// type-position nodes the parser builds for &T, []T, [N]T, (T1, T2), and
// Name<T1, T2>.
func (a *Analyzer) resolveType(typeExpr ast.Expr) types.Type {
	switch t := typeExpr.(type) {
	case *ast.IdentifierExpr:
		if t.Name == "Self" && a.selfType != nil {
			return a.selfType
		}
		if builtin, ok := builtinTypeNames[t.Name]; ok {
			return builtin
		}

		// Look up user-defined type
		symbol := a.currentScope.Lookup(t.Name)
		if symbol == nil {
			msg := fmt.Sprintf("undefined type: %s", t.Name)
			if generics := a.currentScope.GenericParams(); len(generics) > 0 {
				msg += fmt.Sprintf(" (generic parameters in scope: %s)", strings.Join(generics, ", "))
			}
			a.error(t.Pos(), msg)
			return types.Invalid
		}

		if symbol.Kind != symtab.SymbolType && symbol.Kind != symtab.SymbolStruct {
			a.error(t.Pos(), fmt.Sprintf("%s is not a type", t.Name))
			return types.Invalid
		}

		return symbol.Type

	case *ast.ReferenceTypeExpr:
		referent := a.resolveType(t.Referent)
		return types.NewReference(referent, t.IsMutable)

	case *ast.SliceTypeExpr:
		element := a.resolveType(t.Element)
		return types.NewSlice(element)

	case *ast.ArrayTypeExpr:
		element := a.resolveType(t.Element)
		size := -1
		if lit, ok := t.Size.(*ast.LiteralExpr); ok {
			if n, ok := lit.Value.(int64); ok {
				size = int(n)
			}
		}
		return types.NewArray(element, size)

	case *ast.TupleTypeExpr:
		elements := make([]types.Type, len(t.Elements))
		for i, el := range t.Elements {
			elements[i] = a.resolveType(el)
		}
		return types.NewTuple(elements)

	case *ast.GenericTypeExpr:
		return a.resolveGenericType(t)

	default:
		a.error(typeExpr.Pos(), "invalid type expression")
		return types.Invalid
	}
}

// resolveGenericType handles the built-in generic containers (Option,
// Result) directly and otherwise resolves a user generic struct's
// instantiation, recording it for monomorphization (see
// internal/monomorph) under the generic's base name.
func (a *Analyzer) resolveGenericType(t *ast.GenericTypeExpr) types.Type {
	args := make([]types.Type, len(t.Arguments))
	for i, arg := range t.Arguments {
		args[i] = a.resolveType(arg)
	}

	switch t.Base.Name {
	case "Option":
		if len(args) != 1 {
			a.error(t.Pos(), "Option takes exactly one type argument")
			return types.Invalid
		}
		return types.NewOption(args[0])
	case "Result":
		if len(args) != 2 {
			a.error(t.Pos(), "Result takes exactly two type arguments")
			return types.Invalid
		}
		return types.NewResult(args[0], args[1])
	}

	symbol := a.currentScope.Lookup(t.Base.Name)
	if symbol == nil {
		a.error(t.Base.Pos(), fmt.Sprintf("undefined generic type: %s", t.Base.Name))
		return types.Invalid
	}
	a.recordInstantiation(t.Base.Name, args)
	return symbol.Type
}

// assignable checks if valueType can be assigned to targetType
// Reports an error if not assignable
func (a *Analyzer) assignable(valueType, targetType types.Type, pos lexer.Position) bool {
	if valueType.AssignableTo(targetType) {
		return true
	}

	a.error(pos, fmt.Sprintf("cannot assign %s to %s", valueType, targetType))
	return false
}

// GetExprType returns the type of an expression (after analysis)
func (a *Analyzer) GetExprType(expr ast.Expr) types.Type {
	if t, ok := a.exprTypes[expr]; ok {
		return t
	}
	return types.Invalid
}

// ResolveType exposes resolveType to callers outside the package (the IR
// builder, which needs a local's declared type and has no other way to
// reach it since type-position expressions never go through Accept and so
// never land in exprTypes).
func (a *Analyzer) ResolveType(expr ast.Expr) types.Type {
	return a.resolveType(expr)
}

// GetScope returns the global scope (for inspection)
func (a *Analyzer) GetScope() *symtab.Scope {
	return a.globalScope
}
