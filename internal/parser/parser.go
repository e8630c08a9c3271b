// Package parser implements a recursive descent parser for the compiler.
//
// PARSING STRATEGY:
// We use a combination of:
// 1. Recursive Descent for statements and declarations
// 2. Pratt Parsing (precedence climbing) for expressions
//
// WHY RECURSIVE DESCENT?
// - Easy to understand and implement
// - Direct mapping from grammar to code
// - Good error messages (you know exactly what you expected)
// - Efficient (no table lookups or complex data structures)
//
// WHY PRATT PARSING FOR EXPRESSIONS?
// - Elegant handling of operator precedence
// - Easy to extend with new operators
// - Compact code
// - Better than precedence climbing for complex expression grammars
//
// ERROR HANDLING STRATEGY:
// - Report errors but continue parsing (find multiple errors in one pass)
// - Use panic/recover for error recovery at statement boundaries
// - Return errors to caller for fine-grained control
package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/otabekoff/flc/internal/lexer"
	"github.com/otabekoff/flc/internal/parser/ast"
)

// Parser converts a stream of tokens into an Abstract Syntax Tree.
//
// DESIGN CHOICE: Parser is a struct with methods rather than functions because:
// - State management (current token, errors, etc.)
// - Error recovery needs access to parser state
// - Recursive descent naturally fits object-oriented style
type Parser struct {
	// lexer is the source of tokens
	lexer *lexer.Lexer

	// current is the token we're currently examining
	current lexer.Token

	// previous is the last token we consumed (useful for error messages)
	previous lexer.Token

	// errors accumulates all parsing errors
	// DESIGN CHOICE: Accumulate errors rather than stopping at first error because:
	// - Better developer experience (see all errors at once)
	// - Matches what modern compilers do
	// - Doesn't slow down the parser significantly
	errors []error

	// panicMode tracks if we're in panic mode (recovering from an error)
	// During panic mode, we skip tokens until we find a synchronization point
	panicMode bool
}

// New creates a new parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		lexer:  l,
		errors: make([]error, 0),
	}
	// Prime the parser by reading the first token
	p.advance()
	return p
}

// ParseFile parses a complete source file.
//
// GRAMMAR:
//   file = package imports* decls* EOF
//
// Returns the AST and any errors encountered.
// DESIGN CHOICE: Return both AST and errors (not nil AST on error) because:
// - Partial AST is useful for IDE features even with errors
// - Allows incremental parsing in IDEs
// - Error recovery produces a valid (though incomplete) AST
func (p *Parser) ParseFile(filename string) (*ast.File, []error) {
	file := &ast.File{
		Filename: filename,
		Imports:  make([]*ast.ImportDecl, 0),
		Decls:    make([]ast.Decl, 0),
		Comments: make([]*ast.Comment, 0),
	}

	// Skip any leading comments and collect them
	for p.match(lexer.TokenComment) {
		file.Comments = append(file.Comments, &ast.Comment{
			Position: p.previous.Position,
			Text:     p.previous.Lexeme,
			IsBlock:  p.previous.Lexeme[1] == '*', // /* vs //
		})
	}

	// Parse package declaration (required)
	if p.match(lexer.TokenPackage) {
		file.Package = p.parsePackageDecl()
	} else {
		p.error("expected 'package' declaration at start of file")
	}

	// Parse imports
	for p.match(lexer.TokenImport) {
		file.Imports = append(file.Imports, p.parseImportDecl())
	}

	// Parse top-level declarations
	for !p.isAtEnd() {
		// Skip comments
		if p.match(lexer.TokenComment) {
			file.Comments = append(file.Comments, &ast.Comment{
				Position: p.previous.Position,
				Text:     p.previous.Lexeme,
				IsBlock:  p.previous.Lexeme[1] == '*',
			})
			continue
		}

		decl := p.parseDecl()
		if decl != nil {
			file.Decls = append(file.Decls, decl)
		}
	}

	return file, p.errors
}

// parsePackageDecl parses a package declaration: package name
func (p *Parser) parsePackageDecl() *ast.PackageDecl {
	// We've already consumed the 'package' keyword
	packagePos := p.previous.Position

	if !p.check(lexer.TokenIdentifier) {
		p.error("expected package name")
		return nil
	}

	name := &ast.IdentifierExpr{
		Token: p.current,
		Name:  p.current.Lexeme,
	}
	p.advance()

	return &ast.PackageDecl{
		PackagePos: packagePos,
		Name:       name,
	}
}

// parseImportDecl parses an import declaration:
//   import "path"
//   import alias "path"
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	// We've already consumed the 'import' keyword
	importPos := p.previous.Position

	var name *ast.IdentifierExpr

	// Check for optional alias
	if p.check(lexer.TokenIdentifier) {
		name = &ast.IdentifierExpr{
			Token: p.current,
			Name:  p.current.Lexeme,
		}
		p.advance()
	}

	// Expect string path
	if !p.check(lexer.TokenString) {
		p.error("expected import path (string)")
		return nil
	}

	path := &ast.LiteralExpr{
		Token: p.current,
		Value: p.parseStringLiteral(p.current.Lexeme),
	}
	p.advance()

	return &ast.ImportDecl{
		ImportPos: importPos,
		Name:      name,
		Path:      path,
	}
}

// parseDecl parses a top-level declaration.
//
// GRAMMAR:
//   decl = varDecl | funcDecl | typeDecl | structDecl
func (p *Parser) parseDecl() ast.Decl {
	// Use panic/recover for error recovery
	// If we panic during parsing, we'll recover at this level
	defer func() {
		if r := recover(); r != nil {
			// We panicked - synchronize to the next statement
			p.synchronize()
		}
	}()

	visibility := ast.VisibilityPrivate
	if p.match(lexer.TokenPub) {
		visibility = ast.VisibilityPublic
	}

	switch {
	case p.match(lexer.TokenVar), p.match(lexer.TokenLet):
		decl := p.parseVarDecl()
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenConst):
		decl := p.parseVarDecl()
		decl.IsConst = true
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenAsync):
		p.consume(lexer.TokenFunc, "expected 'func' after 'async'")
		decl := p.parseFuncDecl()
		decl.IsAsync = true
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenFunc):
		decl := p.parseFuncDecl()
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenTypeKeyword):
		return p.parseTypeDecl()
	case p.match(lexer.TokenStruct):
		decl := p.parseStructDecl()
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenClass):
		decl := p.parseStructDecl()
		decl.Visibility = visibility
		decl.IsClass = true
		return decl
	case p.match(lexer.TokenEnum):
		decl := p.parseEnumDecl()
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenTrait):
		decl := p.parseTraitDecl()
		decl.Visibility = visibility
		return decl
	case p.match(lexer.TokenImpl):
		return p.parseImplDecl()
	default:
		p.error(fmt.Sprintf("expected declaration, got %s", p.current.Type))
		panic("invalid declaration")
	}
}

// parseGenericParams parses an optional `<T: Bound1 + Bound2, U>` list.
func (p *Parser) parseGenericParams() []*ast.GenericParam {
	if !p.match(lexer.TokenLess) {
		return nil
	}

	params := make([]*ast.GenericParam, 0)
	for {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected generic parameter name")
			break
		}
		name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()

		var bounds []*ast.IdentifierExpr
		if p.match(lexer.TokenColon) {
			for {
				if !p.check(lexer.TokenIdentifier) {
					p.error("expected trait bound")
					break
				}
				bounds = append(bounds, &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme})
				p.advance()
				if !p.match(lexer.TokenPlus) {
					break
				}
			}
		}

		params = append(params, &ast.GenericParam{Name: name, Bounds: bounds})
		if !p.match(lexer.TokenComma) {
			break
		}
	}

	p.consume(lexer.TokenGreater, "expected '>' after generic parameter list")
	return params
}

// parseWhereClause parses an optional `where T: Trait, U: Trait` clause.
func (p *Parser) parseWhereClause() *ast.WhereClause {
	if !p.match(lexer.TokenWhere) {
		return nil
	}
	wherePos := p.previous.Position
	bounds := make([]*ast.GenericParam, 0)
	for {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected type parameter name in where clause")
			break
		}
		name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()
		p.consume(lexer.TokenColon, "expected ':' in where clause")

		var traitBounds []*ast.IdentifierExpr
		for {
			if !p.check(lexer.TokenIdentifier) {
				p.error("expected trait bound in where clause")
				break
			}
			traitBounds = append(traitBounds, &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme})
			p.advance()
			if !p.match(lexer.TokenPlus) {
				break
			}
		}
		bounds = append(bounds, &ast.GenericParam{Name: name, Bounds: traitBounds})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	return &ast.WhereClause{WherePos: wherePos, Bounds: bounds}
}

// parseEnumDecl parses `enum Name { Variant, Variant2(T1, T2), ... }`.
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	enumPos := p.previous.Position
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected enum name")
		panic("invalid enum declaration")
	}
	name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()

	generics := p.parseGenericParams()

	p.consume(lexer.TokenLeftBrace, "expected '{' before enum body")
	leftBrace := p.previous

	variants := make([]*ast.EnumVariant, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected variant name")
			break
		}
		variantName := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()

		var fields []ast.Expr
		if p.match(lexer.TokenLeftParen) {
			for !p.check(lexer.TokenRightParen) {
				fields = append(fields, p.parseType())
				if !p.match(lexer.TokenComma) {
					break
				}
			}
			p.consume(lexer.TokenRightParen, "expected ')' after variant fields")
		}

		variants = append(variants, &ast.EnumVariant{Name: variantName, Fields: fields})
		if !p.match(lexer.TokenComma) {
			break
		}
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after enum body")
	_ = leftBrace

	return &ast.EnumDecl{
		EnumPos:    enumPos,
		Name:       name,
		Generics:   generics,
		Variants:   variants,
		LeftBrace:  leftBrace,
		RightBrace: p.previous,
	}
}

// parseTraitDecl parses `trait Name { fn required(...) -> T; fn withDefault(...) -> T { ... } }`.
func (p *Parser) parseTraitDecl() *ast.TraitDecl {
	traitPos := p.previous.Position
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected trait name")
		panic("invalid trait declaration")
	}
	name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()

	generics := p.parseGenericParams()

	p.consume(lexer.TokenLeftBrace, "expected '{' before trait body")
	leftBrace := p.previous

	methods := make([]*ast.FuncDecl, 0)
	assocTypes := make([]*ast.AssociatedTypeDecl, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if p.match(lexer.TokenTypeKeyword) {
			typePos := p.previous.Position
			atName := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
			p.consume(lexer.TokenIdentifier, "expected associated type name")
			var def ast.Expr
			if p.match(lexer.TokenAssign) {
				def = p.parseType()
			}
			p.consume(lexer.TokenSemicolon, "expected ';' after associated type")
			assocTypes = append(assocTypes, &ast.AssociatedTypeDecl{TypePos: typePos, Name: atName, Default: def})
			continue
		}
		p.consume(lexer.TokenFunc, "expected 'func' or 'type' in trait body")
		method := p.parseFuncDeclSignatureOrBody()
		methods = append(methods, method)
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after trait body")

	return &ast.TraitDecl{
		TraitPos:       traitPos,
		Name:           name,
		Generics:       generics,
		AssociatedType: assocTypes,
		Methods:        methods,
		LeftBrace:      leftBrace,
		RightBrace:     p.previous,
	}
}

// parseImplDecl parses `impl [Trait for] Type [where ...] { methods }`.
func (p *Parser) parseImplDecl() *ast.ImplDecl {
	implPos := p.previous.Position
	generics := p.parseGenericParams()

	if !p.check(lexer.TokenIdentifier) {
		p.error("expected type or trait name after 'impl'")
		panic("invalid impl declaration")
	}
	first := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()

	var traitName, targetType *ast.IdentifierExpr
	if p.match(lexer.TokenFor) {
		traitName = first
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected type name after 'for'")
			panic("invalid impl declaration")
		}
		targetType = &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()
	} else {
		targetType = first
	}

	where := p.parseWhereClause()

	p.consume(lexer.TokenLeftBrace, "expected '{' before impl body")
	leftBrace := p.previous

	methods := make([]*ast.FuncDecl, 0)
	assocBindings := make([]*ast.AssociatedTypeBinding, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		if p.match(lexer.TokenTypeKeyword) {
			atName := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
			p.consume(lexer.TokenIdentifier, "expected associated type name")
			p.consume(lexer.TokenAssign, "expected '=' in associated type binding")
			value := p.parseType()
			p.consume(lexer.TokenSemicolon, "expected ';' after associated type binding")
			assocBindings = append(assocBindings, &ast.AssociatedTypeBinding{Name: atName, Value: value})
			continue
		}
		p.consume(lexer.TokenFunc, "expected 'func' or 'type' in impl body")
		methods = append(methods, p.parseFuncDeclSignatureOrBody())
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after impl body")

	return &ast.ImplDecl{
		ImplPos:        implPos,
		Generics:       generics,
		TraitName:      traitName,
		TargetType:     targetType,
		Where:          where,
		AssociatedType: assocBindings,
		Methods:        methods,
		LeftBrace:      leftBrace,
		RightBrace:     p.previous,
	}
}

// parseVarDecl parses a variable declaration:
//   var name type
//   var name type = value
//   var name = value (type inferred)
//   var name1, name2, name3 type
func (p *Parser) parseVarDecl() *ast.VarDecl {
	// We've already consumed 'var' or 'let'
	varPos := p.previous.Position
	isMutable := p.match(lexer.TokenMut)
	return p.finishVarDecl(varPos, isMutable)
}

// parseLetStmt parses `let (a, b) = pair;` tuple-destructuring form, used
// only in statement position (unlike parseVarDecl's single/multi-name form).
func (p *Parser) parseLetStmt() ast.Stmt {
	// We've already consumed 'let'
	varPos := p.previous.Position
	isMutable := p.match(lexer.TokenMut)

	if !p.check(lexer.TokenLeftParen) {
		// Falls back to the ordinary single/multi-name var form.
		decl := p.finishVarDecl(varPos, isMutable)
		return decl
	}

	p.advance() // consume '('
	names := make([]*ast.IdentifierExpr, 0)
	for {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected binding name in tuple destructuring")
			break
		}
		names = append(names, &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme})
		p.advance()
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRightParen, "expected ')' after tuple destructuring pattern")

	var typeExpr ast.Expr
	if !p.check(lexer.TokenAssign) {
		typeExpr = p.parseType()
	}

	p.consume(lexer.TokenAssign, "expected '=' in tuple-destructuring let")
	initializer := p.parseExpression()
	p.consume(lexer.TokenSemicolon, "expected ';' after let statement")

	return &ast.LetStmt{
		LetPos:      varPos,
		Names:       names,
		Type:        typeExpr,
		Initializer: initializer,
		IsMutable:   isMutable,
	}
}

// finishVarDecl parses the name(s)/type/initializer tail shared by `var`
// and single-binding `let`, given that the leading keyword (and any `mut`)
// has already been consumed.
func (p *Parser) finishVarDecl(varPos lexer.Position, isMutable bool) *ast.VarDecl {
	names := make([]*ast.IdentifierExpr, 0)
	for {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected variable name")
			panic("invalid variable declaration")
		}
		names = append(names, &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme})
		p.advance()
		if !p.match(lexer.TokenComma) {
			break
		}
	}

	var typeExpr ast.Expr
	var initializer ast.Expr
	if !p.check(lexer.TokenAssign) && !p.check(lexer.TokenSemicolon) {
		typeExpr = p.parseType()
	}
	if p.match(lexer.TokenAssign) {
		initializer = p.parseExpression()
	}
	if typeExpr == nil && initializer == nil {
		p.error("variable declaration must have either type or initializer")
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after variable declaration")

	return &ast.VarDecl{
		VarPos:      varPos,
		Names:       names,
		Type:        typeExpr,
		Initializer: initializer,
		IsMutable:   isMutable,
	}
}

// parseFuncDecl parses a function declaration:
//   func name(params) returnType { body }
//   func name(params) { body } (void function)
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	// We've already consumed 'func'
	return p.parseFuncDeclSignatureOrBody()
}

// parseFuncDeclSignatureOrBody parses a function declaration, either with a
// body (`func f() { ... }`, the normal case) or without one (`func f();`,
// used for a trait's required methods; the parser accepts it at top level
// too). We've already consumed 'func'.
func (p *Parser) parseFuncDeclSignatureOrBody() *ast.FuncDecl {
	funcPos := p.previous.Position

	if !p.check(lexer.TokenIdentifier) {
		p.error("expected function name")
		panic("invalid function declaration")
	}
	name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()

	generics := p.parseGenericParams()

	p.consume(lexer.TokenLeftParen, "expected '(' after function name")
	params, receiverPos := p.parseParameters()
	p.consume(lexer.TokenRightParen, "expected ')' after parameters")

	where := p.parseWhereClause()

	var returnType ast.Expr
	if !p.check(lexer.TokenLeftBrace) && !p.check(lexer.TokenSemicolon) {
		returnType = p.parseType()
	}

	var body *ast.BlockStmt
	if p.check(lexer.TokenLeftBrace) {
		body = p.parseBlockStmt()
	} else if p.match(lexer.TokenSemicolon) {
		// Required trait method: no body.
	} else {
		p.error("expected function body")
	}

	return &ast.FuncDecl{
		FuncPos:     funcPos,
		Name:        name,
		Generics:    generics,
		Where:       where,
		Params:      params,
		ReturnType:  returnType,
		Body:        body,
		ReceiverPos: receiverPos,
	}
}

// parseParameters parses function parameters, including an optional
// leading `self`/`&self`/`&mut self` receiver and `mut`/`&`/`&mut`
// modifiers on ordinary parameters.
func (p *Parser) parseParameters() ([]*ast.Parameter, lexer.Position) {
	params := make([]*ast.Parameter, 0)
	var receiverPos lexer.Position

	if p.check(lexer.TokenRightParen) {
		return params, receiverPos
	}

	first := true
	for {
		isRef := false
		isMutable := false
		startPos := p.current.Position

		if p.match(lexer.TokenBitAnd) {
			isRef = true
			isMutable = p.match(lexer.TokenMut)
		} else if p.match(lexer.TokenMut) {
			isMutable = true
		}

		if first && p.check(lexer.TokenSelf) {
			selfTok := p.current
			p.advance()
			receiverPos = startPos
			params = append(params, &ast.Parameter{
				Name:      &ast.IdentifierExpr{Token: selfTok, Name: "self"},
				Type:      &ast.IdentifierExpr{Token: selfTok, Name: "Self"},
				IsSelf:    true,
				IsMutable: isMutable,
				IsRef:     isRef,
			})
			first = false
			if !p.match(lexer.TokenComma) {
				break
			}
			continue
		}
		first = false

		if !p.check(lexer.TokenIdentifier) {
			p.error("expected parameter name")
			break
		}

		name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()

		p.match(lexer.TokenColon) // optional ':' between name and type
		typeExpr := p.parseType()

		params = append(params, &ast.Parameter{
			Name:      name,
			Type:      typeExpr,
			IsMutable: isMutable,
			IsRef:     isRef,
		})

		if !p.match(lexer.TokenComma) {
			break
		}
	}

	return params, receiverPos
}

// parseTypeDecl parses a type alias declaration: type Name = Type
func (p *Parser) parseTypeDecl() *ast.TypeDecl {
	// We've already consumed 'type'
	typePos := p.previous.Position

	// Parse type name
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected type name")
		panic("invalid type declaration")
	}

	name := &ast.IdentifierExpr{
		Token: p.current,
		Name:  p.current.Lexeme,
	}
	p.advance()

	// Expect '='
	p.consume(lexer.TokenAssign, "expected '=' in type declaration")

	// Parse the type
	typeExpr := p.parseType()

	p.consume(lexer.TokenSemicolon, "expected ';' after type declaration")

	return &ast.TypeDecl{
		TypePos: typePos,
		Name:    name,
		Type:    typeExpr,
	}
}

// parseStructDecl parses a struct declaration:
//   struct Name { fields }
func (p *Parser) parseStructDecl() *ast.StructDecl {
	// We've already consumed 'struct'
	structPos := p.previous.Position

	// Parse struct name
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected struct name")
		panic("invalid struct declaration")
	}

	name := &ast.IdentifierExpr{
		Token: p.current,
		Name:  p.current.Lexeme,
	}
	p.advance()

	generics := p.parseGenericParams()

	// Parse fields
	p.consume(lexer.TokenLeftBrace, "expected '{' before struct body")
	leftBrace := p.previous

	fields := make([]*ast.FieldDecl, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		fieldVisibility := ast.VisibilityPrivate
		if p.match(lexer.TokenPub) {
			fieldVisibility = ast.VisibilityPublic
		}

		// Parse field name
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected field name")
			break
		}

		fieldName := &ast.IdentifierExpr{
			Token: p.current,
			Name:  p.current.Lexeme,
		}
		p.advance()

		p.match(lexer.TokenColon) // optional ':' between name and type

		// Parse field type
		fieldType := p.parseType()

		fields = append(fields, &ast.FieldDecl{
			Name:       fieldName,
			Type:       fieldType,
			Visibility: fieldVisibility,
		})

		// Expect semicolon or comma after each field
		if !p.match(lexer.TokenComma) {
			p.consume(lexer.TokenSemicolon, "expected ';' after field declaration")
		}
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after struct body")
	rightBrace := p.previous

	return &ast.StructDecl{
		StructPos:  structPos,
		Name:       name,
		Generics:   generics,
		LeftBrace:  leftBrace,
		Fields:     fields,
		RightBrace: rightBrace,
	}
}

// parseType parses a type expression.
//
// GRAMMAR:
//   type = '&' 'mut'? type            // reference
//        | '[' ']' type               // slice
//        | '[' expr ']' type          // fixed-size array
//        | '(' type (',' type)* ')'   // tuple
//        | identifier ('<' type (',' type)* '>')?  // named, possibly generic
func (p *Parser) parseType() ast.Expr {
	if p.check(lexer.TokenBitAnd) {
		ampPos := p.current.Position
		p.advance()
		isMutable := p.match(lexer.TokenMut)
		referent := p.parseType()
		return &ast.ReferenceTypeExpr{AmpPos: ampPos, IsMutable: isMutable, Referent: referent}
	}

	if p.check(lexer.TokenLeftBracket) {
		leftBracket := p.current
		p.advance()
		if p.match(lexer.TokenRightBracket) {
			element := p.parseType()
			return &ast.SliceTypeExpr{LeftBracket: leftBracket, Element: element}
		}
		size := p.parseExpression()
		p.consume(lexer.TokenRightBracket, "expected ']' after array size")
		element := p.parseType()
		return &ast.ArrayTypeExpr{LeftBracket: leftBracket, Size: size, Element: element}
	}

	if p.check(lexer.TokenLeftParen) {
		leftParen := p.current
		p.advance()
		elements := make([]ast.Expr, 0)
		for !p.check(lexer.TokenRightParen) {
			elements = append(elements, p.parseType())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRightParen, "expected ')' after tuple type")
		return &ast.TupleTypeExpr{LeftParen: leftParen, Elements: elements, RightParen: p.previous}
	}

	if !p.check(lexer.TokenIdentifier) {
		p.error("expected type name")
		return nil
	}

	typeExpr := &ast.IdentifierExpr{
		Token: p.current,
		Name:  p.current.Lexeme,
	}
	p.advance()

	if !p.check(lexer.TokenLess) {
		return typeExpr
	}

	less := p.current
	p.advance()
	args := make([]ast.Expr, 0)
	for !p.check(lexer.TokenGreater) {
		args = append(args, p.parseType())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenGreater, "expected '>' after generic type arguments")

	return &ast.GenericTypeExpr{Base: typeExpr, Less: less, Arguments: args, Greater: p.previous}
}

// parseStmt parses a statement.
//
// GRAMMAR:
//   stmt = exprStmt | blockStmt | ifStmt | whileStmt | forStmt
//        | returnStmt | breakStmt | continueStmt | switchStmt
//        | varDecl
func (p *Parser) parseStmt() ast.Stmt {
	// Use panic/recover for error recovery
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseBlockStmt()
	case p.match(lexer.TokenIf):
		return p.parseIfStmt()
	case p.match(lexer.TokenWhile):
		return p.parseWhileStmt()
	case p.match(lexer.TokenFor):
		return p.parseForOrForEachStmt()
	case p.match(lexer.TokenLoop):
		return p.parseLoopStmt()
	case p.match(lexer.TokenMatch):
		return p.parseMatchStmt()
	case p.match(lexer.TokenReturn):
		return p.parseReturnStmt()
	case p.match(lexer.TokenBreak):
		return p.parseBreakStmt()
	case p.match(lexer.TokenContinue):
		return p.parseContinueStmt()
	case p.match(lexer.TokenSwitch):
		return p.parseSwitchStmt()
	case p.match(lexer.TokenVar):
		return p.parseVarDecl()
	case p.match(lexer.TokenLet):
		return p.parseLetStmt()
	case p.match(lexer.TokenConst):
		decl := p.parseVarDecl()
		decl.IsConst = true
		return decl
	default:
		return p.parseExprStmt()
	}
}

// parseBlockStmt parses a block statement: { stmt* }
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	p.consume(lexer.TokenLeftBrace, "expected '{'")
	leftBrace := p.previous

	statements := make([]ast.Stmt, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		statements = append(statements, p.parseStmt())
	}

	p.consume(lexer.TokenRightBrace, "expected '}'")
	rightBrace := p.previous

	return &ast.BlockStmt{
		LeftBrace:  leftBrace,
		Statements: statements,
		RightBrace: rightBrace,
	}
}

// parseIfStmt parses an if statement:
//   if (condition) { ... }
//   if (condition) { ... } else { ... }
//   if (condition) { ... } else if (condition) { ... }
func (p *Parser) parseIfStmt() *ast.IfStmt {
	// We've already consumed 'if'
	ifPos := p.previous.Position

	// Parse condition
	p.consume(lexer.TokenLeftParen, "expected '(' after 'if'")
	condition := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")

	// Parse then branch
	thenBranch := p.parseBlockStmt()

	// Parse optional else branch
	var elseBranch ast.Stmt
	if p.match(lexer.TokenElse) {
		if p.check(lexer.TokenIf) {
			// else if - parse as another if statement
			p.advance()
			elseBranch = p.parseIfStmt()
		} else {
			// else - parse block
			elseBranch = p.parseBlockStmt()
		}
	}

	return &ast.IfStmt{
		IfPos:      ifPos,
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
	}
}

// parseWhileStmt parses a while statement: while (condition) { ... }
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	// We've already consumed 'while'
	whilePos := p.previous.Position

	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	condition := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")

	body := p.parseBlockStmt()

	return &ast.WhileStmt{
		WhilePos:  whilePos,
		Condition: condition,
		Body:      body,
	}
}

// parseForStmt parses a for statement:
//   for (init; condition; post) { ... }
func (p *Parser) parseForStmt() *ast.ForStmt {
	// We've already consumed 'for'
	forPos := p.previous.Position

	p.consume(lexer.TokenLeftParen, "expected '(' after 'for'")

	// Parse init (optional)
	var init ast.Stmt
	if p.match(lexer.TokenSemicolon) {
		// No init
	} else if p.match(lexer.TokenVar) {
		init = p.parseVarDecl()
		// VarDecl already consumes its semicolon
	} else {
		init = p.parseExprStmt()
		// ExprStmt will consume its semicolon
	}

	// Parse condition (optional)
	var condition ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		condition = p.parseExpression()
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after loop condition")

	// Parse post (optional)
	var post ast.Stmt
	if !p.check(lexer.TokenRightParen) {
		post = &ast.ExprStmt{Expression: p.parseExpression()}
	}

	p.consume(lexer.TokenRightParen, "expected ')' after for clauses")

	body := p.parseBlockStmt()

	return &ast.ForStmt{
		ForPos:    forPos,
		Init:      init,
		Condition: condition,
		Post:      post,
		Body:      body,
	}
}

// parseForOrForEachStmt disambiguates the C-style `for (init; cond; post)`
// form from the `for binding in iterable { ... }` form. We've already
// consumed 'for'; the distinguishing signal is the absence of a '(' before
// the loop variable.
func (p *Parser) parseForOrForEachStmt() ast.Stmt {
	if p.check(lexer.TokenLeftParen) {
		return p.parseForStmt()
	}

	forPos := p.previous.Position
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected loop variable or '(' after 'for'")
		panic("invalid for statement")
	}
	binding := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()
	p.consume(lexer.TokenIn, "expected 'in' after for-loop binding")
	iterable := p.parseExpression()
	body := p.parseBlockStmt()

	return &ast.ForEachStmt{
		ForPos:   forPos,
		Binding:  binding,
		Iterable: iterable,
		Body:     body,
	}
}

// parseLoopStmt parses an unconditional loop: `loop { ... }`.
func (p *Parser) parseLoopStmt() *ast.LoopStmt {
	// We've already consumed 'loop'
	loopPos := p.previous.Position
	body := p.parseBlockStmt()
	return &ast.LoopStmt{LoopPos: loopPos, Body: body}
}

// parseMatchStmt parses `match scrutinee { pattern [if guard] => body, ... }`.
func (p *Parser) parseMatchStmt() *ast.MatchStmt {
	// We've already consumed 'match'
	matchPos := p.previous.Position
	scrutinee := p.parseExpression()

	p.consume(lexer.TokenLeftBrace, "expected '{' before match body")

	arms := make([]*ast.MatchArm, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		pattern := p.parsePattern()

		var guard ast.Expr
		if p.match(lexer.TokenIf) {
			guard = p.parseExpression()
		}

		p.consume(lexer.TokenFatArrow, "expected '=>' after match pattern")
		fatArrow := p.previous

		var body ast.Stmt
		if p.check(lexer.TokenLeftBrace) {
			body = p.parseBlockStmt()
		} else {
			expr := p.parseExpression()
			body = &ast.ExprStmt{Expression: expr}
		}

		arms = append(arms, &ast.MatchArm{
			Pattern:  pattern,
			Guard:    guard,
			FatArrow: fatArrow,
			Body:     body,
		})

		p.match(lexer.TokenComma)
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after match body")

	return &ast.MatchStmt{
		MatchPos:   matchPos,
		Scrutinee:  scrutinee,
		Arms:       arms,
		RightBrace: p.previous,
	}
}

// parsePattern parses a single match/let pattern, handling or-patterns
// (`p1 | p2`) at the outermost level.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePrimaryPattern()
	if !p.check(lexer.TokenBitOr) {
		return first
	}

	alternatives := []ast.Pattern{first}
	for p.match(lexer.TokenBitOr) {
		alternatives = append(alternatives, p.parsePrimaryPattern())
	}
	return &ast.OrPattern{Alternatives: alternatives}
}

// parsePrimaryPattern parses one non-or pattern: wildcard, literal,
// variant (possibly qualified and/or tuple-destructuring), tuple, or a
// plain identifier binding. Range patterns (`0..10`) are recognized after
// a literal or identifier primary.
func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.current.Type {
	case lexer.TokenIdentifier:
		if p.current.Lexeme == "_" {
			pos := p.current.Position
			p.advance()
			return &ast.WildcardPattern{UnderscorePos: pos}
		}
		name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()

		// Qualified variant pattern: `Color::Red` or `Color::Circle(r)`.
		if p.match(lexer.TokenColonColon) {
			if !p.check(lexer.TokenIdentifier) {
				p.error("expected variant name after '::'")
				panic("invalid pattern")
			}
			variant := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
			p.advance()
			return p.finishVariantPattern(name, variant)
		}

		// Unqualified variant pattern with tuple payload: `Circle(r)`.
		if p.check(lexer.TokenLeftParen) {
			return p.finishVariantPattern(nil, name)
		}

		return p.maybeRangePattern(&ast.IdentPattern{Name: name, IsMutable: false})

	case lexer.TokenNumber, lexer.TokenString, lexer.TokenChar,
		lexer.TokenTrue, lexer.TokenFalse:
		tok := p.current
		lit := p.parsePrefix()
		litExpr, ok := lit.(*ast.LiteralExpr)
		var pattern ast.Pattern
		if ok {
			pattern = &ast.LiteralPattern{Token: tok, Value: litExpr.Value}
		} else {
			pattern = &ast.LiteralPattern{Token: tok}
		}
		return p.maybeRangePattern(pattern)

	case lexer.TokenLeftParen:
		leftParen := p.current
		p.advance()
		elements := make([]ast.Pattern, 0)
		for !p.check(lexer.TokenRightParen) {
			elements = append(elements, p.parsePattern())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRightParen, "expected ')' after tuple pattern")
		return &ast.TuplePattern{LeftParen: leftParen, Elements: elements, RightParen: p.previous}

	default:
		p.error(fmt.Sprintf("expected pattern, got %s", p.current.Type))
		panic("invalid pattern")
	}
}

// finishVariantPattern parses the optional tuple-destructuring payload of
// a variant pattern after its (optional qualifier and) variant name.
func (p *Parser) finishVariantPattern(qualifier, variant *ast.IdentifierExpr) ast.Pattern {
	var sub []ast.Pattern
	if p.match(lexer.TokenLeftParen) {
		for !p.check(lexer.TokenRightParen) {
			sub = append(sub, p.parsePattern())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRightParen, "expected ')' after variant pattern fields")
	}
	return &ast.VariantPattern{Qualifier: qualifier, Variant: variant, SubPattern: sub}
}

// maybeRangePattern extends a just-parsed literal/ident pattern into a
// RangePattern if followed by `..` or `..=`.
func (p *Parser) maybeRangePattern(start ast.Pattern) ast.Pattern {
	if !p.check(lexer.TokenDotDot) && !p.check(lexer.TokenDotDotEq) {
		return start
	}
	inclusive := p.current.Type == lexer.TokenDotDotEq
	p.advance()
	end := p.parsePrimaryPattern()
	return &ast.RangePattern{Start: start, End_: end, IsInclusive: inclusive}
}

// parseReturnStmt parses a return statement: return expr;
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	// We've already consumed 'return'
	returnPos := p.previous.Position

	var value ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		value = p.parseExpression()
	}

	p.consume(lexer.TokenSemicolon, "expected ';' after return statement")

	return &ast.ReturnStmt{
		ReturnPos: returnPos,
		Value:     value,
	}
}

// parseBreakStmt parses a break statement: break;
func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	// We've already consumed 'break'
	breakPos := p.previous.Position

	p.consume(lexer.TokenSemicolon, "expected ';' after 'break'")

	return &ast.BreakStmt{
		BreakPos: breakPos,
	}
}

// parseContinueStmt parses a continue statement: continue;
func (p *Parser) parseContinueStmt() *ast.ContinueStmt {
	// We've already consumed 'continue'
	continuePos := p.previous.Position

	p.consume(lexer.TokenSemicolon, "expected ';' after 'continue'")

	return &ast.ContinueStmt{
		ContinuePos: continuePos,
	}
}

// parseSwitchStmt parses a switch statement:
//   switch (expr) {
//     case value: stmts
//     default: stmts
//   }
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	// We've already consumed 'switch'
	switchPos := p.previous.Position

	p.consume(lexer.TokenLeftParen, "expected '(' after 'switch'")
	value := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after switch value")

	p.consume(lexer.TokenLeftBrace, "expected '{' before switch body")

	cases := make([]*ast.CaseClause, 0)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		cases = append(cases, p.parseCaseClause())
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after switch body")

	return &ast.SwitchStmt{
		SwitchPos: switchPos,
		Value:     value,
		Cases:     cases,
	}
}

// parseCaseClause parses a case clause:
//   case value1, value2: stmts
//   default: stmts
func (p *Parser) parseCaseClause() *ast.CaseClause {
	var casePos lexer.Position
	var values []ast.Expr
	isDefault := false

	if p.match(lexer.TokenCase) {
		casePos = p.previous.Position

		// Parse case values (can be multiple)
		for {
			values = append(values, p.parseExpression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	} else if p.match(lexer.TokenDefault) {
		casePos = p.previous.Position
		isDefault = true
	} else {
		p.error("expected 'case' or 'default'")
		return nil
	}

	p.consume(lexer.TokenColon, "expected ':' after case")
	colon := p.previous

	// Parse statements until next case or end of switch
	body := make([]ast.Stmt, 0)
	for !p.check(lexer.TokenCase) && !p.check(lexer.TokenDefault) &&
		!p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		body = append(body, p.parseStmt())
	}

	return &ast.CaseClause{
		CasePos:   casePos,
		Values:    values,
		Colon:     colon,
		Body:      body,
		IsDefault: isDefault,
	}
}

// parseExprStmt parses an expression statement: expr;
func (p *Parser) parseExprStmt() *ast.ExprStmt {
	expr := p.parseExpression()
	p.consume(lexer.TokenSemicolon, "expected ';' after expression")
	return &ast.ExprStmt{Expression: expr}
}

// Expression parsing using Pratt parsing (precedence climbing)
//
// PRATT PARSING:
// Instead of recursive descent for expressions (which struggles with precedence),
// we use Pratt parsing. The key idea:
// - Each operator has a precedence level
// - Parse with minimum precedence, climbing up as needed
// - Handles left/right associativity elegantly
//
// REFERENCE: "Top Down Operator Precedence" by Vaughan Pratt (1973)

// parseExpression parses an expression with any precedence.
func (p *Parser) parseExpression() ast.Expr {
	return p.parsePrecedence(PrecAssignment)
}

// parsePrecedence parses an expression with at least the given precedence.
//
// This is the core of Pratt parsing.
func (p *Parser) parsePrecedence(precedence Precedence) ast.Expr {
	// Parse prefix expression
	left := p.parsePrefix()
	if left == nil {
		p.error(fmt.Sprintf("expected expression, got %s", p.current.Type))
		return nil
	}

	// Parse infix expressions with sufficient precedence
	for precedence <= getPrecedence(p.current.Type) {
		left = p.parseInfix(left)
	}

	return left
}

// parsePrefix parses a prefix expression (one that starts an expression).
//
// PREFIX EXPRESSIONS:
// - Literals: 42, "hello", true
// - Identifiers: foo, bar
// - Unary operators: -x, !flag, ++i
// - Grouping: (expr)
// - Array literals: [1, 2, 3]
// - Struct literals: Point{x: 1, y: 2}
func (p *Parser) parsePrefix() ast.Expr {
	switch p.current.Type {
	// Literals
	case lexer.TokenNumber:
		return p.parseNumberLiteral()
	case lexer.TokenString:
		return p.parseStringLiteralExpr()
	case lexer.TokenChar:
		return p.parseCharLiteral()
	case lexer.TokenTrue, lexer.TokenFalse:
		return p.parseBoolLiteral()
	case lexer.TokenNil:
		return p.parseNilLiteral()

	// Identifier
	case lexer.TokenIdentifier:
		return p.parseIdentifier()

	// Grouping
	case lexer.TokenLeftParen:
		return p.parseGrouping()

	// Array literal
	case lexer.TokenLeftBracket:
		return p.parseArrayLiteral()

	// Unary operators
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenBitNot,
		lexer.TokenPlusPlus, lexer.TokenMinusMinus, lexer.TokenBitAnd:
		return p.parseUnary()

	// Ownership/concurrency prefix expressions
	case lexer.TokenMove:
		return p.parseMoveExpr()
	case lexer.TokenAwait:
		return p.parseAwaitExpr()
	case lexer.TokenSpawn:
		return p.parseSpawnExpr()

	// Tuple / lambda
	case lexer.TokenBitOr:
		return p.parseLambdaExpr()

	default:
		return nil
	}
}

// parseMoveExpr parses `move expr`, an explicit request to transfer
// ownership of a place expression rather than copy or borrow it.
func (p *Parser) parseMoveExpr() ast.Expr {
	movePos := p.current.Position
	p.advance()
	operand := p.parsePrecedence(PrecUnary)
	return &ast.MoveExpr{MovePos: movePos, Operand: operand}
}

// parseAwaitExpr parses `await expr`.
func (p *Parser) parseAwaitExpr() ast.Expr {
	awaitPos := p.current.Position
	p.advance()
	operand := p.parsePrecedence(PrecUnary)
	return &ast.AwaitExpr{AwaitPos: awaitPos, Operand: operand}
}

// parseSpawnExpr parses `spawn expr`.
func (p *Parser) parseSpawnExpr() ast.Expr {
	spawnPos := p.current.Position
	p.advance()
	operand := p.parsePrecedence(PrecUnary)
	return &ast.SpawnExpr{SpawnPos: spawnPos, Operand: operand}
}

// parseLambdaExpr parses a closure literal: `|a, b| a + b` or
// `|a: Int32| -> Int32 { ... }`.
func (p *Parser) parseLambdaExpr() ast.Expr {
	pipePos := p.current.Position
	p.advance() // consume '|'

	params := make([]*ast.Parameter, 0)
	for !p.check(lexer.TokenBitOr) {
		if !p.check(lexer.TokenIdentifier) {
			p.error("expected lambda parameter name")
			break
		}
		name := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
		p.advance()
		var typeExpr ast.Expr
		if p.match(lexer.TokenColon) {
			typeExpr = p.parseType()
		}
		params = append(params, &ast.Parameter{Name: name, Type: typeExpr})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenBitOr, "expected '|' after lambda parameters")

	var returnType ast.Expr
	if p.match(lexer.TokenArrow) {
		returnType = p.parseType()
	}

	p.match(lexer.TokenFatArrow) // optional `=>` before the body expression
	body := p.parseExpression()

	return &ast.LambdaExpr{PipePos: pipePos, Params: params, ReturnType: returnType, Body: body}
}

// parseInfix parses an infix expression (operator that appears between operands).
//
// INFIX EXPRESSIONS:
// - Binary operators: +, -, *, /, etc.
// - Logical operators: &&, ||
// - Comparison operators: ==, !=, <, >, etc.
// - Assignment: =, +=, -=, etc.
// - Member access: obj.field
// - Function call: func(args)
// - Array indexing: arr[index]
// - Postfix operators: i++, i--
func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	switch p.current.Type {
	// Binary operators
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash,
		lexer.TokenPercent, lexer.TokenStarStar,
		lexer.TokenEqual, lexer.TokenNotEqual,
		lexer.TokenLess, lexer.TokenLessEqual,
		lexer.TokenGreater, lexer.TokenGreaterEqual,
		lexer.TokenBitAnd, lexer.TokenBitOr, lexer.TokenBitXor,
		lexer.TokenShl, lexer.TokenShr:
		return p.parseBinary(left)

	// Logical operators (short-circuit)
	case lexer.TokenAnd, lexer.TokenOr:
		return p.parseLogical(left)

	// Assignment operators
	case lexer.TokenAssign, lexer.TokenPlusEq, lexer.TokenMinusEq,
		lexer.TokenStarEq, lexer.TokenSlashEq, lexer.TokenPercentEq,
		lexer.TokenAndEq, lexer.TokenOrEq, lexer.TokenXorEq,
		lexer.TokenShlEq, lexer.TokenShrEq:
		return p.parseAssignment(left)

	// Member access
	case lexer.TokenDot:
		return p.parseMember(left)

	// Function call
	case lexer.TokenLeftParen:
		return p.parseCall(left)

	// Array indexing
	case lexer.TokenLeftBracket:
		return p.parseIndex(left)

	// Postfix operators
	case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		// Check if this is really postfix (no space before it)
		// For simplicity, we'll always treat ++ and -- after an expression as postfix
		operator := p.current
		p.advance()
		return &ast.UnaryExpr{
			Operator:  operator,
			Operand:   left,
			IsPostfix: true,
		}

	// Type cast
	case lexer.TokenAs:
		return p.parseCastExpr(left)

	// Range
	case lexer.TokenDotDot, lexer.TokenDotDotEq:
		return p.parseRangeExpr(left)

	// Postfix error-propagation
	case lexer.TokenQuestion:
		return p.parseTryExpr(left)

	// Qualified path
	case lexer.TokenColonColon:
		return p.parsePathExpr(left)

	default:
		return left
	}
}

// parseCastExpr parses `expr as TargetType`.
func (p *Parser) parseCastExpr(left ast.Expr) ast.Expr {
	asPos := p.current.Position
	p.advance() // consume 'as'
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected type name after 'as'")
		return left
	}
	target := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()
	return &ast.CastExpr{Operand: left, AsPos: asPos, TargetName: target}
}

// parseRangeExpr parses `start..end` or `start..=end`, where `end` may be
// omitted at the top level of a statement (an open-ended range).
func (p *Parser) parseRangeExpr(left ast.Expr) ast.Expr {
	operator := p.current
	inclusive := p.current.Type == lexer.TokenDotDotEq
	p.advance()

	var end ast.Expr
	if getPrecedence(p.current.Type) >= PrecRange || p.canStartExpression() {
		end = p.parsePrecedence(PrecRange + 1)
	}

	return &ast.RangeExpr{Start: left, Operator: operator, EndExpr: end, IsInclusive: inclusive}
}

// canStartExpression reports whether the current token can begin a
// prefix expression, used to detect an open-ended range's missing end.
func (p *Parser) canStartExpression() bool {
	switch p.current.Type {
	case lexer.TokenSemicolon, lexer.TokenRightBrace, lexer.TokenRightParen,
		lexer.TokenRightBracket, lexer.TokenComma, lexer.TokenLeftBrace:
		return false
	default:
		return true
	}
}

// parseTryExpr parses the postfix `?` error-propagation operator.
func (p *Parser) parseTryExpr(left ast.Expr) ast.Expr {
	question := p.current
	p.advance()
	return &ast.TryExpr{Operand: left, QuestionMark: question}
}

// parsePathExpr parses a qualified path continuation: `left::Right`.
func (p *Parser) parsePathExpr(left ast.Expr) ast.Expr {
	colonColon := p.current
	p.advance()
	if !p.check(lexer.TokenIdentifier) {
		p.error("expected identifier after '::'")
		return left
	}
	right := &ast.IdentifierExpr{Token: p.current, Name: p.current.Lexeme}
	p.advance()
	return &ast.PathExpr{Left: left, ColonColon: colonColon, Right: right}
}

// Literal parsing

func (p *Parser) parseNumberLiteral() ast.Expr {
	token := p.current
	p.advance()

	// Try to parse as integer first
	if value, err := strconv.ParseInt(token.Lexeme, 0, 64); err == nil {
		return &ast.LiteralExpr{
			Token: token,
			Value: value,
		}
	}

	// Parse as float
	value, err := strconv.ParseFloat(token.Lexeme, 64)
	if err != nil {
		p.error(fmt.Sprintf("invalid number literal: %s", token.Lexeme))
		return &ast.LiteralExpr{Token: token, Value: 0.0}
	}

	return &ast.LiteralExpr{
		Token: token,
		Value: value,
	}
}

func (p *Parser) parseStringLiteralExpr() ast.Expr {
	token := p.current
	p.advance()
	return &ast.LiteralExpr{
		Token: token,
		Value: p.parseStringLiteral(token.Lexeme),
	}
}

func (p *Parser) parseStringLiteral(lexeme string) string {
	// Remove quotes and unescape
	if len(lexeme) < 2 {
		return ""
	}
	// Remove surrounding quotes
	s := lexeme[1 : len(lexeme)-1]

	// Simple unescaping (could be more sophisticated)
	// For now, just handle common escapes
	result := ""
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result += "\n"
			case 't':
				result += "\t"
			case 'r':
				result += "\r"
			case '\\':
				result += "\\"
			case '"':
				result += "\""
			default:
				result += string(s[i+1])
			}
			i++ // Skip next character
		} else {
			result += string(s[i])
		}
	}
	return result
}

func (p *Parser) parseCharLiteral() ast.Expr {
	token := p.current
	p.advance()

	// Remove quotes and get the character
	if len(token.Lexeme) < 3 {
		p.error("invalid character literal")
		return &ast.LiteralExpr{Token: token, Value: rune(0)}
	}

	s := token.Lexeme[1 : len(token.Lexeme)-1]
	if s[0] == '\\' {
		// Escape sequence
		if len(s) < 2 {
			p.error("invalid escape sequence")
			return &ast.LiteralExpr{Token: token, Value: rune(0)}
		}
		switch s[1] {
		case 'n':
			return &ast.LiteralExpr{Token: token, Value: '\n'}
		case 't':
			return &ast.LiteralExpr{Token: token, Value: '\t'}
		case 'r':
			return &ast.LiteralExpr{Token: token, Value: '\r'}
		case '\\':
			return &ast.LiteralExpr{Token: token, Value: '\\'}
		case '\'':
			return &ast.LiteralExpr{Token: token, Value: '\''}
		default:
			return &ast.LiteralExpr{Token: token, Value: rune(s[1])}
		}
	}

	// Regular character
	ch, _ := utf8.DecodeRuneInString(s)
	return &ast.LiteralExpr{Token: token, Value: ch}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	token := p.current
	p.advance()
	return &ast.LiteralExpr{
		Token: token,
		Value: token.Type == lexer.TokenTrue,
	}
}

func (p *Parser) parseNilLiteral() ast.Expr {
	token := p.current
	p.advance()
	return &ast.LiteralExpr{
		Token: token,
		Value: nil,
	}
}

func (p *Parser) parseIdentifier() ast.Expr {
	token := p.current
	p.advance()

	// Check if this is a struct literal: TypeName{...}
	if p.check(lexer.TokenLeftBrace) {
		return p.parseStructLiteral(&ast.IdentifierExpr{
			Token: token,
			Name:  token.Lexeme,
		})
	}

	return &ast.IdentifierExpr{
		Token: token,
		Name:  token.Lexeme,
	}
}

func (p *Parser) parseGrouping() ast.Expr {
	leftParen := p.current
	p.advance()

	expr := p.parseExpression()

	p.consume(lexer.TokenRightParen, "expected ')' after expression")
	rightParen := p.previous

	return &ast.GroupingExpr{
		LeftParen:  leftParen,
		Expression: expr,
		RightParen: rightParen,
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	leftBracket := p.current
	p.advance()

	elements := make([]ast.Expr, 0)

	// Parse elements
	if !p.check(lexer.TokenRightBracket) {
		for {
			elements = append(elements, p.parseExpression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	p.consume(lexer.TokenRightBracket, "expected ']' after array elements")
	// For now, use right bracket as right brace (we'd need to adjust the AST)
	rightBrace := p.previous

	return &ast.ArrayLiteralExpr{
		LeftBracket: leftBracket,
		Elements:    elements,
		RightBrace:  rightBrace,
	}
}

func (p *Parser) parseStructLiteral(typeName *ast.IdentifierExpr) ast.Expr {
	leftBrace := p.current
	p.consume(lexer.TokenLeftBrace, "expected '{'")

	fields := make([]*ast.FieldInit, 0)

	if !p.check(lexer.TokenRightBrace) {
		for {
			// Parse field name
			if !p.check(lexer.TokenIdentifier) {
				p.error("expected field name")
				break
			}
			fieldName := &ast.IdentifierExpr{
				Token: p.current,
				Name:  p.current.Lexeme,
			}
			p.advance()

			p.consume(lexer.TokenColon, "expected ':' after field name")
			colon := p.previous

			// Parse field value
			value := p.parseExpression()

			fields = append(fields, &ast.FieldInit{
				Name:  fieldName,
				Colon: colon,
				Value: value,
			})

			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	p.consume(lexer.TokenRightBrace, "expected '}' after struct fields")
	rightBrace := p.previous

	return &ast.StructLiteralExpr{
		TypeName:   typeName,
		LeftBrace:  leftBrace,
		Fields:     fields,
		RightBrace: rightBrace,
	}
}

// Operator parsing

func (p *Parser) parseUnary() ast.Expr {
	operator := p.current
	p.advance()

	operand := p.parsePrecedence(PrecUnary)

	return &ast.UnaryExpr{
		Operator:  operator,
		Operand:   operand,
		IsPostfix: false,
	}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	operator := p.current
	precedence := getPrecedence(operator.Type)
	p.advance()

	// Adjust precedence for right-associative operators
	if isRightAssociative(operator.Type) {
		precedence--
	}

	right := p.parsePrecedence(precedence + 1)

	return &ast.BinaryExpr{
		Left:     left,
		Operator: operator,
		Right:    right,
	}
}

func (p *Parser) parseLogical(left ast.Expr) ast.Expr {
	operator := p.current
	precedence := getPrecedence(operator.Type)
	p.advance()

	right := p.parsePrecedence(precedence + 1)

	return &ast.LogicalExpr{
		Left:     left,
		Operator: operator,
		Right:    right,
	}
}

func (p *Parser) parseAssignment(left ast.Expr) ast.Expr {
	operator := p.current
	p.advance()

	// Assignment is right-associative
	right := p.parsePrecedence(PrecAssignment)

	return &ast.AssignmentExpr{
		Target:   left,
		Operator: operator,
		Value:    right,
	}
}

func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	dot := p.current
	p.advance()

	if !p.check(lexer.TokenIdentifier) {
		p.error("expected property name after '.'")
		return left
	}

	member := &ast.IdentifierExpr{
		Token: p.current,
		Name:  p.current.Lexeme,
	}
	p.advance()

	return &ast.MemberExpr{
		Object: left,
		Dot:    dot,
		Member: member,
	}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	leftParen := p.current
	p.advance()

	args := make([]ast.Expr, 0)
	if !p.check(lexer.TokenRightParen) {
		for {
			args = append(args, p.parseExpression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	p.consume(lexer.TokenRightParen, "expected ')' after arguments")
	rightParen := p.previous

	return &ast.CallExpr{
		Callee:     left,
		LeftParen:  leftParen,
		Args:       args,
		RightParen: rightParen,
	}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	leftBracket := p.current
	p.advance()

	index := p.parseExpression()

	p.consume(lexer.TokenRightBracket, "expected ']' after index")
	rightBracket := p.previous

	return &ast.IndexExpr{
		Object:       left,
		LeftBracket:  leftBracket,
		Index:        index,
		RightBracket: rightBracket,
	}
}

// Helper methods

func (p *Parser) advance() {
	p.previous = p.current
	token, err := p.lexer.NextToken()
	if err != nil {
		p.error(err.Error())
		p.current = lexer.Token{Type: lexer.TokenInvalid}
	} else {
		p.current = token
	}
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) match(tokenTypes ...lexer.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) {
	if p.check(tokenType) {
		p.advance()
		return
	}
	p.error(message)
	panic(message)
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

func (p *Parser) error(message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	err := fmt.Errorf("%s: %s", p.current.Position.String(), message)
	p.errors = append(p.errors, err)
}

// synchronize skips tokens until we reach a statement boundary.
// This is used for error recovery.
func (p *Parser) synchronize() {
	p.panicMode = false

	for !p.isAtEnd() {
		// Semicolon marks the end of a statement
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}

		// These tokens start new statements
		switch p.current.Type {
		case lexer.TokenFunc, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenReturn,
			lexer.TokenStruct, lexer.TokenTypeKeyword:
			return
		}

		p.advance()
	}
}
