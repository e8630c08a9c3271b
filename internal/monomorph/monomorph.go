package monomorph

import (
	"fmt"

	"github.com/otabekoff/flc/internal/parser/ast"
	"github.com/otabekoff/flc/internal/semantic/types"
)

// Specializer expands generic declarations into concrete clones.
//
// DESIGN CHOICE: Run as a standalone AST-to-AST pass between semantic
// analysis and IR building, rather than inside either, because:
//   - It needs the full instantiation set analysis already computed
//     (Analyzer.Instantiations), so it can't run before analysis.
//   - The specialized file still needs its own analysis pass (scopes,
//     symbol table, concrete exprTypes) before the IR builder can use
//     it, so it can't simply hand raw clones to the builder either.
//
// This mirrors the package comment on semantic.Analyzer: analysis can
// run more than once over the same or a derived AST.
type Specializer struct {
	compiled map[string]bool
}

// New returns a Specializer ready to process one or more files.
func New() *Specializer {
	return &Specializer{compiled: make(map[string]bool)}
}

// Specialize replaces every generic FuncDecl/StructDecl in file with one
// concrete clone per argument list instantiations records for it
// (keyed by the declared name), and drops generics that were never
// instantiated — their bodies still reference unresolved type
// parameters and have no concrete lowering.
func (s *Specializer) Specialize(file *ast.File, instantiations map[string][][]types.Type) error {
	out := make([]ast.Decl, 0, len(file.Decls))

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if len(d.Generics) == 0 {
				out = append(out, d)
				continue
			}
			clones, err := s.specializeFunc(d, instantiations[d.Name.Name])
			if err != nil {
				return err
			}
			out = append(out, clones...)

		case *ast.StructDecl:
			if len(d.Generics) == 0 {
				out = append(out, d)
				continue
			}
			clones, err := s.specializeStruct(d, instantiations[d.Name.Name])
			if err != nil {
				return err
			}
			out = append(out, clones...)

		default:
			out = append(out, decl)
		}
	}

	file.Decls = out
	return nil
}

func (s *Specializer) specializeFunc(decl *ast.FuncDecl, argSets [][]types.Type) ([]ast.Decl, error) {
	clones := make([]ast.Decl, 0, len(argSets))

	for _, args := range argSets {
		if len(args) != len(decl.Generics) {
			return nil, fmt.Errorf("monomorph: %s expects %d type argument(s), got %d", decl.Name.Name, len(decl.Generics), len(args))
		}

		name := Mangle(decl.Name.Name, args)
		key := "func:" + name
		if s.compiled[key] {
			continue
		}
		s.compiled[key] = true

		subst := bindGenerics(decl.Generics, args)

		params := make([]*ast.Parameter, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = cloneParameter(p, subst)
		}

		clones = append(clones, &ast.FuncDecl{
			FuncPos:     decl.FuncPos,
			Name:        &ast.IdentifierExpr{Token: decl.Name.Token, Name: name},
			Params:      params,
			ReturnType:  cloneExpr(decl.ReturnType, subst),
			Body:        cloneBlock(decl.Body, subst),
			Visibility:  decl.Visibility,
			IsAsync:     decl.IsAsync,
			ReceiverPos: decl.ReceiverPos,
		})
	}

	return clones, nil
}

func (s *Specializer) specializeStruct(decl *ast.StructDecl, argSets [][]types.Type) ([]ast.Decl, error) {
	clones := make([]ast.Decl, 0, len(argSets))

	for _, args := range argSets {
		if len(args) != len(decl.Generics) {
			return nil, fmt.Errorf("monomorph: %s expects %d type argument(s), got %d", decl.Name.Name, len(decl.Generics), len(args))
		}

		name := Mangle(decl.Name.Name, args)
		key := "struct:" + name
		if s.compiled[key] {
			continue
		}
		s.compiled[key] = true

		subst := bindGenerics(decl.Generics, args)

		fields := make([]*ast.FieldDecl, len(decl.Fields))
		for i, f := range decl.Fields {
			fields[i] = &ast.FieldDecl{Name: f.Name, Type: cloneExpr(f.Type, subst), Visibility: f.Visibility}
		}

		clones = append(clones, &ast.StructDecl{
			StructPos:  decl.StructPos,
			Name:       &ast.IdentifierExpr{Token: decl.Name.Token, Name: name},
			LeftBrace:  decl.LeftBrace,
			Fields:     fields,
			RightBrace: decl.RightBrace,
			Visibility: decl.Visibility,
			IsClass:    decl.IsClass,
		})
	}

	return clones, nil
}

func bindGenerics(params []*ast.GenericParam, args []types.Type) map[string]types.Type {
	subst := make(map[string]types.Type, len(params))
	for i, p := range params {
		subst[p.Name.Name] = args[i]
	}
	return subst
}
