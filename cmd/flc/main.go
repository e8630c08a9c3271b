// Package main provides flc, the command-line driver for the compiler
// pipeline:
//  1. Lexical analysis (tokenization)
//  2. Syntax analysis (parsing)
//  3. Semantic analysis (name resolution, type checking, ownership)
//  4. Generic monomorphization (one concrete clone per instantiation,
//     followed by a second semantic analysis pass over the result)
//  5. IR generation and verification
//  6. Optimization (constant folding, dead code elimination, inlining)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otabekoff/flc/internal/diag"
	"github.com/otabekoff/flc/internal/ir"
	"github.com/otabekoff/flc/internal/lexer"
	"github.com/otabekoff/flc/internal/monomorph"
	"github.com/otabekoff/flc/internal/optimizer"
	"github.com/otabekoff/flc/internal/parser"
	"github.com/otabekoff/flc/internal/parser/ast"
	"github.com/otabekoff/flc/internal/semantic"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		emitIR     bool
		noOptimize bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "flc <source-file>",
		Short: "flc compiles a single source file through to optimized IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compile(args[0], compileOptions{
				EmitIR:     emitIR,
				NoOptimize: noOptimize,
				Log:        diag.NewLogger(verbose),
			})
		},
	}

	cmd.Flags().BoolVarP(&emitIR, "emit-ir", "I", false, "print the IR before and after optimization")
	cmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "skip the optimization pipeline")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage at debug level")

	return cmd
}

type compileOptions struct {
	EmitIR     bool
	NoOptimize bool
	Log        *diag.Logger
}

func compile(filename string, opts compileOptions) error {
	log := opts.Log

	source, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	parseStage := log.Stage("parse")
	lex := lexer.New(string(source), filename)
	p := parser.New(lex)
	file, errs := p.ParseFile(filename)
	if len(errs) > 0 {
		parseStage.Errors(errs)
		return fmt.Errorf("%d parse error(s) in %s", len(errs), filename)
	}
	parseStage.Done(nil)

	// First analysis pass: resolves names/types over the generic source
	// and records every generic instantiation a call site or type
	// reference produced (semantic.Analyzer.Instantiations).
	analyzeStage := log.Stage("analyze")
	analyzer := semantic.New()
	if errs := analyzer.Analyze(file); len(errs) > 0 {
		analyzeStage.Errors(errs)
		return fmt.Errorf("%d semantic error(s) in %s", len(errs), filename)
	}
	analyzeStage.Done(nil)

	// Monomorphize: expand each generic FuncDecl/StructDecl into one
	// concrete clone per recorded instantiation, dropping the
	// uninstantiated templates.
	monoStage := log.Stage("monomorphize")
	specializer := monomorph.New()
	if err := specializer.Specialize(file, analyzer.Instantiations()); err != nil {
		monoStage.Fail(err)
		return err
	}
	monoStage.Done(nil)

	// Second analysis pass: the specialized file's clones are fresh AST
	// nodes (internal/monomorph never shares nodes across
	// instantiations), so exprTypes needs to be rebuilt from scratch with
	// every generic parameter now resolved to a concrete type.
	reanalyzeStage := log.Stage("reanalyze")
	finalAnalyzer := semantic.New()
	if errs := finalAnalyzer.Analyze(file); len(errs) > 0 {
		reanalyzeStage.Errors(errs)
		return fmt.Errorf("%d semantic error(s) after monomorphization in %s", len(errs), filename)
	}
	reanalyzeStage.Done(nil)

	buildStage := log.Stage("build-ir")
	builder := ir.NewBuilder(finalAnalyzer)
	module, errs := builder.Build(file)
	if len(errs) > 0 {
		buildStage.Errors(errs)
		return fmt.Errorf("%d IR generation error(s) in %s", len(errs), filename)
	}
	buildStage.Done(nil)

	verifyStage := log.Stage("verify")
	if errs := module.Verify(); len(errs) > 0 {
		verifyStage.Errors(errs)
		return fmt.Errorf("%d IR verification error(s) in %s", len(errs), filename)
	}
	verifyStage.Done(nil)

	if opts.EmitIR {
		fmt.Println("=== IR before optimization ===")
		fmt.Println(module.String())
	}

	if !opts.NoOptimize {
		optStage := log.Stage("optimize")
		opt := optimizer.NewOptimizer()
		if err := opt.Optimize(module); err != nil {
			optStage.Fail(err)
			return err
		}
		optStage.Done(nil)

		reverifyStage := log.Stage("reverify")
		if errs := module.Verify(); len(errs) > 0 {
			reverifyStage.Errors(errs)
			return fmt.Errorf("%d IR verification error(s) after optimization in %s", len(errs), filename)
		}
		reverifyStage.Done(nil)
	}

	if opts.EmitIR {
		fmt.Println("=== IR after optimization ===")
		fmt.Println(module.String())
	}

	summarize(filename, file)
	return nil
}

func summarize(filename string, file *ast.File) {
	fmt.Printf("\n%s: package %s, %d import(s), %d declaration(s)\n",
		filename, file.Package.Name.Name, len(file.Imports), len(file.Decls))

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			fmt.Printf("  func %s\n", d.Name.Name)
		case *ast.StructDecl:
			fmt.Printf("  struct %s (%d field(s))\n", d.Name.Name, len(d.Fields))
		case *ast.TypeDecl:
			fmt.Printf("  type %s\n", d.Name.Name)
		case *ast.VarDecl:
			for _, name := range d.Names {
				fmt.Printf("  var %s\n", name.Name)
			}
		}
	}
}

