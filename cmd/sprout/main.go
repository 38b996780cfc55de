// Command sprout is the CLI front end: run a script file or drop into a
// REPL, selecting between the tree-walking evaluator and the compiler/VM
// backend (spec.md §1 treats this front end as ambient, out of the
// core's scope).
package main

import (
	"fmt"
	"os"

	"github.com/sprout-lang/sprout/internal/ast"
	"github.com/sprout-lang/sprout/internal/compiler"
	"github.com/sprout-lang/sprout/internal/config"
	"github.com/sprout-lang/sprout/internal/evaluator"
	"github.com/sprout-lang/sprout/internal/lexer"
	"github.com/sprout-lang/sprout/internal/object"
	"github.com/sprout-lang/sprout/internal/parser"
	"github.com/sprout-lang/sprout/internal/repl"
	"github.com/sprout-lang/sprout/internal/vm"
)

func main() {
	cfg, err := config.Load("sproutrc.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "sprout: reading sproutrc.yaml: %s\n", err)
		os.Exit(1)
	}

	var scripts []string
	showAST := false
	debug := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "--vm":
			cfg.Backend = config.BackendVM
		case "--tree":
			cfg.Backend = config.BackendTree
		case "--ast":
			showAST = true
		case "--debug":
			debug = true
		default:
			scripts = append(scripts, arg)
		}
	}

	if len(scripts) == 0 {
		repl.Start(os.Stdin, os.Stdout, os.Stdin.Fd(), cfg)
		return
	}

	for _, path := range scripts {
		if err := runFile(path, cfg, showAST, debug); err != nil {
			fmt.Fprintf(os.Stderr, "sprout: %s\n", err)
			os.Exit(1)
		}
	}
}

func runFile(path string, cfg config.Config, showAST, debug bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	program, errs := parseSource(string(src))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "\t"+e)
		}
		return fmt.Errorf("parse errors in %s", path)
	}
	if showAST {
		fmt.Println(program.String())
	}

	if cfg.Backend == config.BackendTree {
		env := evaluator.NewRootEnvironmentWithDisabled(cfg.DisableBuiltins)
		result := evaluator.Eval(program, env)
		printResult(result)
		return nil
	}

	c := compiler.NewWithDisabled(cfg.DisableBuiltins)
	if err := c.Compile(program); err != nil {
		return fmt.Errorf("compile error: %w", err)
	}
	bytecode := c.GetBytecode()
	if debug {
		fmt.Println(bytecode.Instructions.String())
	}

	globals := make([]object.Object, cfg.GlobalsSize)
	machine := vm.NewWithLimits(bytecode, globals, cfg.StackSize, cfg.FrameSize)
	result := machine.Run()
	printResult(result)
	return nil
}

func parseSource(src string) (*ast.Program, []string) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

func printResult(result interface{ Inspect() string }) {
	if result == nil {
		return
	}
	fmt.Println(result.Inspect())
}
