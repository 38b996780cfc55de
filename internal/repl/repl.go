// Package repl implements the line-at-a-time read-compile/eval-print
// loop. It threads one symbol table, constant pool, and globals array (or
// one Environment for the tree-walking backend) across lines, building a
// fresh compiler and VM over that shared state for each line, per spec.md §5
// ("the caller threads the constant pool, globals array, and symbol
// table explicitly from one compile-and-run to the next").
package repl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"

	"github.com/sprout-lang/sprout/internal/ast"
	"github.com/sprout-lang/sprout/internal/builtins"
	"github.com/sprout-lang/sprout/internal/compiler"
	"github.com/sprout-lang/sprout/internal/config"
	"github.com/sprout-lang/sprout/internal/evaluator"
	"github.com/sprout-lang/sprout/internal/lexer"
	"github.com/sprout-lang/sprout/internal/object"
	"github.com/sprout-lang/sprout/internal/parser"
	"github.com/sprout-lang/sprout/internal/symbols"
	"github.com/sprout-lang/sprout/internal/vm"
)

const prompt = ">> "

// Start runs the REPL, reading lines from in and writing prompts, values,
// and errors to out. stdinFd is checked with isatty so that piping a
// script on stdin suppresses the prompt, matching batch mode.
func Start(in io.Reader, out io.Writer, stdinFd uintptr, cfg config.Config) {
	scanner := bufio.NewScanner(in)
	interactive := isatty.IsTerminal(stdinFd) || isatty.IsCygwinTerminal(stdinFd)

	if cfg.Backend == config.BackendTree {
		startTreeWalking(scanner, out, interactive, cfg)
		return
	}
	startVM(scanner, out, interactive, cfg)
}

func startTreeWalking(scanner *bufio.Scanner, out io.Writer, interactive bool, cfg config.Config) {
	env := evaluator.NewRootEnvironmentWithDisabled(cfg.DisableBuiltins)

	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			return
		}

		program, errs := parseLine(line)
		if len(errs) > 0 {
			printParseErrors(out, errs)
			continue
		}

		result := evaluator.Eval(program, env)
		if result != nil {
			fmt.Fprintln(out, result.Inspect())
		}
	}
}

func startVM(scanner *bufio.Scanner, out io.Writer, interactive bool, cfg config.Config) {
	symbolTable := symbols.New()
	for i, def := range builtins.Definitions {
		if cfg.Disabled(def.Name) {
			continue
		}
		symbolTable.DefineBuiltin(i, def.Name)
	}
	constants := []object.Object{}
	globals := make([]object.Object, cfg.GlobalsSize)

	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			return
		}

		program, errs := parseLine(line)
		if len(errs) > 0 {
			printParseErrors(out, errs)
			continue
		}

		comp := compiler.NewWithState(symbolTable, constants)
		if err := comp.Compile(program); err != nil {
			fmt.Fprintf(out, "compile error: %s\n", err)
			continue
		}

		code := comp.GetBytecode()
		constants = code.Constants

		machine := vm.NewWithLimits(code, globals, cfg.StackSize, cfg.FrameSize)
		result := machine.Run()
		if result != nil {
			fmt.Fprintln(out, result.Inspect())
		}
	}
}

func parseLine(line string) (*ast.Program, []string) {
	l := lexer.New(line)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

func printParseErrors(out io.Writer, errs []string) {
	for _, e := range errs {
		fmt.Fprintln(out, "\t"+e)
	}
}
