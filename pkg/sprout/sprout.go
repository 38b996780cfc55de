// Package sprout is the embeddable entry point for both execution
// backends (spec.md §6): helpers that take source text or a parsed tree
// and return a runtime object.Object, for hosts that don't want to
// depend on the internal packages directly.
package sprout

import (
	"fmt"

	"github.com/sprout-lang/sprout/internal/ast"
	"github.com/sprout-lang/sprout/internal/compiler"
	"github.com/sprout-lang/sprout/internal/evaluator"
	"github.com/sprout-lang/sprout/internal/lexer"
	"github.com/sprout-lang/sprout/internal/object"
	"github.com/sprout-lang/sprout/internal/parser"
	"github.com/sprout-lang/sprout/internal/vm"
)

// Object is the runtime value type returned by every entry point.
type Object = object.Object

// Parse lexes and parses src into a syntax tree. Parse errors are
// returned as a single joined Go error; they are a host-level concern,
// distinct from the language-level *object.Error values Eval/Run return.
func Parse(src string) (*ast.Program, error) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse errors: %v", errs)
	}
	return program, nil
}

// Eval runs program on the tree-walking evaluator backend.
func Eval(program *ast.Program, env *evaluator.Environment) Object {
	return evaluator.Eval(program, env)
}

// Compile lowers program to bytecode via a fresh compiler state.
func Compile(program *ast.Program) (*compiler.Bytecode, error) {
	c := compiler.New()
	if err := c.Compile(program); err != nil {
		return nil, err
	}
	return c.GetBytecode(), nil
}

// Run executes bytecode on the stack virtual machine backend.
func Run(bytecode *compiler.Bytecode) Object {
	machine := vm.New(bytecode)
	return machine.Run()
}

// RunSource parses, compiles, and runs src on the VM backend in one call
// — the common case for a host that doesn't need to reuse state across
// calls (see internal/repl for the REPL's session-threaded variant).
func RunSource(src string) (Object, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	bytecode, err := Compile(program)
	if err != nil {
		return nil, err
	}
	return Run(bytecode), nil
}

// EvalSource parses and evaluates src on the tree-walking backend.
func EvalSource(src string) (Object, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	env := evaluator.NewRootEnvironment()
	return Eval(program, env), nil
}
