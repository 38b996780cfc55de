// Package compiler walks the syntax tree and emits bytecode plus a
// constant pool (spec.md §4.7), driven by a stack of per-function scopes
// and a symbol table shared with those scopes.
package compiler

import (
	"fmt"

	"github.com/sprout-lang/sprout/internal/ast"
	"github.com/sprout-lang/sprout/internal/builtins"
	"github.com/sprout-lang/sprout/internal/code"
	"github.com/sprout-lang/sprout/internal/object"
	"github.com/sprout-lang/sprout/internal/symbols"
)

// EmittedInstruction records one emitted opcode and its byte offset, used
// by the peephole passes for `if` and function bodies.
type EmittedInstruction struct {
	Opcode   code.Opcode
	Position int
}

// CompilationScope is the per-function instruction buffer the compiler
// emits into; scopes form a stack in lockstep with the symbol table.
type CompilationScope struct {
	instructions        code.Instructions
	lastInstruction     EmittedInstruction
	previousInstruction EmittedInstruction
}

// Bytecode is the final product of compilation: the top-level
// instructions and the constant pool they reference.
type Bytecode struct {
	Instructions code.Instructions
	Constants    []object.Object
}

// Compiler compiles a syntax tree into Bytecode. Construct with New (or
// NewWithState to resume compiling into an existing constant pool and
// symbol table, as the REPL does per spec.md §5).
type Compiler struct {
	constants []object.Object

	symbolTable *symbols.Table

	scopes     []CompilationScope
	scopeIndex int
}

// New creates a Compiler with a fresh constant pool and symbol table, the
// builtin registry pre-installed in symbol-table order.
func New() *Compiler {
	return NewWithDisabled(nil)
}

// NewWithDisabled is New but omits any builtin named in disabled from the
// symbol table, so referencing it compiles to "undefined variable"
// instead of resolving to GetBuiltin. The registry's indices are left
// untouched (spec.md §9 "Built-in registry" ordering is load-bearing) —
// only symbol-table visibility changes.
func NewWithDisabled(disabled []string) *Compiler {
	symbolTable := symbols.New()
	for i, def := range builtins.Definitions {
		if isDisabled(disabled, def.Name) {
			continue
		}
		symbolTable.DefineBuiltin(i, def.Name)
	}

	mainScope := CompilationScope{instructions: code.Instructions{}}
	return &Compiler{
		constants:   []object.Object{},
		symbolTable: symbolTable,
		scopes:      []CompilationScope{mainScope},
	}
}

func isDisabled(disabled []string, name string) bool {
	for _, n := range disabled {
		if n == name {
			return true
		}
	}
	return false
}

// NewWithState creates a Compiler that continues compiling into an
// existing constant pool and symbol table.
func NewWithState(symbolTable *symbols.Table, constants []object.Object) *Compiler {
	c := New()
	c.symbolTable = symbolTable
	c.constants = constants
	return c
}

// SymbolTable returns the compiler's symbol table, for threading state
// across REPL compile-and-run cycles.
func (c *Compiler) SymbolTable() *symbols.Table { return c.symbolTable }

// Constants returns the constant pool accumulated so far.
func (c *Compiler) Constants() []object.Object { return c.constants }

// Compile walks node, emitting bytecode into the current scope. Returns a
// compile error for malformed trees (undefined identifiers, unknown
// operators); this is distinct from a runtime *object.Error.
func (c *Compiler) Compile(node ast.Node) error {
	switch node := node.(type) {
	case *ast.StatementsNode:
		for _, s := range node.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}
	case *ast.ExpressionStatement:
		if err := c.Compile(node.Expression); err != nil {
			return err
		}
		c.emit(code.OpPop)
	case *ast.BlockStatement:
		return c.Compile(node.Body)

	case *ast.LetStatement:
		symbol := c.symbolTable.Define(node.Name.Value)
		if fl, ok := node.Value.(*ast.FunctionLiteral); ok {
			fl.Name = node.Name.Value
		}
		if err := c.Compile(node.Value); err != nil {
			return err
		}
		if symbol.Scope == symbols.GlobalScope {
			c.emit(code.OpSetGlobal, symbol.Index)
		} else {
			c.emit(code.OpSetLocal, symbol.Index)
		}

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			c.emit(code.OpNull)
		} else if err := c.Compile(node.ReturnValue); err != nil {
			return err
		}
		c.emit(code.OpReturnValue)

	case *ast.Identifier:
		symbol, ok := c.symbolTable.Resolve(node.Value)
		if !ok {
			return fmt.Errorf("undefined variable %s", node.Value)
		}
		c.loadSymbol(symbol)

	case *ast.IntegerLiteral:
		integer := &object.Integer{Value: node.Value}
		c.emit(code.OpConstant, c.addConstant(integer))
	case *ast.StringLiteral:
		str := &object.String{Value: node.Value}
		c.emit(code.OpConstant, c.addConstant(str))
	case *ast.BooleanLiteral:
		if node.Value {
			c.emit(code.OpTrue)
		} else {
			c.emit(code.OpFalse)
		}
	case *ast.NullLiteral:
		c.emit(code.OpNull)

	case *ast.PrefixExpression:
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		switch node.Operator {
		case "!":
			c.emit(code.OpBang)
		case "-":
			c.emit(code.OpMinus)
		default:
			return fmt.Errorf("unknown operator %s", node.Operator)
		}

	case *ast.InfixExpression:
		if node.Operator == "<" {
			if err := c.Compile(node.Right); err != nil {
				return err
			}
			if err := c.Compile(node.Left); err != nil {
				return err
			}
			c.emit(code.OpGreaterThan)
			return nil
		}
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		switch node.Operator {
		case "+":
			c.emit(code.OpAdd)
		case "-":
			c.emit(code.OpSub)
		case "*":
			c.emit(code.OpMul)
		case "/":
			c.emit(code.OpDiv)
		case "%":
			c.emit(code.OpMod)
		case ">":
			c.emit(code.OpGreaterThan)
		case "==":
			c.emit(code.OpEqual)
		case "!=":
			c.emit(code.OpNotEqual)
		default:
			return fmt.Errorf("unknown operator %s", node.Operator)
		}

	case *ast.IfExpression:
		return c.compileIf(node)

	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			if err := c.Compile(el); err != nil {
				return err
			}
		}
		c.emit(code.OpArray, len(node.Elements))

	case *ast.HashLiteral:
		for _, pair := range node.Pairs {
			if err := c.Compile(pair.Key); err != nil {
				return err
			}
			if err := c.Compile(pair.Value); err != nil {
				return err
			}
		}
		c.emit(code.OpHash, len(node.Pairs)*2)

	case *ast.FunctionLiteral:
		return c.compileFunctionLiteral(node)

	case *ast.CallExpression:
		return c.compileCall(node)

	default:
		return fmt.Errorf("unknown node type: %T", node)
	}
	return nil
}

func (c *Compiler) compileIf(ie *ast.IfExpression) error {
	if err := c.Compile(ie.Condition); err != nil {
		return err
	}

	jumpNotTruthyPos := c.emit(code.OpJumpNotTruthy, 9999)

	if err := c.Compile(ie.Consequence); err != nil {
		return err
	}
	if c.lastInstructionIs(code.OpPop) {
		c.removeLastPop()
	}

	jumpPos := c.emit(code.OpJump, 9999)

	afterConsequencePos := len(c.currentInstructions())
	c.changeOperand(jumpNotTruthyPos, afterConsequencePos)

	if ie.Alternative == nil {
		c.emit(code.OpNull)
	} else {
		if err := c.Compile(ie.Alternative); err != nil {
			return err
		}
		if c.lastInstructionIs(code.OpPop) {
			c.removeLastPop()
		}
	}

	afterAlternativePos := len(c.currentInstructions())
	c.changeOperand(jumpPos, afterAlternativePos)

	return nil
}

func (c *Compiler) compileFunctionLiteral(fl *ast.FunctionLiteral) error {
	c.enterScope()

	if fl.Name != "" {
		c.symbolTable.DefineFunctionName(fl.Name)
	}
	for _, p := range fl.Parameters {
		c.symbolTable.Define(p.Value)
	}

	if err := c.Compile(fl.Body); err != nil {
		return err
	}

	if c.lastInstructionIs(code.OpPop) {
		c.replaceLastPopWithReturn()
	}
	if !c.lastInstructionIs(code.OpReturnValue) {
		c.emit(code.OpReturn)
	}

	freeSymbols := c.symbolTable.FreeSymbols
	numLocals := c.symbolTable.NumDefinitions()
	instructions := c.leaveScope()

	for _, sym := range freeSymbols {
		c.loadSymbol(sym)
	}

	compiledFn := &object.CompiledFunction{
		Instructions:  instructions,
		NumLocals:     numLocals,
		NumParameters: len(fl.Parameters),
	}
	fnIndex := c.addConstant(compiledFn)
	c.emit(code.OpClosure, fnIndex, len(freeSymbols))
	return nil
}

func (c *Compiler) compileCall(ce *ast.CallExpression) error {
	if err := c.Compile(ce.Left); err != nil {
		return err
	}
	for _, postfix := range ce.Postfixes {
		switch p := postfix.(type) {
		case *ast.Arguments:
			for _, arg := range p.Args {
				if err := c.Compile(arg); err != nil {
					return err
				}
			}
			c.emit(code.OpCall, len(p.Args))
		case *ast.IndexPostfix:
			if err := c.Compile(p.Index); err != nil {
				return err
			}
			c.emit(code.OpIndex)
		default:
			return fmt.Errorf("unknown postfix type: %T", postfix)
		}
	}
	return nil
}

func (c *Compiler) loadSymbol(s symbols.Symbol) {
	switch s.Scope {
	case symbols.GlobalScope:
		c.emit(code.OpGetGlobal, s.Index)
	case symbols.LocalScope:
		c.emit(code.OpGetLocal, s.Index)
	case symbols.BuiltinScope:
		c.emit(code.OpGetBuiltin, s.Index)
	case symbols.FreeScope:
		c.emit(code.OpGetFree, s.Index)
	case symbols.FunctionScope:
		c.emit(code.OpCurrentClosure)
	}
}

// GetBytecode returns the compiled top-level instructions and the
// accumulated constant pool.
func (c *Compiler) GetBytecode() *Bytecode {
	return &Bytecode{
		Instructions: c.currentInstructions(),
		Constants:    c.constants,
	}
}

func (c *Compiler) addConstant(obj object.Object) int {
	c.constants = append(c.constants, obj)
	return len(c.constants) - 1
}

func (c *Compiler) currentInstructions() code.Instructions {
	return c.scopes[c.scopeIndex].instructions
}

func (c *Compiler) emit(op code.Opcode, operands ...int) int {
	ins := code.Make(op, operands...)
	pos := c.addInstruction(ins)
	c.setLastInstruction(op, pos)
	return pos
}

func (c *Compiler) addInstruction(ins []byte) int {
	posNewInstruction := len(c.currentInstructions())
	updated := append(c.currentInstructions(), ins...)
	c.scopes[c.scopeIndex].instructions = updated
	return posNewInstruction
}

func (c *Compiler) setLastInstruction(op code.Opcode, pos int) {
	previous := c.scopes[c.scopeIndex].lastInstruction
	last := EmittedInstruction{Opcode: op, Position: pos}
	c.scopes[c.scopeIndex].previousInstruction = previous
	c.scopes[c.scopeIndex].lastInstruction = last
}

func (c *Compiler) lastInstructionIs(op code.Opcode) bool {
	if len(c.currentInstructions()) == 0 {
		return false
	}
	return c.scopes[c.scopeIndex].lastInstruction.Opcode == op
}

func (c *Compiler) removeLastPop() {
	last := c.scopes[c.scopeIndex].lastInstruction
	previous := c.scopes[c.scopeIndex].previousInstruction

	old := c.currentInstructions()
	newIns := old[:last.Position]

	c.scopes[c.scopeIndex].instructions = newIns
	c.scopes[c.scopeIndex].lastInstruction = previous
}

func (c *Compiler) replaceInstruction(pos int, newInstruction []byte) {
	ins := c.currentInstructions()
	for i := 0; i < len(newInstruction); i++ {
		ins[pos+i] = newInstruction[i]
	}
}

func (c *Compiler) replaceLastPopWithReturn() {
	lastPos := c.scopes[c.scopeIndex].lastInstruction.Position
	newInstruction := code.Make(code.OpReturnValue)
	c.replaceInstruction(lastPos, newInstruction)
	c.scopes[c.scopeIndex].lastInstruction.Opcode = code.OpReturnValue
}

func (c *Compiler) changeOperand(opPos int, operand int) {
	op := code.Opcode(c.currentInstructions()[opPos])
	newInstruction := code.Make(op, operand)
	c.replaceInstruction(opPos, newInstruction)
}

func (c *Compiler) enterScope() {
	scope := CompilationScope{instructions: code.Instructions{}}
	c.scopes = append(c.scopes, scope)
	c.scopeIndex++
	c.symbolTable = symbols.NewEnclosed(c.symbolTable)
}

func (c *Compiler) leaveScope() code.Instructions {
	instructions := c.currentInstructions()
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.scopeIndex--
	c.symbolTable = c.symbolTable.Outer
	return instructions
}
