// Package symbols implements the compiler's compile-time name resolution
// (spec.md §4.6): a tree of scopes mapping names to Symbols, with
// automatic free-variable detection for closures.
package symbols

// Scope identifies which storage kind a Symbol resolves to.
type Scope string

const (
	GlobalScope   Scope = "GLOBAL"
	LocalScope    Scope = "LOCAL"
	BuiltinScope  Scope = "BUILTIN"
	FreeScope     Scope = "FREE"
	FunctionScope Scope = "FUNCTION"
)

// Symbol is a resolved name: where it lives (Scope) and its slot index.
type Symbol struct {
	Name  string
	Scope Scope
	Index int
}

// Table is one lexical scope, with an optional outer scope forming the
// resolution chain.
type Table struct {
	Outer *Table

	FreeSymbols []Symbol

	store          map[string]Symbol
	numDefinitions int
}

// New creates a root (global) symbol table.
func New() *Table {
	return &Table{store: make(map[string]Symbol)}
}

// NewEnclosed creates a child scope of outer, used when the compiler
// enters a function body.
func NewEnclosed(outer *Table) *Table {
	t := New()
	t.Outer = outer
	return t
}

// Define assigns name a slot in this scope: Global in the root table,
// Local otherwise. The index is the current definition count, which then
// increments; redefining an existing name overwrites its binding with a
// symbol at the next index (spec.md §4.6).
func (t *Table) Define(name string) Symbol {
	symbol := Symbol{Name: name, Index: t.numDefinitions}
	if t.Outer == nil {
		symbol.Scope = GlobalScope
	} else {
		symbol.Scope = LocalScope
	}
	t.store[name] = symbol
	t.numDefinitions++
	return symbol
}

// DefineBuiltin registers a builtin at its fixed registry index.
func (t *Table) DefineBuiltin(index int, name string) Symbol {
	symbol := Symbol{Name: name, Index: index, Scope: BuiltinScope}
	t.store[name] = symbol
	return symbol
}

// DefineFunctionName installs the current function's own name so its body
// can reference itself for recursion (spec.md's FunctionScope).
func (t *Table) DefineFunctionName(name string) Symbol {
	symbol := Symbol{Name: name, Index: 0, Scope: FunctionScope}
	t.store[name] = symbol
	return symbol
}

// defineFree appends original to this scope's free list and installs a
// Free symbol pointing at that slot.
func (t *Table) defineFree(original Symbol) Symbol {
	t.FreeSymbols = append(t.FreeSymbols, original)
	symbol := Symbol{Name: original.Name, Index: len(t.FreeSymbols) - 1, Scope: FreeScope}
	t.store[original.Name] = symbol
	return symbol
}

// Resolve looks up name in this scope, then outward. A name resolved
// through an outer scope is returned as-is when it is Global or Builtin;
// otherwise it is captured as a Free symbol in every scope between here
// and its definition, which is how closures detect and number their
// captured variables (spec.md §4.6).
func (t *Table) Resolve(name string) (Symbol, bool) {
	symbol, ok := t.store[name]
	if ok {
		return symbol, true
	}
	if t.Outer == nil {
		return Symbol{}, false
	}

	symbol, ok = t.Outer.Resolve(name)
	if !ok {
		return symbol, false
	}
	if symbol.Scope == GlobalScope || symbol.Scope == BuiltinScope {
		return symbol, true
	}

	free := t.defineFree(symbol)
	return free, true
}

// NumDefinitions reports how many names have been defined directly in
// this scope (used by the compiler for a function's local-slot count).
func (t *Table) NumDefinitions() int { return t.numDefinitions }
