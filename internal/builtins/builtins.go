// Package builtins holds the fixed, ordered registry of native functions
// shared by the tree-walking evaluator and the bytecode VM (spec.md
// §4.3). Ordering is load-bearing: the VM's GetBuiltin opcode encodes a
// registry index, so this slice must never be reordered, and the
// compiler must install these names into the symbol table in the same
// order before compiling anything (spec.md §9 "Built-in registry").
package builtins

import (
	"fmt"

	"github.com/sprout-lang/sprout/internal/object"
)

// Definition pairs a builtin's name with its native implementation.
type Definition struct {
	Name    string
	Builtin *object.Builtin
}

// Definitions is the stable, ordered builtin registry: len, puts, first,
// last, rest, push.
var Definitions = []Definition{
	{"len", &object.Builtin{Fn: builtinLen}},
	{"puts", &object.Builtin{Fn: builtinPuts}},
	{"first", &object.Builtin{Fn: builtinFirst}},
	{"last", &object.Builtin{Fn: builtinLast}},
	{"rest", &object.Builtin{Fn: builtinRest}},
	{"push", &object.Builtin{Fn: builtinPush}},
}

// GetByName returns the builtin registered under name, or nil if there is
// none.
func GetByName(name string) *object.Builtin {
	for _, d := range Definitions {
		if d.Name == name {
			return d.Builtin
		}
	}
	return nil
}

// GetByIndex returns the builtin at registry index idx, used by the VM's
// GetBuiltin opcode. Returns nil if idx is out of range.
func GetByIndex(idx int) *object.Builtin {
	if idx < 0 || idx >= len(Definitions) {
		return nil
	}
	return Definitions[idx].Builtin
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
