package evaluator

import "github.com/sprout-lang/sprout/internal/object"

// Environment is a nested name→value scope (spec.md §4.2). A new
// Environment is created for every function call (parent = captured
// scope) and for every block (parent = enclosing environment).
type Environment struct {
	store map[string]object.Object
	outer *Environment
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]object.Object)}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get returns the innermost binding for name, searching outward through
// parent scopes.
func (e *Environment) Get(name string) (object.Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Set binds name to val in the current scope.
func (e *Environment) Set(name string, val object.Object) object.Object {
	e.store[name] = val
	return val
}
