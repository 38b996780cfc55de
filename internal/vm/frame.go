package vm

import (
	"github.com/sprout-lang/sprout/internal/code"
	"github.com/sprout-lang/sprout/internal/object"
)

// Frame is a single call's record: the closure being executed, the
// instruction pointer within it, and the stack position its locals begin
// at (spec.md §4.8).
type Frame struct {
	cl          *object.Closure
	ip          int
	basePointer int
}

// NewFrame creates a Frame for cl with locals starting at basePointer.
// ip starts at -1 because the fetch-execute loop pre-increments it before
// reading the first opcode.
func NewFrame(cl *object.Closure, basePointer int) *Frame {
	return &Frame{cl: cl, ip: -1, basePointer: basePointer}
}

func (f *Frame) Instructions() code.Instructions {
	return f.cl.Fn.Instructions
}
