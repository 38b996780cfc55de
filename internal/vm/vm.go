// Package vm implements the stack-based bytecode virtual machine
// (spec.md §4.8): frames, an operand stack, globals, and closures. It
// shares the value model and builtin registry with the evaluator and
// consumes bytecode produced by internal/compiler.
package vm

import (
	"fmt"

	"github.com/sprout-lang/sprout/internal/builtins"
	"github.com/sprout-lang/sprout/internal/code"
	"github.com/sprout-lang/sprout/internal/compiler"
	"github.com/sprout-lang/sprout/internal/object"
)

// Default resource limits (spec.md §5), used whenever a caller doesn't
// thread a config.Config's own StackSize/FrameSize/GlobalsSize through.
const (
	StackSize   = 2048
	GlobalsSize = 65535
	MaxFrames   = 1024
)

// VM owns its constants, frames, stack, and globals; there is no shared
// mutable state between instances (spec.md §5).
type VM struct {
	constants []object.Object

	stack []object.Object
	sp    int // points to the next free slot; top of stack is stack[sp-1]

	globals []object.Object

	frames      []*Frame
	framesIndex int
	maxFrames   int
}

// New creates a VM over bytecode with a fresh globals array, sized to the
// package defaults.
func New(bytecode *compiler.Bytecode) *VM {
	return NewWithGlobalsStore(bytecode, make([]object.Object, GlobalsSize))
}

// NewWithGlobalsStore creates a VM that shares globals with a prior run,
// the way the REPL threads state across compile-and-run cycles (spec.md
// §5), using the package default stack and frame limits.
func NewWithGlobalsStore(bytecode *compiler.Bytecode, globals []object.Object) *VM {
	return NewWithLimits(bytecode, globals, StackSize, MaxFrames)
}

// NewWithLimits creates a VM with its stack and frame capacities set from
// a host's config.Config (StackSize, FrameSize), rather than the package
// defaults — this is how a `sproutrc.yaml` actually tunes VM resource
// limits (spec.md §5's "resource errors").
func NewWithLimits(bytecode *compiler.Bytecode, globals []object.Object, stackSize, maxFrames int) *VM {
	mainFn := &object.CompiledFunction{Instructions: bytecode.Instructions}
	mainClosure := &object.Closure{Fn: mainFn}
	mainFrame := NewFrame(mainClosure, 0)

	frames := make([]*Frame, maxFrames)
	frames[0] = mainFrame

	return &VM{
		constants:   bytecode.Constants,
		stack:       make([]object.Object, stackSize),
		sp:          0,
		globals:     globals,
		frames:      frames,
		framesIndex: 1,
		maxFrames:   maxFrames,
	}
}

func (vm *VM) currentFrame() *Frame { return vm.frames[vm.framesIndex-1] }

func (vm *VM) pushFrame(f *Frame) {
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
}

func (vm *VM) popFrame() *Frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

// LastPoppedStackElem returns the value last popped off the stack: the
// VM's result once the fetch-execute loop has run to completion.
func (vm *VM) LastPoppedStackElem() object.Object {
	return vm.stack[vm.sp]
}

func (vm *VM) push(obj object.Object) error {
	if vm.sp >= len(vm.stack) {
		return fmt.Errorf("stack overflow")
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

func (vm *VM) pop() object.Object {
	obj := vm.stack[vm.sp-1]
	vm.sp--
	return obj
}

// Run executes bytecode to completion. A language-level failure (type
// error, arity mismatch, stack overflow, …) is returned as an
// *object.Error value, not as the Go error — matching how the evaluator
// treats its own Error results (spec.md §7, §9).
func (vm *VM) Run() object.Object {
	for vm.currentFrame().ip < len(vm.currentFrame().Instructions())-1 {
		vm.currentFrame().ip++

		ip := vm.currentFrame().ip
		ins := vm.currentFrame().Instructions()
		op := code.Opcode(ins[ip])

		switch op {
		case code.OpConstant:
			constIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.constants[constIndex]); err != nil {
				return newError(err.Error())
			}

		case code.OpPop:
			vm.pop()

		case code.OpAdd, code.OpSub, code.OpMul, code.OpDiv, code.OpMod:
			if errObj := vm.executeBinaryOperation(op); errObj != nil {
				return errObj
			}

		case code.OpTrue:
			if err := vm.push(object.True); err != nil {
				return newError(err.Error())
			}
		case code.OpFalse:
			if err := vm.push(object.False); err != nil {
				return newError(err.Error())
			}
		case code.OpNull:
			if err := vm.push(object.Null); err != nil {
				return newError(err.Error())
			}

		case code.OpEqual, code.OpNotEqual, code.OpGreaterThan:
			if errObj := vm.executeComparison(op); errObj != nil {
				return errObj
			}

		case code.OpBang:
			if errObj := vm.executeBangOperator(); errObj != nil {
				return errObj
			}
		case code.OpMinus:
			if errObj := vm.executeMinusOperator(); errObj != nil {
				return errObj
			}

		case code.OpJump:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip = pos - 1

		case code.OpJumpNotTruthy:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			condition := vm.pop()
			if !isTruthy(condition) {
				vm.currentFrame().ip = pos - 1
			}

		case code.OpSetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			vm.globals[globalIndex] = vm.pop()
		case code.OpGetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.globals[globalIndex]); err != nil {
				return newError(err.Error())
			}

		case code.OpSetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			vm.stack[frame.basePointer+int(localIndex)] = vm.pop()
		case code.OpGetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			if err := vm.push(vm.stack[frame.basePointer+int(localIndex)]); err != nil {
				return newError(err.Error())
			}

		case code.OpGetBuiltin:
			builtinIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			def := builtins.GetByIndex(int(builtinIndex))
			if err := vm.push(def); err != nil {
				return newError(err.Error())
			}

		case code.OpGetFree:
			freeIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			currentClosure := vm.currentFrame().cl
			if err := vm.push(currentClosure.Free[freeIndex]); err != nil {
				return newError(err.Error())
			}

		case code.OpCurrentClosure:
			currentClosure := vm.currentFrame().cl
			if err := vm.push(currentClosure); err != nil {
				return newError(err.Error())
			}

		case code.OpArray:
			numElements := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			array := vm.buildArray(vm.sp-numElements, vm.sp)
			vm.sp = vm.sp - numElements
			if err := vm.push(array); err != nil {
				return newError(err.Error())
			}

		case code.OpHash:
			numElements := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2
			hash := vm.buildHash(vm.sp-numElements, vm.sp)
			if errObj, ok := hash.(*object.Error); ok {
				return errObj
			}
			vm.sp = vm.sp - numElements
			if err := vm.push(hash); err != nil {
				return newError(err.Error())
			}

		case code.OpIndex:
			index := vm.pop()
			left := vm.pop()
			if errObj := vm.executeIndexExpression(left, index); errObj != nil {
				return errObj
			}

		case code.OpCall:
			numArgs := int(code.ReadUint8(ins[ip+1:]))
			vm.currentFrame().ip += 1
			if errObj := vm.executeCall(numArgs); errObj != nil {
				return errObj
			}

		case code.OpReturnValue:
			returnValue := vm.pop()
			frame := vm.popFrame()
			vm.sp = frame.basePointer - 1
			if err := vm.push(returnValue); err != nil {
				return newError(err.Error())
			}

		case code.OpReturn:
			frame := vm.popFrame()
			vm.sp = frame.basePointer - 1
			if err := vm.push(object.Null); err != nil {
				return newError(err.Error())
			}

		case code.OpClosure:
			constIndex := code.ReadUint16(ins[ip+1:])
			numFree := int(code.ReadUint8(ins[ip+3:]))
			vm.currentFrame().ip += 3
			if errObj := vm.pushClosure(int(constIndex), numFree); errObj != nil {
				return errObj
			}

		default:
			return newError("unknown opcode: %d", op)
		}
	}

	if last := vm.LastPoppedStackElem(); last != nil {
		return last
	}
	return object.Null
}

func (vm *VM) pushClosure(constIndex, numFree int) object.Object {
	constant := vm.constants[constIndex]
	function, ok := constant.(*object.CompiledFunction)
	if !ok {
		return newError("not a function: %+v", constant)
	}

	free := make([]object.Object, numFree)
	for i := 0; i < numFree; i++ {
		free[i] = vm.stack[vm.sp-numFree+i]
	}
	vm.sp = vm.sp - numFree

	closure := &object.Closure{Fn: function, Free: free}
	if err := vm.push(closure); err != nil {
		return newError(err.Error())
	}
	return nil
}

func (vm *VM) buildArray(startIndex, endIndex int) object.Object {
	elements := make([]object.Object, endIndex-startIndex)
	copy(elements, vm.stack[startIndex:endIndex])
	return &object.Array{Elements: elements}
}

func (vm *VM) buildHash(startIndex, endIndex int) object.Object {
	pairs := make(map[object.HashKey]object.HashPair)
	for i := startIndex; i < endIndex; i += 2 {
		key := vm.stack[i]
		value := vm.stack[i+1]

		hashable, ok := key.(object.Hashable)
		if !ok {
			return newError("unusable as hash key: %s", key.Type())
		}
		pairs[hashable.HashKey()] = object.HashPair{Key: key, Value: value}
	}
	return &object.Hash{Pairs: pairs}
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
