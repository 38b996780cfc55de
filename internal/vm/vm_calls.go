package vm

import "github.com/sprout-lang/sprout/internal/object"

// executeCall dispatches OpCall argc against the callee found at
// stack[sp-1-argc] (spec.md §4.8). Returns nil on success, or an
// *object.Error to propagate.
func (vm *VM) executeCall(numArgs int) object.Object {
	callee := vm.stack[vm.sp-1-numArgs]

	switch callee := callee.(type) {
	case *object.Closure:
		return vm.callClosure(callee, numArgs)
	case *object.Builtin:
		return vm.callBuiltin(callee, numArgs)
	default:
		return newError("calling non-function and non-built-in")
	}
}

func (vm *VM) callClosure(cl *object.Closure, numArgs int) object.Object {
	if numArgs != cl.Fn.NumParameters {
		return newError("wrong number of arguments: want=%d, got=%d", cl.Fn.NumParameters, numArgs)
	}

	if vm.framesIndex >= vm.maxFrames {
		return newError("stack overflow")
	}

	frame := NewFrame(cl, vm.sp-numArgs)
	vm.pushFrame(frame)
	vm.sp = frame.basePointer + cl.Fn.NumLocals
	return nil
}

func (vm *VM) callBuiltin(builtin *object.Builtin, numArgs int) object.Object {
	args := vm.stack[vm.sp-numArgs : vm.sp]

	result := builtin.Fn(args...)
	vm.sp = vm.sp - numArgs - 1

	if result == nil {
		result = object.Null
	}
	if errObj := vm.pushOrError(result); errObj != nil {
		return errObj
	}
	return nil
}
