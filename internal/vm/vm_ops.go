package vm

import (
	"github.com/sprout-lang/sprout/internal/code"
	"github.com/sprout-lang/sprout/internal/object"
)

// Each of these helpers returns nil on success or an *object.Error to
// propagate as the VM's final result (spec.md §4.8, §7).

func (vm *VM) executeBinaryOperation(op code.Opcode) object.Object {
	right := vm.pop()
	left := vm.pop()

	leftType, rightType := left.Type(), right.Type()

	switch {
	case leftType == object.INTEGER_OBJ && rightType == object.INTEGER_OBJ:
		return vm.executeBinaryIntegerOperation(op, left, right)
	case leftType == object.STRING_OBJ && rightType == object.STRING_OBJ:
		return vm.executeBinaryStringOperation(op, left, right)
	default:
		return newError("unsupported types for binary operation: %s %s", leftType, rightType)
	}
}

func (vm *VM) executeBinaryIntegerOperation(op code.Opcode, left, right object.Object) object.Object {
	leftVal := left.(*object.Integer).Value
	rightVal := right.(*object.Integer).Value

	var result int64
	switch op {
	case code.OpAdd:
		result = leftVal + rightVal
	case code.OpSub:
		result = leftVal - rightVal
	case code.OpMul:
		result = leftVal * rightVal
	case code.OpDiv:
		if rightVal == 0 {
			return newError("divide by 0 error")
		}
		result = leftVal / rightVal
	case code.OpMod:
		if rightVal == 0 {
			return newError("divide by 0 error")
		}
		result = leftVal % rightVal
	default:
		return newError("unknown integer operator: %d", op)
	}

	if err := vm.push(&object.Integer{Value: result}); err != nil {
		return newError(err.Error())
	}
	return nil
}

func (vm *VM) executeBinaryStringOperation(op code.Opcode, left, right object.Object) object.Object {
	if op != code.OpAdd {
		return newError("unsupported types for binary operation: %s %s", left.Type(), right.Type())
	}
	leftVal := left.(*object.String).Value
	rightVal := right.(*object.String).Value
	if err := vm.push(&object.String{Value: leftVal + rightVal}); err != nil {
		return newError(err.Error())
	}
	return nil
}

func (vm *VM) executeComparison(op code.Opcode) object.Object {
	right := vm.pop()
	left := vm.pop()

	if left.Type() == object.INTEGER_OBJ || right.Type() == object.INTEGER_OBJ {
		return vm.executeIntegerComparison(op, left, right)
	}

	switch op {
	case code.OpEqual:
		return vm.pushComparisonResult(left == right)
	case code.OpNotEqual:
		return vm.pushComparisonResult(left != right)
	default:
		return newError("unsupported types for comparison: %s %s", left.Type(), right.Type())
	}
}

func (vm *VM) executeIntegerComparison(op code.Opcode, left, right object.Object) object.Object {
	leftInt, ok := left.(*object.Integer)
	if !ok {
		return newError("unsupported types for comparison: %s %s", left.Type(), right.Type())
	}
	rightInt, ok := right.(*object.Integer)
	if !ok {
		return newError("unsupported types for comparison: %s %s", left.Type(), right.Type())
	}

	switch op {
	case code.OpEqual:
		return vm.pushComparisonResult(leftInt.Value == rightInt.Value)
	case code.OpNotEqual:
		return vm.pushComparisonResult(leftInt.Value != rightInt.Value)
	case code.OpGreaterThan:
		return vm.pushComparisonResult(leftInt.Value > rightInt.Value)
	default:
		return newError("unknown operator: %d", op)
	}
}

func (vm *VM) pushComparisonResult(result bool) object.Object {
	if err := vm.push(object.NativeBool(result)); err != nil {
		return newError(err.Error())
	}
	return nil
}

func (vm *VM) executeBangOperator() object.Object {
	operand := vm.pop()
	switch operand {
	case object.True:
		return vm.pushOrError(object.False)
	case object.False:
		return vm.pushOrError(object.True)
	case object.Null:
		return vm.pushOrError(object.True)
	default:
		return vm.pushOrError(object.False)
	}
}

func (vm *VM) executeMinusOperator() object.Object {
	operand := vm.pop()
	intg, ok := operand.(*object.Integer)
	if !ok {
		return newError("unsupported type for negation: %s", operand.Type())
	}
	return vm.pushOrError(&object.Integer{Value: -intg.Value})
}

func (vm *VM) pushOrError(obj object.Object) object.Object {
	if err := vm.push(obj); err != nil {
		return newError(err.Error())
	}
	return nil
}

func (vm *VM) executeIndexExpression(left, index object.Object) object.Object {
	switch {
	case left.Type() == object.ARRAY_OBJ:
		return vm.executeArrayIndex(left, index)
	case left.Type() == object.HASH_OBJ:
		return vm.executeHashIndex(left, index)
	default:
		return newError("index operator not supported: %s", left.Type())
	}
}

func (vm *VM) executeArrayIndex(array, index object.Object) object.Object {
	arrayObject := array.(*object.Array)
	idx, ok := index.(*object.Integer)
	if !ok {
		return newError("index operator not supported: %s", index.Type())
	}
	max := int64(len(arrayObject.Elements) - 1)
	if idx.Value < 0 || idx.Value > max {
		return vm.pushOrError(object.Null)
	}
	return vm.pushOrError(arrayObject.Elements[idx.Value])
}

func (vm *VM) executeHashIndex(hash, index object.Object) object.Object {
	hashObject := hash.(*object.Hash)
	key, ok := index.(object.Hashable)
	if !ok {
		return newError("unusable as hash key: %s", index.Type())
	}
	pair, ok := hashObject.Pairs[key.HashKey()]
	if !ok {
		return vm.pushOrError(object.Null)
	}
	return vm.pushOrError(pair.Value)
}

func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Boolean:
		return obj.Value
	case *object.NullType:
		return false
	default:
		return true
	}
}
