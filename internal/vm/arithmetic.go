package vm

import (
	"math"

	"sahlvm/internal/object"
	"sahlvm/internal/value"
)

// Every binary op pops its right operand first (top of stack), then its
// left operand, computes lhs OP rhs, and pushes the result. This matches
// the original's pop order for every handler it defines.
func (vm *VM) popBinary() (lhs, rhs value.Value, err error) {
	rhs, err = vm.pop()
	if err != nil {
		return 0, 0, err
	}
	lhs, err = vm.pop()
	if err != nil {
		return 0, 0, err
	}
	return lhs, rhs, nil
}

func (vm *VM) opAdd() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	if lhs.IsObj() && rhs.IsObj() {
		s, err := vm.concatStrings(object.FromValue(lhs), object.FromValue(rhs))
		if err != nil {
			return err
		}
		return vm.push(s.Value())
	}
	return vm.push(value.FromFloat(lhs.AsFloat() + rhs.AsFloat()))
}

func (vm *VM) concatStrings(a, b *object.Obj) (*object.Obj, error) {
	chars := make([]byte, 0, len(a.Chars)+len(b.Chars))
	chars = append(chars, a.Chars...)
	chars = append(chars, b.Chars...)
	o := vm.newObject(object.TypeString)
	o.Chars = chars
	vm.trackAlloc(uint64(len(chars)))
	return o, nil
}

func (vm *VM) opSub() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromFloat(lhs.AsFloat() - rhs.AsFloat()))
}

func (vm *VM) opMul() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromFloat(lhs.AsFloat() * rhs.AsFloat()))
}

func (vm *VM) opDiv() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromFloat(lhs.AsFloat() / rhs.AsFloat()))
}

func (vm *VM) opMod() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromFloat(math.Mod(lhs.AsFloat(), rhs.AsFloat())))
}

func (vm *VM) opNeg() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromFloat(-v.AsFloat()))
}

func (vm *VM) opNot() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(!v.AsBool()))
}

func (vm *VM) opAnd() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsBool() && rhs.AsBool()))
}

func (vm *VM) opOr() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsBool() || rhs.AsBool()))
}

func (vm *VM) opEqual() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs == rhs))
}

func (vm *VM) opNotEqual() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs != rhs))
}

func (vm *VM) opLess() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsFloat() < rhs.AsFloat()))
}

func (vm *VM) opLessEqual() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsFloat() <= rhs.AsFloat()))
}

func (vm *VM) opGreater() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsFloat() > rhs.AsFloat()))
}

func (vm *VM) opGreaterEqual() error {
	lhs, rhs, err := vm.popBinary()
	if err != nil {
		return err
	}
	vm.frame.ip++
	return vm.push(value.FromBool(lhs.AsFloat() >= rhs.AsFloat()))
}
