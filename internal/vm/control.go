package vm

import (
	"sahlvm/internal/bytecode"
	"sahlvm/internal/value"
	"sahlvm/internal/vmerr"
)

func (vm *VM) opTrue() error {
	vm.frame.ip++
	return vm.push(value.True)
}

func (vm *VM) opFalse() error {
	vm.frame.ip++
	return vm.push(value.False)
}

func (vm *VM) opJump() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	f.ip = bytecode.ReadU32(operand)
	return nil
}

func (vm *VM) opJumpIfFalse() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	target := bytecode.ReadU32(operand)
	cond, err := vm.pop()
	if err != nil {
		return err
	}
	if !cond.AsBool() {
		f.ip = target
	} else {
		f.ip += 5
	}
	return nil
}

func (vm *VM) opPop() error {
	if _, err := vm.pop(); err != nil {
		return err
	}
	vm.frame.ip++
	return nil
}

func (vm *VM) opDefLocal() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	idx := int(bytecode.ReadU32(operand))
	v, err := vm.pop()
	if err != nil {
		return err
	}
	f.growLocals(idx)
	f.locals[idx] = v
	f.ip += 5
	return nil
}

func (vm *VM) opGetLocal() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	idx := int(bytecode.ReadU32(operand))
	if idx >= len(f.locals) {
		return vmerr.New(vmerr.KindIndexRange, "local %d not defined", idx)
	}
	f.ip += 5
	return vm.push(f.locals[idx])
}

func (vm *VM) opAssign() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	idx := int(bytecode.ReadU32(operand))
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if idx >= len(f.locals) {
		return vmerr.New(vmerr.KindIndexRange, "local %d not defined", idx)
	}
	f.locals[idx] = v
	f.ip += 5
	return nil
}
