package vm

import (
	"sahlvm/internal/bytecode"
	"sahlvm/internal/object"
	"sahlvm/internal/value"
	"sahlvm/internal/vmerr"
)

// CONST_U64 and CONST_DOUBLE promote their operand to a properly NaN-boxed
// double. CONST_U8 and CONST_U32 push the raw operand bits unconverted,
// matching the original: they exist for a compiler to stash a small
// opcode-internal tag rather than a number, and a consumer that wants the
// integer back must read it with Bits; AsFloat reinterprets the bits and
// does not recover the integer's numeric value.

func (vm *VM) opConstU8() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 1)
	if err != nil {
		return err
	}
	f.ip += 2
	return vm.push(value.FromBits(uint64(operand[0])))
}

func (vm *VM) opConstU32() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	f.ip += 5
	return vm.push(value.FromBits(uint64(bytecode.ReadU32(operand))))
}

func (vm *VM) opConstU64() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 8)
	if err != nil {
		return err
	}
	f.ip += 9
	return vm.push(value.FromFloat(float64(bytecode.ReadU64(operand))))
}

func (vm *VM) opConstDouble() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 8)
	if err != nil {
		return err
	}
	f.ip += 9
	return vm.push(value.FromBits(bytecode.ReadU64(operand)))
}

func (vm *VM) opString() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	idx := int(bytecode.ReadU32(operand))
	if idx >= len(vm.strings) {
		return vmerr.New(vmerr.KindIndexRange, "string index %d out of range", idx)
	}
	o := vm.newObject(object.TypeString)
	o.Chars = []byte(vm.strings[idx])
	o.Constant = true
	f.ip += 5
	return vm.push(o.Value())
}
