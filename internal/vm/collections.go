package vm

import (
	"math"

	"sahlvm/internal/bytecode"
	"sahlvm/internal/object"
	"sahlvm/internal/value"
	"sahlvm/internal/vmerr"
)

func truncIndex(v value.Value) int {
	return int(math.Trunc(v.AsFloat()))
}

// opList builds a fixed-size list (LIST n) from the top n stack values, in
// source order. The list object is pushed immediately after creation, empty,
// so a GC cycle triggered by the items buffer's own allocation still finds
// it reachable.
func (vm *VM) opList() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	n := int(bytecode.ReadU32(operand))

	o := vm.newObject(object.TypeList)
	if err := vm.push(o.Value()); err != nil {
		return err
	}

	capacity := object.GrowCapacity(n)
	o.Items = make([]value.Value, capacity)
	vm.trackAlloc(uint64(capacity) * 8)
	o.Length = n
	o.Capacity = capacity

	if _, err := vm.pop(); err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		o.Items[i] = v
	}
	f.ip += 5
	return vm.push(o.Value())
}

// opMakeList builds a list of the given length filled with one default
// value (MAKE_LIST: pop default, pop length). Unlike every other opcode
// here, only a single push brackets the whole operation: the GC-protecting
// push IS the final result, since nothing else is pushed in between.
func (vm *VM) opMakeList() error {
	def, err := vm.pop()
	if err != nil {
		return err
	}
	lenVal, err := vm.pop()
	if err != nil {
		return err
	}
	n := truncIndex(lenVal)

	o := vm.newObject(object.TypeList)
	if err := vm.push(o.Value()); err != nil {
		return err
	}

	capacity := object.GrowCapacity(n)
	o.Items = make([]value.Value, capacity)
	vm.trackAlloc(uint64(capacity) * 8)
	o.Length = n
	o.Capacity = capacity
	for i := 0; i < n; i++ {
		o.Items[i] = def
	}

	vm.frame.ip++
	return nil
}

// opMakeTuple builds a fixed tuple (capacity always equals length) from the
// top n stack values, in source order.
func (vm *VM) opMakeTuple() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 4)
	if err != nil {
		return err
	}
	n := int(bytecode.ReadU32(operand))

	o := vm.newObject(object.TypeTuple)
	if err := vm.push(o.Value()); err != nil {
		return err
	}

	o.Items = make([]value.Value, n)
	vm.trackAlloc(uint64(n) * 8)
	o.Length = n
	o.Capacity = n

	if _, err := vm.pop(); err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		o.Items[i] = v
	}
	f.ip += 5
	return vm.push(o.Value())
}

func (vm *VM) opIndex() error {
	idxVal, err := vm.pop()
	if err != nil {
		return err
	}
	arrVal, err := vm.pop()
	if err != nil {
		return err
	}
	idx := truncIndex(idxVal)
	o := object.FromValue(arrVal)
	if idx < 0 || idx >= o.Length {
		return vmerr.New(vmerr.KindIndexRange, "index %d out of bounds (length %d)", idx, o.Length)
	}
	vm.frame.ip++
	return vm.push(o.Items[idx])
}

// opStore assigns into a list slot: pop index, pop the list, pop the value
// to store (the original's pop order for STORE).
func (vm *VM) opStore() error {
	idxVal, err := vm.pop()
	if err != nil {
		return err
	}
	arrVal, err := vm.pop()
	if err != nil {
		return err
	}
	val, err := vm.pop()
	if err != nil {
		return err
	}
	idx := truncIndex(idxVal)
	o := object.FromValue(arrVal)
	if idx < 0 || idx >= o.Length {
		return vmerr.New(vmerr.KindIndexRange, "index %d out of bounds (length %d)", idx, o.Length)
	}
	o.Items[idx] = val
	vm.frame.ip++
	return nil
}

func (vm *VM) opAppend() error {
	val, err := vm.pop()
	if err != nil {
		return err
	}
	listVal, err := vm.pop()
	if err != nil {
		return err
	}
	o := object.FromValue(listVal)
	if o.Length == o.Capacity {
		newCap := object.GrowCapacity(o.Capacity)
		grown := make([]value.Value, newCap)
		copy(grown, o.Items)
		o.Items = grown
		vm.trackAlloc(uint64(newCap-o.Capacity) * 8)
		o.Capacity = newCap
	}
	o.Items[o.Length] = val
	o.Length++
	vm.frame.ip++
	return nil
}

func (vm *VM) opLength() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	o := object.FromValue(v)
	vm.frame.ip++
	return vm.push(value.FromFloat(float64(o.Length)))
}
