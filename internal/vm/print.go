package vm

import "sahlvm/internal/object"

func (vm *VM) opPrint() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.out.Write([]byte(object.Stringify(v)))
	vm.frame.ip++
	return nil
}
