package vm

import (
	"sahlvm/internal/channel"
	"sahlvm/internal/object"
	"sahlvm/internal/value"
	"sahlvm/internal/vmerr"
)

func (vm *VM) opMakeChan() error {
	o := vm.newObject(object.TypeChan)
	o.Chan = channel.New(channel.DefaultCapacity)
	vm.frame.ip++
	return vm.push(o.Value())
}

func (vm *VM) opChanRead() error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	o := object.FromValue(v)
	if o.Type != object.TypeChan {
		return vmerr.New(vmerr.KindChanType, "expected channel")
	}
	bits, ok := o.Chan.Recv()
	vm.frame.ip++
	if !ok {
		// A closed, drained channel. Nothing in the opcode set ever closes
		// a channel, so this is unreachable from a well-formed program;
		// push false rather than block forever.
		return vm.push(value.False)
	}
	return vm.push(value.Value(bits))
}

// opChanWrite pops the channel first, then the value to send, the
// original's pop order for CHAN_WRITE.
func (vm *VM) opChanWrite() error {
	chanVal, err := vm.pop()
	if err != nil {
		return err
	}
	val, err := vm.pop()
	if err != nil {
		return err
	}
	o := object.FromValue(chanVal)
	if o.Type != object.TypeChan {
		return vmerr.New(vmerr.KindChanType, "expected channel")
	}
	o.Chan.Send(val.Bits())
	vm.frame.ip++
	return nil
}
