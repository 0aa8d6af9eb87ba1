package vm

import (
	"fmt"

	"sahlvm/internal/bytecode"
	"sahlvm/internal/vmerr"
)

// Run executes instructions starting from the VM's current frame until
// either a RETURN at call depth 0 ends the task, or the current function's
// code runs out (the two are equivalent in a well-formed image, since every
// function body ends in an explicit RETURN). It returns the first fatal
// error encountered; the caller decides what "fatal" means for its process
// (cmd/sahlvm exits 1, a spawned task's goroutine wrapper does the same,
// tests just inspect the error).
func (vm *VM) Run() error {
	for {
		f := vm.frame
		if f.ip >= uint32(len(f.fn.Code)) {
			break
		}

		op := bytecode.Op(f.fn.Code[f.ip])
		if !op.IsValid() {
			return vmerr.New(vmerr.KindUnknownOpcode, "unknown opcode %d at ip %d", byte(op), f.ip)
		}

		if vm.traceOut != nil {
			fmt.Fprintf(vm.traceOut, "%04d %s\n", f.ip, op)
		}

		var err error
		switch op {
		case bytecode.Return:
			var halt bool
			halt, err = vm.opReturn()
			if err != nil {
				return err
			}
			if halt {
				goto done
			}
			continue
		case bytecode.Add:
			err = vm.opAdd()
		case bytecode.Sub:
			err = vm.opSub()
		case bytecode.Mul:
			err = vm.opMul()
		case bytecode.Div:
			err = vm.opDiv()
		case bytecode.Mod:
			err = vm.opMod()
		case bytecode.Neg:
			err = vm.opNeg()
		case bytecode.Not:
			err = vm.opNot()
		case bytecode.And:
			err = vm.opAnd()
		case bytecode.Or:
			err = vm.opOr()
		case bytecode.Equal:
			err = vm.opEqual()
		case bytecode.NotEqual:
			err = vm.opNotEqual()
		case bytecode.Less:
			err = vm.opLess()
		case bytecode.LessEqual:
			err = vm.opLessEqual()
		case bytecode.Greater:
			err = vm.opGreater()
		case bytecode.GreaterEqual:
			err = vm.opGreaterEqual()
		case bytecode.True:
			err = vm.opTrue()
		case bytecode.False:
			err = vm.opFalse()
		case bytecode.Jump:
			err = vm.opJump()
		case bytecode.JumpIfFalse:
			err = vm.opJumpIfFalse()
		case bytecode.Store:
			err = vm.opStore()
		case bytecode.Index:
			err = vm.opIndex()
		case bytecode.Append:
			err = vm.opAppend()
		case bytecode.Length:
			err = vm.opLength()
		case bytecode.List:
			err = vm.opList()
		case bytecode.ConstU64:
			err = vm.opConstU64()
		case bytecode.ConstU32:
			err = vm.opConstU32()
		case bytecode.ConstU8:
			err = vm.opConstU8()
		case bytecode.String:
			err = vm.opString()
		case bytecode.DefLocal:
			err = vm.opDefLocal()
		case bytecode.GetLocal:
			err = vm.opGetLocal()
		case bytecode.Assign:
			err = vm.opAssign()
		case bytecode.Call:
			err = vm.opCall()
		case bytecode.Print:
			err = vm.opPrint()
		case bytecode.Pop:
			err = vm.opPop()
		case bytecode.MakeList:
			err = vm.opMakeList()
		case bytecode.MakeTuple:
			err = vm.opMakeTuple()
		case bytecode.NativeCall:
			err = vm.opNativeCall()
		case bytecode.ConstDouble:
			err = vm.opConstDouble()
		case bytecode.MakeChan:
			err = vm.opMakeChan()
		case bytecode.ChanRead:
			err = vm.opChanRead()
		case bytecode.ChanWrite:
			err = vm.opChanWrite()
		case bytecode.Spawn:
			err = vm.opSpawn()
		default:
			return vmerr.New(vmerr.KindUnknownOpcode, "unknown opcode %d at ip %d", byte(op), f.ip)
		}
		if err != nil {
			return err
		}
	}

done:
	// Interpreter-loop exit: drop this frame's locals before the final GC
	// cycle so they don't needlessly keep objects alive, then collect.
	vm.frame.locals = nil
	vm.collect()
	if !vm.isCoro {
		return vm.joinChildren()
	}
	return nil
}
