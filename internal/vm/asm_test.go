package vm

import (
	"encoding/binary"
	"math"

	"sahlvm/internal/bytecode"
)

// asm is a tiny backpatching assembler for building test programs directly
// against the opcode byte encoding, without a real compiler.
type asm struct {
	code    []byte
	labels  map[string]int
	patches []patch
}

type patch struct {
	pos   int
	label string
}

func newAsm() *asm {
	return &asm{labels: map[string]int{}}
}

func (a *asm) label(name string) *asm {
	a.labels[name] = len(a.code)
	return a
}

func (a *asm) op(o bytecode.Op) *asm {
	a.code = append(a.code, byte(o))
	return a
}

func (a *asm) u32(v uint32) *asm {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	a.code = append(a.code, b[:]...)
	return a
}

func (a *asm) u64(v uint64) *asm {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	a.code = append(a.code, b[:]...)
	return a
}

// constDouble emits CONST_DOUBLE with f's raw bit pattern as the operand.
func (a *asm) constDouble(f float64) *asm {
	return a.op(bytecode.ConstDouble).u64(math.Float64bits(f))
}

func (a *asm) call(funcidx uint32, argc uint32) *asm {
	return a.op(bytecode.Call).u32(funcidx).u32(argc)
}

func (a *asm) str(idx uint32) *asm {
	return a.op(bytecode.String).u32(idx)
}

func (a *asm) defLocal(idx uint32) *asm {
	return a.op(bytecode.DefLocal).u32(idx)
}

func (a *asm) getLocal(idx uint32) *asm {
	return a.op(bytecode.GetLocal).u32(idx)
}

func (a *asm) assign(idx uint32) *asm {
	return a.op(bytecode.Assign).u32(idx)
}

func (a *asm) list(n uint32) *asm {
	return a.op(bytecode.List).u32(n)
}

// jumpTo and jumpIfFalseTo reserve the 4-byte target operand and backpatch
// it to the label's position once finish() resolves every label.
func (a *asm) jumpTo(label string) *asm {
	a.op(bytecode.Jump)
	a.patches = append(a.patches, patch{pos: len(a.code), label: label})
	return a.u32(0)
}

func (a *asm) jumpIfFalseTo(label string) *asm {
	a.op(bytecode.JumpIfFalse)
	a.patches = append(a.patches, patch{pos: len(a.code), label: label})
	return a.u32(0)
}

func (a *asm) finish() []byte {
	for _, p := range a.patches {
		target, ok := a.labels[p.label]
		if !ok {
			panic("asm: undefined label " + p.label)
		}
		binary.LittleEndian.PutUint32(a.code[p.pos:p.pos+4], uint32(target))
	}
	return a.code
}
