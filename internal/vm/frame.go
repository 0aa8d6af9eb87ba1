package vm

import (
	"sahlvm/internal/bytecode"
	"sahlvm/internal/value"
)

// frame is one call's activation record: its instruction pointer into its
// function's code, its locals (grown geometrically as DEF_LOCAL touches
// higher indices), and a link to the caller's frame.
type frame struct {
	ip     uint32
	fn     *bytecode.Function
	locals []value.Value
	depth  int
	prev   *frame
}

func newFrame(fn *bytecode.Function, prev *frame) *frame {
	depth := 0
	if prev != nil {
		depth = prev.depth + 1
	}
	return &frame{fn: fn, prev: prev, depth: depth}
}

// growLocals ensures locals can be indexed up to and including idx,
// doubling from a floor of 16 the way the original grows its locals array.
func (f *frame) growLocals(idx int) {
	need := 16
	for need <= idx {
		need *= 2
	}
	if need <= len(f.locals) {
		return
	}
	grown := make([]value.Value, need)
	copy(grown, f.locals)
	f.locals = grown
}
