package vm

import (
	"sahlvm/internal/object"
	"sahlvm/internal/value"
)

// collect runs one tricolor mark-sweep cycle: mark every value reachable
// from the operand stack and the live call frame chain, trace references
// transitively, then unlink and drop anything left unmarked. nextGC grows
// by a fixed factor of the post-sweep live set, matching the original
// heap's growth heuristic.
func (vm *VM) collect() {
	vm.markRoots()
	vm.traceReferences()
	freed := vm.sweep()
	vm.nextGC = uint64(float64(vm.allocated) * gcGrowFactor)
	if vm.tracer != nil {
		vm.tracer.GC(vm.allocated, vm.nextGC, freed)
	}
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.stackSize; i++ {
		vm.markValue(vm.stack[i])
	}
	for f := vm.frame; f != nil; f = f.prev {
		for _, v := range f.locals {
			vm.markValue(v)
		}
	}
}

func (vm *VM) markValue(v value.Value) {
	if v.IsObj() {
		vm.markObj(object.FromValue(v))
	}
}

func (vm *VM) markObj(o *object.Obj) {
	if o.Marked {
		return
	}
	o.Marked = true
	vm.gray = append(vm.gray, o)
}

func (vm *VM) traceReferences() {
	for len(vm.gray) > 0 {
		o := vm.gray[len(vm.gray)-1]
		vm.gray = vm.gray[:len(vm.gray)-1]
		vm.blacken(o)
	}
}

// blacken marks an object's children. Strings and channels are leaves:
// a string's bytes aren't Values, and a channel carries no Value children
// accessible without draining it.
func (vm *VM) blacken(o *object.Obj) {
	switch o.Type {
	case object.TypeList, object.TypeTuple:
		for i := 0; i < o.Length; i++ {
			vm.markValue(o.Items[i])
		}
	}
}

// sweep walks the intrusive allocation list, unlinking and dropping every
// unmarked object (exposing it to the Go runtime's own collector, since
// nothing else references it once unlinked) and clearing the mark bit on
// every survivor for the next cycle.
func (vm *VM) sweep() int {
	var prev *object.Obj
	freed := 0
	for o := vm.objects; o != nil; {
		next := o.Next
		if o.Marked {
			o.Marked = false
			prev = o
		} else {
			if prev != nil {
				prev.Next = next
			} else {
				vm.objects = next
			}
			size := uint64(64) + uint64(o.Capacity)*8
			if o.Type == object.TypeString && !o.Constant {
				size += uint64(len(o.Chars))
			}
			if size > vm.allocated {
				size = vm.allocated
			}
			vm.allocated -= size
			freed++
		}
		o = next
	}
	return freed
}
