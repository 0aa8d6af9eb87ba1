package vm

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"sahlvm/internal/bytecode"
	"sahlvm/internal/value"
	"sahlvm/internal/vmerr"
)

// childTask tracks one outstanding spawned task from its parent's side.
type childTask struct {
	id       int
	finished chan error
}

func (c *childTask) join() error {
	return <-c.finished
}

// opCall handles both a plain CALL and, when a prior SPAWN set
// spawnPending, the spawn-then-call protocol: the pending flag is consumed
// here and the call becomes a new task instead of a nested frame.
func (vm *VM) opCall() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 8)
	if err != nil {
		return err
	}
	funcidx := bytecode.ReadU32(operand[0:4])
	argc := int(bytecode.ReadU32(operand[4:8]))

	if int(funcidx) >= len(vm.funcs) {
		return vmerr.New(vmerr.KindImage, "call to undefined function %d", funcidx)
	}

	if vm.spawnPending {
		vm.spawnPending = false
		return vm.spawnTask(funcidx, argc, f)
	}

	if f.depth+1 >= MaxCallDepth {
		return vmerr.New(vmerr.KindCallDepth, "maximum call depth exceeded")
	}

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	nf := newFrame(&vm.funcs[funcidx], f)
	nf.locals = args
	nf.ip = 0

	f.ip += 9
	vm.frame = nf
	return nil
}

// opReturn pops the current frame. halt is true when the popped frame was
// at depth 0: that's the end of this VM's Run() loop, whether this VM is
// the root or a spawned task.
func (vm *VM) opReturn() (halt bool, err error) {
	f := vm.frame
	if f.depth == 0 {
		return true, nil
	}
	vm.frame = f.prev
	return false, nil
}

func (vm *VM) opSpawn() error {
	vm.frame.ip++
	vm.spawnPending = true
	return nil
}

// spawnTask implements the SPAWN+CALL protocol: arguments are popped from
// the parent's stack, a sibling VM is created sharing the parent's
// immutable function/string/native tables but with its own private stack
// and heap, and it runs on its own OS thread. Backpressure: once MaxCoros
// tasks are outstanding, spawning blocks until the oldest of them finishes.
func (vm *VM) spawnTask(funcidx uint32, argc int, parentFrame *frame) error {
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	if len(vm.children) >= MaxCoros {
		oldest := vm.children[0]
		vm.children = vm.children[1:]
		if err := oldest.join(); err != nil {
			return err
		}
		if vm.tracer != nil {
			vm.tracer.TaskJoined(oldest.id)
		}
	}

	child := &VM{
		funcs:    vm.funcs,
		strings:  vm.strings,
		natives:  vm.natives,
		nextGC:   initialNextGC,
		isCoro:   true,
		coroID:   nextTaskID(),
		out:      vm.out,
		tracer:   vm.tracer,
		traceOut: vm.traceOut,
	}
	child.frame = newFrame(&vm.funcs[funcidx], nil)
	child.frame.locals = args

	ct := &childTask{id: child.coroID, finished: make(chan error, 1)}
	vm.children = append(vm.children, ct)
	if vm.tracer != nil {
		vm.tracer.TaskSpawned(ct.id)
	}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		err := child.Run()
		if err != nil {
			// A task's uncaught fatal error terminates the whole process,
			// the same as a fatal error in the root VM's own loop.
			vmerr.Fatal(err)
		}
		ct.finished <- nil
	}()

	parentFrame.ip += 9
	return nil
}

// joinChildren waits for every task still outstanding when the root VM's
// loop exits, each on its own goroutine so the root doesn't serialize on
// tasks that are already done or close to it.
func (vm *VM) joinChildren() error {
	if len(vm.children) == 0 {
		return nil
	}
	var g errgroup.Group
	for _, c := range vm.children {
		c := c
		g.Go(func() error {
			err := c.join()
			if vm.tracer != nil {
				vm.tracer.TaskJoined(c.id)
			}
			return err
		})
	}
	vm.children = nil
	return g.Wait()
}

func (vm *VM) opNativeCall() error {
	f := vm.frame
	operand, err := vm.readOperand(f, 8)
	if err != nil {
		return err
	}
	funcidx := int(bytecode.ReadU32(operand[0:4]))
	argc := int(bytecode.ReadU32(operand[4:8]))

	if funcidx >= len(vm.natives) {
		return vmerr.New(vmerr.KindImage, "call to undefined native %d", funcidx)
	}

	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}

	f.ip += 9
	result, ok := vm.natives[funcidx](args)
	if !ok {
		return nil
	}
	return vm.push(result)
}
