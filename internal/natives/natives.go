// Package natives provides the stock native function table NATIVE_CALL
// dispatches into. A native receives its arguments already popped off the
// stack in source order and returns an optional result to be pushed back.
package natives

import (
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"sahlvm/internal/object"
	"sahlvm/internal/value"
)

// Func is the shape every native function presents to the interpreter.
type Func func(args []value.Value) (result value.Value, ok bool)

// Table is an ordered native function list, indexed by the funcidx operand
// of NATIVE_CALL.
type Table []Func

// Default returns the ten stock natives in the original's index order:
// clear_screen, rand, sleep, randf, exp, pow, exit, print, tanh, log.
func Default() Table {
	return Table{
		clearScreen,
		randInt,
		sleepFn,
		randFloat,
		expFn,
		powFn,
		exitFn,
		printFn,
		tanhFn,
		logFn,
	}
}

func clearScreen(args []value.Value) (value.Value, bool) {
	os.Stdout.WriteString("\x1b[2J\x1b[H")
	return 0, false
}

// randInt mirrors the original's native_rand(range, offset): a random
// integer in [offset, offset+range). The offset argument is optional; a
// one-argument call behaves like randInt(range, 0).
func randInt(args []value.Value) (value.Value, bool) {
	n := 1
	if len(args) > 0 {
		if v := int(args[0].AsFloat()); v > 0 {
			n = v
		}
	}
	offset := 0.0
	if len(args) > 1 {
		offset = args[1].AsFloat()
	}
	return value.FromFloat(float64(rand.Intn(n)) + offset), true
}

func sleepFn(args []value.Value) (value.Value, bool) {
	if len(args) == 0 {
		return 0, false
	}
	seconds := args[0].AsFloat()
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return 0, false
}

func randFloat(args []value.Value) (value.Value, bool) {
	return value.FromFloat(rand.Float64()), true
}

func expFn(args []value.Value) (value.Value, bool) {
	return value.FromFloat(math.Exp(args[0].AsFloat())), true
}

func powFn(args []value.Value) (value.Value, bool) {
	return value.FromFloat(math.Pow(args[0].AsFloat(), args[1].AsFloat())), true
}

func exitFn(args []value.Value) (value.Value, bool) {
	code := 0
	if len(args) > 0 {
		code = int(args[0].AsFloat())
	}
	os.Exit(code)
	return 0, false
}

// printFn concatenates the stringified form of every argument, in order,
// and writes it without a trailing newline. Built with strings.Builder
// rather than repeated self-appending sprintf, which is what corrupted the
// original's native_print under aliasing.
func printFn(args []value.Value) (value.Value, bool) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(object.Stringify(a))
	}
	os.Stdout.WriteString(sb.String())
	return 0, false
}

func tanhFn(args []value.Value) (value.Value, bool) {
	return value.FromFloat(math.Tanh(args[0].AsFloat())), true
}

func logFn(args []value.Value) (value.Value, bool) {
	return value.FromFloat(math.Log(args[0].AsFloat())), true
}
