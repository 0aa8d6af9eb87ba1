// Package vmerr defines the VM's closed set of fatal error kinds. Every
// failure the interpreter can report belongs to exactly one of these kinds;
// there is no recoverable-error path, mirroring the original's error()
// helper which always printed and terminated the process.
package vmerr

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Kind identifies which of the VM's fatal conditions occurred.
type Kind string

const (
	KindImage          Kind = "image"
	KindStackUnderflow Kind = "stack_underflow"
	KindStackOverflow  Kind = "stack_overflow"
	KindCallDepth      Kind = "call_depth"
	KindIndexRange     Kind = "index_range"
	KindChanType       Kind = "chan_type"
	KindUnknownOpcode  Kind = "unknown_opcode"
)

// Error is a fatal VM error tagged with its Kind so callers (tests, the
// telemetry recorder, cmd/sahlvm) can branch on the condition without
// parsing the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a Kind-tagged error, stack-annotated via github.com/pkg/errors
// so cmd/sahlvm can print a trace when it's useful for debugging a bad
// image or VM bug.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Of reports the Kind of err, if it (or something it wraps) is a *Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Fatal prints err to stderr and terminates the process with exit code 1.
// This is the only place the VM core calls os.Exit: every opcode handler
// and image loader just returns a plain error, so callers that need to run
// the VM without killing their own process (tests, an embedder) never
// invoke Fatal themselves.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "sahlvm: %v\n", err)
	os.Exit(1)
}
