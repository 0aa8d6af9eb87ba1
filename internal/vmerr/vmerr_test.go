package vmerr

import (
	"errors"
	"testing"
)

func TestNewAndOf(t *testing.T) {
	err := New(KindIndexRange, "index %d out of bounds", 7)
	kind, ok := Of(err)
	if !ok || kind != KindIndexRange {
		t.Fatalf("Of(err) = %v, %v; want KindIndexRange, true", kind, ok)
	}
	if err.Error() == "" {
		t.Fatalf("Error() returned an empty string")
	}
}

func TestOfRejectsUnrelatedErrors(t *testing.T) {
	if _, ok := Of(errors.New("plain error")); ok {
		t.Fatalf("Of() reported a kind for an unrelated error")
	}
}
