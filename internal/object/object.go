// Package object defines the heap object model: the common header every
// allocation shares, and the payload shapes for strings, lists, tuples, and
// channels. It knows nothing about allocation or collection — that is the
// VM's job — it only describes the shape of the data and how to render it.
package object

import (
	"fmt"
	"strings"
	"unsafe"

	"sahlvm/internal/channel"
	"sahlvm/internal/value"
)

// Type discriminates the payload a heap object carries.
type Type uint8

const (
	TypeString Type = iota
	TypeList
	TypeTuple
	TypeChan
)

// Obj is the common header for every heap allocation. Next threads the
// object into the VM's intrusive allocation list; it is the only reason the
// Go runtime keeps the object alive at all, since a NaN-boxed Value stores
// nothing but the bit pattern of this pointer.
type Obj struct {
	Type   Type
	Marked bool
	Next   *Obj

	// String payload. Constant marks a string created from an entry of the
	// image's string table; its bytes are a copy of that entry and are not
	// counted in the VM's allocation total.
	Chars    []byte
	Constant bool

	// List/Tuple payload. For a tuple, Length always equals Capacity.
	Items    []value.Value
	Length   int
	Capacity int

	// Chan payload.
	Chan *channel.Chan
}

// Value tags this object's address as a NaN-boxed Value.
func (o *Obj) Value() value.Value {
	return value.FromObjPtr(unsafe.Pointer(o))
}

// FromValue recovers the object a tagged Value points to. The caller must
// have already checked v.IsObj().
func FromValue(v value.Value) *Obj {
	return (*Obj)(v.AsObjPtr())
}

// GrowCapacity computes the next buffer capacity for a List once its items
// slice is full: 1.5x growth with a floor of 8.
func GrowCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity + capacity/2
}

// Stringify renders v the way PRINT and the print native do: numbers in
// fixed-point notation, booleans as true/false, strings verbatim, lists
// bracketed with a trailing separator after every element (including the
// last), tuples parenthesized with no trailing separator, and channels as an
// opaque placeholder.
func Stringify(v value.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v value.Value) {
	switch {
	case v.IsBool():
		if v.AsBool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case v.IsNumber():
		fmt.Fprintf(sb, "%f", v.AsFloat())
	case v.IsObj():
		writeObj(sb, FromValue(v))
	default:
		sb.WriteString("<unknown>")
	}
}

func writeObj(sb *strings.Builder, o *Obj) {
	switch o.Type {
	case TypeString:
		sb.Write(o.Chars)
	case TypeList:
		sb.WriteByte('[')
		for i := 0; i < o.Length; i++ {
			writeValue(sb, o.Items[i])
			sb.WriteString(", ")
		}
		sb.WriteByte(']')
	case TypeTuple:
		sb.WriteByte('(')
		for i := 0; i < o.Length; i++ {
			writeValue(sb, o.Items[i])
			if i != o.Length-1 {
				sb.WriteString(", ")
			}
		}
		sb.WriteByte(')')
	case TypeChan:
		sb.WriteString("<chan>")
	}
}
