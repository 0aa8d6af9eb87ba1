package object

import (
	"testing"

	"sahlvm/internal/value"
)

func TestStringifyNumberAndBool(t *testing.T) {
	if got := Stringify(value.FromFloat(42)); got != "42.000000" {
		t.Fatalf("Stringify(42) = %q, want %q", got, "42.000000")
	}
	if got := Stringify(value.True); got != "true" {
		t.Fatalf("Stringify(true) = %q, want %q", got, "true")
	}
	if got := Stringify(value.False); got != "false" {
		t.Fatalf("Stringify(false) = %q, want %q", got, "false")
	}
}

func TestStringifyString(t *testing.T) {
	o := &Obj{Type: TypeString, Chars: []byte("hello")}
	if got := Stringify(o.Value()); got != "hello" {
		t.Fatalf("Stringify(string) = %q, want %q", got, "hello")
	}
}

func TestStringifyListHasTrailingSeparator(t *testing.T) {
	items := []value.Value{value.FromFloat(1), value.FromFloat(2)}
	o := &Obj{Type: TypeList, Items: items, Length: len(items), Capacity: len(items)}
	want := "[1.000000, 2.000000, ]"
	if got := Stringify(o.Value()); got != want {
		t.Fatalf("Stringify(list) = %q, want %q", got, want)
	}
}

func TestStringifyTupleHasNoTrailingSeparator(t *testing.T) {
	items := []value.Value{value.FromFloat(1), value.FromFloat(2)}
	o := &Obj{Type: TypeTuple, Items: items, Length: len(items), Capacity: len(items)}
	want := "(1.000000, 2.000000)"
	if got := Stringify(o.Value()); got != want {
		t.Fatalf("Stringify(tuple) = %q, want %q", got, want)
	}
}

func TestStringifyChan(t *testing.T) {
	o := &Obj{Type: TypeChan}
	if got := Stringify(o.Value()); got != "<chan>" {
		t.Fatalf("Stringify(chan) = %q, want %q", got, "<chan>")
	}
}

func TestGrowCapacityFloorAndGrowth(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 8},
		{5, 8},
		{8, 12},
		{12, 18},
		{100, 150},
	}
	for _, c := range cases {
		if got := GrowCapacity(c.in); got != c.want {
			t.Fatalf("GrowCapacity(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFromValueRecoversObj(t *testing.T) {
	o := &Obj{Type: TypeString, Chars: []byte("x")}
	v := o.Value()
	if got := FromValue(v); got != o {
		t.Fatalf("FromValue(o.Value()) did not recover the original pointer")
	}
}
