package natives

import (
	"math"
	"testing"

	"sahlvm/internal/value"
)

func TestDefaultTableShape(t *testing.T) {
	tbl := Default()
	if len(tbl) != 10 {
		t.Fatalf("len(Default()) = %d, want 10", len(tbl))
	}
}

func TestExpPowTanhLog(t *testing.T) {
	tbl := Default()

	v, ok := tbl[4]([]value.Value{value.FromFloat(1)}) // exp
	if !ok || math.Abs(v.AsFloat()-math.E) > 1e-9 {
		t.Fatalf("exp(1) = %v", v.AsFloat())
	}

	v, ok = tbl[5]([]value.Value{value.FromFloat(2), value.FromFloat(10)}) // pow
	if !ok || v.AsFloat() != 1024 {
		t.Fatalf("pow(2,10) = %v", v.AsFloat())
	}

	v, ok = tbl[8]([]value.Value{value.FromFloat(0)}) // tanh
	if !ok || v.AsFloat() != 0 {
		t.Fatalf("tanh(0) = %v", v.AsFloat())
	}

	v, ok = tbl[9]([]value.Value{value.FromFloat(1)}) // log
	if !ok || v.AsFloat() != 0 {
		t.Fatalf("log(1) = %v", v.AsFloat())
	}
}

func TestRandIntRange(t *testing.T) {
	tbl := Default()
	for i := 0; i < 20; i++ {
		v, ok := tbl[1]([]value.Value{value.FromFloat(5), value.FromFloat(100)})
		if !ok {
			t.Fatalf("rand did not return a value")
		}
		f := v.AsFloat()
		if f < 100 || f >= 105 {
			t.Fatalf("rand(5, 100) = %v, want in [100,105)", f)
		}
	}
}
