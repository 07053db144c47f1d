package ast

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{Begin: 3, End: 7}
	b := Span{Begin: 1, End: 5}
	got := a.Cover(b)
	want := Span{Begin: 1, End: 7}
	if got != want {
		t.Fatalf("Cover() = %v, want %v", got, want)
	}
}

func TestTypeSlotSingleAssignment(t *testing.T) {
	var slot TypeSlot
	if _, ok := slot.Type(); ok {
		t.Fatalf("fresh slot should be empty")
	}
	slot.Set(Int)
	k, ok := slot.Type()
	if !ok || k != Int {
		t.Fatalf("slot.Type() = %v, %v, want Int, true", k, ok)
	}
	// Idempotent re-assignment must not panic.
	slot.Set(Int)
}

func TestTypeSlotConflictPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on conflicting re-assignment")
		}
	}()
	var slot TypeSlot
	slot.Set(Int)
	slot.Set(Real)
}

func TestOperatorClass(t *testing.T) {
	cases := []struct {
		op   Operator
		want OperatorClass
	}{
		{Add, Numeric},
		{Sub, Numeric},
		{Eq, Relational},
		{Lt, Relational},
		{And, Logic},
		{Or, Logic},
	}
	for _, c := range cases {
		if got := c.op.Class(); got != c.want {
			t.Errorf("%v.Class() = %v, want %v", c.op, got, c.want)
		}
	}
}
