package vect

import (
	"math"
	"testing"
)

func TestAddSubScale(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{4, 5, 6}

	sum := Add(a, b)
	want := Vector{5, 7, 9}
	for i := range want {
		if sum[i] != want[i] {
			t.Fatalf("Add: got %v, want %v", sum, want)
		}
	}

	diff := Sub(b, a)
	want = Vector{3, 3, 3}
	for i := range want {
		if diff[i] != want[i] {
			t.Fatalf("Sub: got %v, want %v", diff, want)
		}
	}

	scaled := Scale(a, 2)
	want = Vector{2, 4, 6}
	for i := range want {
		if scaled[i] != want[i] {
			t.Fatalf("Scale: got %v, want %v", scaled, want)
		}
	}
}

func TestL2AndDist(t *testing.T) {
	v := Vector{3, 4}
	if got := L2(v); got != 5 {
		t.Fatalf("L2: got %v, want 5", got)
	}

	a := Vector{0, 0}
	b := Vector{3, 4}
	if got := Dist(a, b); got != 5 {
		t.Fatalf("Dist: got %v, want 5", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := Vector{1, 2, 3}
	b := a.Clone()
	b[0] = 99
	if a[0] == 99 {
		t.Fatalf("Clone shares storage with the original")
	}
}

func TestCopyFromPanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on length mismatch")
		}
	}()
	a := New(2)
	a.CopyFrom(Vector{1, 2, 3})
}

func TestClamp(t *testing.T) {
	v := Vector{-1, 5, 10}
	lower := Vector{0, 0, 0}
	upper := Vector{1, 1, 1}
	Clamp(v, lower, upper)
	want := Vector{0, 1, 1}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("Clamp: got %v, want %v", v, want)
		}
	}
}

func TestStringFormat(t *testing.T) {
	v := Vector{1, 2.5}
	if got := v.String(); got != "[1, 2.5]" {
		t.Fatalf("String: got %q", got)
	}
}

func TestResetZeroesInPlace(t *testing.T) {
	v := Vector{1, 2, 3}
	v.Reset()
	for _, x := range v {
		if x != 0 {
			t.Fatalf("Reset left nonzero element: %v", v)
		}
	}
}

func TestDistNeverNegative(t *testing.T) {
	a := Vector{1, -2, 3.5}
	b := Vector{-4, 5, -6.5}
	if d := Dist(a, b); d < 0 || math.IsNaN(d) {
		t.Fatalf("Dist returned invalid value: %v", d)
	}
}
