package trapezoidal

import (
	"math"
	"testing"

	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func integrate(t *testing.T, m method.Method, f func(float64) float64) {
	t.Helper()
	for {
		status, err := m.Done()
		if err != nil {
			t.Fatalf("Done: %v", err)
		}
		if status == method.StatusComplete {
			return
		}
		v := vect.New(1)
		if err := m.Next(v); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := m.SetValue(v, f(v[0])); err != nil {
			t.Fatalf("SetValue: %v", err)
		}
	}
}

func TestTrapezoidalLinearFunctionIsExact(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10} {
		m, err := New(1)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		tr := m.(*Trapezoidal)
		_ = tr.HParamSet("lower", 0.0)
		_ = tr.HParamSet("upper", 1.0)
		if err := tr.HParamSet("n", n); err != nil {
			t.Fatalf("HParamSet n: %v", err)
		}

		integrate(t, m, func(x float64) float64 { return x })

		area, err := tr.Result("area")
		if err != nil {
			t.Fatalf("Result: %v", err)
		}
		if area.(float64) != 0.5 {
			t.Fatalf("n=%d: got area=%v, want exactly 0.5", n, area.(float64))
		}
	}
}

func TestTrapezoidalRejectsNonPositiveN(t *testing.T) {
	m, _ := New(1)
	tr := m.(*Trapezoidal)
	err := tr.HParamSet("n", 0)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestTrapezoidalRejectsMultivariate(t *testing.T) {
	_, err := New(2)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestTrapezoidalCompleteIsTerminal(t *testing.T) {
	m, _ := New(1)
	tr := m.(*Trapezoidal)
	_ = tr.HParamSet("lower", 0.0)
	_ = tr.HParamSet("upper", 1.0)
	_ = tr.HParamSet("n", 4)
	integrate(t, m, func(x float64) float64 { return x })

	if err := m.Next(vect.New(1)); err == nil {
		t.Fatalf("expected Next to fail once trapezoidal has completed")
	}
}

func TestTrapezoidalAcceptsSubintervalsAlias(t *testing.T) {
	m, _ := New(1)
	tr := m.(*Trapezoidal)
	if err := tr.HParamSet("subintervals", 4); err != nil {
		t.Fatalf("HParamSet subintervals: %v", err)
	}
	n, err := tr.HParamGet("n")
	if err != nil {
		t.Fatalf("HParamGet n: %v", err)
	}
	if n.(int) != 4 {
		t.Fatalf("got n=%v, want 4", n)
	}
}

func TestTrapezoidalApproximatesQuadratic(t *testing.T) {
	m, _ := New(1)
	tr := m.(*Trapezoidal)
	_ = tr.HParamSet("lower", 0.0)
	_ = tr.HParamSet("upper", 1.0)
	_ = tr.HParamSet("n", 1000)
	integrate(t, m, func(x float64) float64 { return x * x })

	area, _ := tr.Result("area")
	if math.Abs(area.(float64)-1.0/3.0) > 1e-5 {
		t.Fatalf("got area=%v, want close to 1/3", area)
	}
}
