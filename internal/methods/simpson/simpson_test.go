package simpson

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

func TestSimpsonQuadraticWithTwoSubintervalsIsExact(t *testing.T) {
	m, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sm := m.(*Simpson)
	_ = sm.HParamSet("lower", 0.0)
	_ = sm.HParamSet("upper", 1.0)
	_ = sm.HParamSet("n", 2)

	integrate(t, m, func(x float64) float64 { return x * x })

	area, err := sm.Result("area")
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if math.Abs(area.(float64)-1.0/3.0) > 1e-12 {
		t.Fatalf("got area=%v, want exactly 1/3", area)
	}
}

func TestSimpsonApproximatesArctangentIntegral(t *testing.T) {
	m, _ := New(1)
	sm := m.(*Simpson)
	_ = sm.HParamSet("lower", 0.0)
	_ = sm.HParamSet("upper", 1.0)
	_ = sm.HParamSet("n", 4)

	integrate(t, m, func(x float64) float64 { return 1 / (1 + x*x) })

	area, _ := sm.Result("area")
	if math.Abs(area.(float64)-math.Pi/4) > 1e-3 {
		t.Fatalf("got area=%v, want close to pi/4", area)
	}
}

func TestSimpsonRejectsOddN(t *testing.T) {
	m, _ := New(1)
	sm := m.(*Simpson)
	err := sm.HParamSet("n", 3)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestSimpsonRejectsMultivariate(t *testing.T) {
	_, err := New(2)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestSimpsonCompleteIsTerminal(t *testing.T) {
	m, _ := New(1)
	sm := m.(*Simpson)
	_ = sm.HParamSet("lower", 0.0)
	_ = sm.HParamSet("upper", 1.0)
	_ = sm.HParamSet("n", 2)
	integrate(t, m, func(x float64) float64 { return x * x })

	if err := m.Next(vect.New(1)); err == nil {
		t.Fatalf("expected Next to fail once simpson has completed")
	}
}
