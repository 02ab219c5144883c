package bisection

import (
	"math"
	"testing"

	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

// runToRoot drives m against f until Done reports complete, returning the
// number of iterations taken.
func runToRoot(t *testing.T, m method.Method, f func(float64) float64) int {
	t.Helper()
	iters := 0
	for {
		status, err := m.Done()
		if err != nil {
			t.Fatalf("Done: %v", err)
		}
		if status == method.StatusComplete {
			return iters
		}
		v := vect.New(1)
		if err := m.Next(v); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := m.SetValue(v, f(v[0])); err != nil {
			t.Fatalf("SetValue: %v", err)
		}
		iters++
		if iters > 1000 {
			t.Fatalf("did not converge after 1000 iterations")
		}
	}
}

func TestBisectionFindsRootOfXSquaredMinusTwo(t *testing.T) {
	m, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b := m.(*Bisection)
	if err := b.HParamSet("lower", 0.0); err != nil {
		t.Fatalf("HParamSet lower: %v", err)
	}
	if err := b.HParamSet("upper", 2.0); err != nil {
		t.Fatalf("HParamSet upper: %v", err)
	}
	if err := b.HParamSet("x_tol", 1e-9); err != nil {
		t.Fatalf("HParamSet x_tol: %v", err)
	}

	f := func(x float64) float64 { return x*x - 2 }
	runToRoot(t, m, f)

	root, err := b.Result("root")
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	got := root.(float64)
	if math.Abs(got-math.Sqrt2) > 1e-6 {
		t.Fatalf("got root=%v, want close to sqrt(2)=%v", got, math.Sqrt2)
	}
}

func TestBisectionRejectsNonBracketingInterval(t *testing.T) {
	m, _ := New(1)
	b := m.(*Bisection)
	_ = b.HParamSet("lower", 3.0)
	_ = b.HParamSet("upper", 4.0)

	f := func(x float64) float64 { return x*x - 2 } // both positive on [3,4]

	v := vect.New(1)
	_ = m.Next(v)
	_ = m.SetValue(v, f(v[0]))
	_ = m.Next(v)
	err := m.SetValue(v, f(v[0]))
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.BracketInvalid {
		t.Fatalf("expected BracketInvalid, got %v", err)
	}
}

func TestBisectionRejectsMultivariate(t *testing.T) {
	_, err := New(2)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.Unsupported {
		t.Fatalf("expected Unsupported, got %v", err)
	}
}

func TestBisectionCompleteIsTerminal(t *testing.T) {
	m, _ := New(1)
	b := m.(*Bisection)
	_ = b.HParamSet("lower", 0.0)
	_ = b.HParamSet("upper", 2.0)
	f := func(x float64) float64 { return x*x - 2 }
	runToRoot(t, m, f)

	v := vect.New(1)
	if err := m.Next(v); err == nil {
		t.Fatalf("expected Next to fail once bisection has completed")
	}
}

func TestBisectionSwapsReversedBracket(t *testing.T) {
	m, _ := New(1)
	b := m.(*Bisection)
	_ = b.HParamSet("lower", 2.0) // f(2) = 2 > 0
	_ = b.HParamSet("upper", 0.0) // f(0) = -2 < 0
	f := func(x float64) float64 { return x*x - 2 }

	v := vect.New(1)
	_ = m.Next(v)
	_ = m.SetValue(v, f(v[0]))
	_ = m.Next(v)
	if err := m.SetValue(v, f(v[0])); err != nil {
		t.Fatalf("expected the reversed bracket to be auto-swapped, got %v", err)
	}
}
