package neldermead

import (
	"testing"

	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func runToMin(t *testing.T, m method.Method, f func(vect.Vector) float64, cap int) int {
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
		v, ok := m.(*NelderMead)
		_ = ok
		out := vect.New(v.d)
		if err := m.Next(out); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := m.SetValue(out, f(out)); err != nil {
			t.Fatalf("SetValue: %v", err)
		}
		iters++
		if iters > cap {
			t.Fatalf("did not converge after %d iterations", cap)
		}
	}
}

// rosenbrock2D is the standard two-dimensional Rosenbrock function,
// minimized at (1, 1).
func rosenbrock2D(v vect.Vector) float64 {
	x, y := v[0], v[1]
	return (1-x)*(1-x) + 100*(y-x*x)*(y-x*x)
}

func TestNelderMeadConvergesOnRosenbrock(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nm := m.(*NelderMead)
	if err := nm.Seed(vect.Vector{0, 0}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	runToMin(t, m, rosenbrock2D, 1000)

	bx, err := nm.Result("minimum x")
	if err != nil {
		t.Fatalf("Result minimum x: %v", err)
	}
	best := bx.(vect.Vector)
	dist := vect.Dist(best, vect.Vector{1, 1})
	if dist >= 0.5 {
		t.Fatalf("got dist(best, (1,1))=%v, want < 0.5 (best=%v)", dist, best)
	}
}

// TestNelderMeadShrinkTwoPhase exercises the two-phase shrink emission
// flagged in the design notes as one of the subtlest transitions. A
// strictly convex objective never triggers a shrink, so after a run on a
// narrow valley the shrink is forced by hand: a rejected reflection and a
// rejected inside contraction, followed by both shrink emissions in order.
func TestNelderMeadShrinkTwoPhase(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nm := m.(*NelderMead)
	if err := nm.Seed(vect.Vector{0, 0}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	// A narrow, strictly convex valley: it stresses reflect/expand/
	// contract but never reaches the shrink step.
	f := func(v vect.Vector) float64 {
		x, y := v[0], v[1]
		return 1000*(y-x)*(y-x) + x*x
	}
	runToMin(t, m, f, 1000)

	status, err := m.Done()
	if err != nil || status != method.StatusComplete {
		t.Fatalf("expected completion, got %v, %v", status, err)
	}

	sm, _ := New(2)
	snm := sm.(*NelderMead)
	_ = snm.Seed(vect.Vector{0, 0})
	step := func(fv float64) vect.Vector {
		t.Helper()
		out := vect.New(2)
		if err := sm.Next(out); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := sm.SetValue(out, fv); err != nil {
			t.Fatalf("SetValue: %v", err)
		}
		return out
	}
	// Bootstrap (0,0)->0, (1,0)->1, (0,2)->2; then reflect to (1,-2) and
	// contract inside to (0.25,1), both rejected with value 10.
	for _, fv := range []float64{0, 1, 2, 10, 10} {
		step(fv)
	}
	if snm.st != shrinkState {
		t.Fatalf("expected shrink after rejected reflection and contraction, got state %v", snm.st)
	}
	// Shrinking toward l=(0,0) with delta=0.5 emits the new h, then the new s.
	if got := step(0.5); vect.Dist(got, vect.Vector{0, 1}) > 1e-12 {
		t.Fatalf("first shrink emission: got %v, want [0, 1]", got)
	}
	if snm.st != shrinkSecondState {
		t.Fatalf("expected the second shrink phase, got state %v", snm.st)
	}
	if got := step(0.25); vect.Dist(got, vect.Vector{0.5, 0}) > 1e-12 {
		t.Fatalf("second shrink emission: got %v, want [0.5, 0]", got)
	}
	if snm.st != reflectState {
		t.Fatalf("expected a return to reflect after the shrink, got state %v", snm.st)
	}
}

func TestNelderMeadCompleteIsTerminal(t *testing.T) {
	m, _ := New(2)
	nm := m.(*NelderMead)
	_ = nm.Seed(vect.Vector{0, 0})
	runToMin(t, m, rosenbrock2D, 1000)

	if err := m.Next(vect.New(2)); err == nil {
		t.Fatalf("expected Next to fail once nelder-mead has completed")
	}
}

func TestNelderMeadRejectsNonPositiveDimension(t *testing.T) {
	_, err := New(0)
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestNelderMeadSeedRejectedAfterBootstrap(t *testing.T) {
	m, _ := New(2)
	nm := m.(*NelderMead)
	_ = nm.Seed(vect.Vector{0, 0})
	v := vect.New(2)
	_ = m.Next(v)
	_ = m.SetValue(v, rosenbrock2D(v))

	err := nm.Seed(vect.Vector{1, 1})
	if kind, ok := fnterr.Of(err); !ok || kind != fnterr.NotReady {
		t.Fatalf("expected NotReady, got %v", err)
	}
}
