// Package neldermead implements the Nelder-Mead simplex method (spec
// §4.4): a derivative-free multi-dimensional minimizer that moves a
// simplex of d+1 points through reflection, expansion, contraction,
// and shrink steps.
package neldermead

import (
	"fmt"
	"sort"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/diag"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("nelder-mead", New)
}

type state int

const (
	bootstrap state = iota
	reflectState
	awaitReflect
	awaitExpand
	awaitContractOut
	awaitContractIn
	shrinkState
	shrinkSecondState
	done
)

// point is one simplex vertex and its observed value.
type point struct {
	x vect.Vector
	f float64
}

// NelderMead holds the simplex, the cached intermediate samples of the
// current iteration, and the shrink-phase scratch vector described in
// spec §3.
type NelderMead struct {
	d    int
	seed vect.Vector

	alpha, beta, gamma, delta float64
	maxIterations             int
	distThreshold             float64

	simplex   []point
	iterCount int
	st        state

	centroid vect.Vector
	xr       point
	pending  vect.Vector
	scratch  vect.Vector

	bestX vect.Vector
	bestF float64

	log    *diag.Logger
	params *method.Registry
}

// New constructs a Nelder-Mead instance for d dimensions.
func New(d int) (method.Method, error) {
	if d < 1 {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("dimension must be >= 1, got %d", d))
	}
	nm := &NelderMead{
		d:             d,
		seed:          vect.New(d),
		alpha:         1,
		beta:          0.5,
		gamma:         2,
		delta:         0.5,
		maxIterations: 30,
		distThreshold: 1e-5,
		st:            bootstrap,
		log:           diag.New(diag.Default(), nil, nil),
	}
	nm.buildParams()
	return nm, nil
}

// SetLogger implements method.LoggerSetter.
func (nm *NelderMead) SetLogger(log *diag.Logger) { nm.log = log }

func (nm *NelderMead) buildParams() {
	r := method.NewRegistry()
	r.Float("alpha", func() float64 { return nm.alpha }, func(v float64) error {
		if v <= 0 {
			nm.log.Warn("alpha out of recommended range, accepting anyway", "alpha", v)
		}
		nm.alpha = v
		return nil
	})
	r.Float("beta", func() float64 { return nm.beta }, func(v float64) error {
		if v <= 0 || v >= 1 {
			nm.log.Warn("beta out of recommended range, accepting anyway", "beta", v)
		}
		nm.beta = v
		return nil
	})
	r.Float("gamma", func() float64 { return nm.gamma }, func(v float64) error {
		if v <= 1 {
			nm.log.Warn("gamma out of recommended range, accepting anyway", "gamma", v)
		}
		nm.gamma = v
		return nil
	})
	r.Float("delta", func() float64 { return nm.delta }, func(v float64) error {
		if v <= 0 || v >= 1 {
			nm.log.Warn("delta out of recommended range, accepting anyway", "delta", v)
		}
		nm.delta = v
		return nil
	})
	r.Int("max_iterations", func() int { return nm.maxIterations }, func(v int) error { nm.maxIterations = v; return nil })
	r.Float("dist_threshold", func() float64 { return nm.distThreshold }, func(v float64) error { nm.distThreshold = v; return nil })
	r.Vector("seed", func() vect.Vector { return nm.seed }, func(v vect.Vector) error {
		if len(v) != nm.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("seed length %d does not match dimension %d", len(v), nm.d))
		}
		nm.seed = v.Clone()
		return nil
	})
	r.Result("minimum x", func() (any, error) { return nm.bestX.Clone(), nil })
	r.Result("minimum f", func() (any, error) { return nm.bestF, nil })
	nm.params = r
}

func (nm *NelderMead) Name() string { return "nelder-mead" }

func (nm *NelderMead) HParamSet(id string, value any) error { return nm.params.Set(id, value) }
func (nm *NelderMead) HParamGet(id string) (any, error)      { return nm.params.Get(id) }

// Seed supplies the starting point before bootstrapping the simplex.
func (nm *NelderMead) Seed(v vect.Vector) error {
	if nm.st != bootstrap || len(nm.simplex) != 0 {
		return fnterr.New(fnterr.NotReady, "seed is only valid before the simplex has been bootstrapped")
	}
	if len(v) != nm.d {
		return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("seed length %d does not match dimension %d", len(v), nm.d))
	}
	nm.seed = v.Clone()
	return nil
}

func (nm *NelderMead) Next(out vect.Vector) error {
	switch nm.st {
	case bootstrap:
		count := len(nm.simplex)
		out.CopyFrom(nm.seed)
		if count > 0 {
			out[count-1] += float64(count)
		}
		return nil
	case reflectState:
		nm.sortSimplex()
		h := nm.simplex[len(nm.simplex)-1]
		nm.centroid = centroidExcluding(nm.simplex, len(nm.simplex)-1)
		xr := vect.Add(nm.centroid, vect.Scale(vect.Sub(nm.centroid, h.x), nm.alpha))
		nm.xr = point{x: xr}
		nm.st = awaitReflect
		out.CopyFrom(xr)
		return nil
	case awaitExpand, awaitContractOut, awaitContractIn, shrinkState, shrinkSecondState:
		out.CopyFrom(nm.pending)
		return nil
	case awaitReflect:
		out.CopyFrom(nm.xr.x)
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after nelder-mead completed")
	}
}

func (nm *NelderMead) SetValue(v vect.Vector, fv float64) error {
	switch nm.st {
	case bootstrap:
		nm.simplex = append(nm.simplex, point{x: v.Clone(), f: fv})
		if len(nm.simplex) == nm.d+1 {
			nm.sortSimplex()
			nm.st = reflectState
		}
		return nil
	case awaitReflect:
		return nm.onReflectValue(v, fv)
	case awaitExpand:
		return nm.onExpandValue(v, fv)
	case awaitContractOut:
		return nm.onContractOutValue(v, fv)
	case awaitContractIn:
		return nm.onContractInValue(v, fv)
	case shrinkState:
		return nm.onShrinkValue(v, fv)
	case shrinkSecondState:
		return nm.onShrinkSecondValue(v, fv)
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after nelder-mead completed")
	}
}

func (nm *NelderMead) onReflectValue(v vect.Vector, fr float64) error {
	n := len(nm.simplex)
	l := nm.simplex[0]
	s := nm.simplex[n-2]
	h := nm.simplex[n-1]

	switch {
	case fr >= l.f && fr < s.f:
		nm.simplex[n-1] = point{x: v.Clone(), f: fr}
		nm.finishIteration()
		return nil
	case fr < l.f:
		xe := vect.Add(nm.centroid, vect.Scale(vect.Sub(v, nm.centroid), nm.gamma))
		nm.xr = point{x: v.Clone(), f: fr}
		nm.pending = xe
		nm.st = awaitExpand
		return nil
	case fr >= s.f && fr < h.f:
		xc := vect.Add(nm.centroid, vect.Scale(vect.Sub(v, nm.centroid), nm.beta))
		nm.xr = point{x: v.Clone(), f: fr}
		nm.pending = xc
		nm.st = awaitContractOut
		return nil
	default:
		xc := vect.Add(nm.centroid, vect.Scale(vect.Sub(h.x, nm.centroid), nm.beta))
		nm.pending = xc
		nm.st = awaitContractIn
		return nil
	}
}

func (nm *NelderMead) onExpandValue(v vect.Vector, fe float64) error {
	n := len(nm.simplex)
	if fe < nm.xr.f {
		nm.simplex[n-1] = point{x: v.Clone(), f: fe}
	} else {
		nm.simplex[n-1] = nm.xr
	}
	nm.finishIteration()
	return nil
}

func (nm *NelderMead) onContractOutValue(v vect.Vector, fc float64) error {
	n := len(nm.simplex)
	if fc < nm.xr.f {
		nm.simplex[n-1] = point{x: v.Clone(), f: fc}
		nm.finishIteration()
		return nil
	}
	nm.beginShrink()
	return nil
}

func (nm *NelderMead) onContractInValue(v vect.Vector, fc float64) error {
	n := len(nm.simplex)
	if fc < nm.simplex[n-1].f {
		nm.simplex[n-1] = point{x: v.Clone(), f: fc}
		nm.finishIteration()
		return nil
	}
	nm.beginShrink()
	return nil
}

// beginShrink computes the shrunk positions of h and s toward l and
// enters the two-phase shrink sub-state described in spec §4.4 and the
// design notes.
func (nm *NelderMead) beginShrink() {
	n := len(nm.simplex)
	l := nm.simplex[0]
	s := nm.simplex[n-2]
	h := nm.simplex[n-1]

	newH := vect.Add(l.x, vect.Scale(vect.Sub(h.x, l.x), nm.delta))
	newS := vect.Add(l.x, vect.Scale(vect.Sub(s.x, l.x), nm.delta))

	nm.pending = newH
	nm.scratch = newS
	nm.st = shrinkState
}

func (nm *NelderMead) onShrinkValue(v vect.Vector, fv float64) error {
	n := len(nm.simplex)
	nm.simplex[n-1] = point{x: v.Clone(), f: fv}
	nm.pending = nm.scratch
	nm.st = shrinkSecondState
	return nil
}

func (nm *NelderMead) onShrinkSecondValue(v vect.Vector, fv float64) error {
	n := len(nm.simplex)
	nm.simplex[n-2] = point{x: v.Clone(), f: fv}
	nm.finishIteration()
	return nil
}

// finishIteration advances the iteration count, re-sorts the simplex,
// and applies the termination predicate of spec §4.4. It runs once an
// iteration has fully finished, including after the second shrink
// evaluation, so the distance check never runs between the two shrink
// phases.
func (nm *NelderMead) finishIteration() {
	nm.iterCount++
	nm.sortSimplex()

	if nm.iterCount > nm.maxIterations {
		nm.complete()
		return
	}
	n := len(nm.simplex)
	if vect.Dist(nm.simplex[0].x, nm.simplex[n-1].x) < nm.distThreshold {
		nm.complete()
		return
	}
	nm.st = reflectState
}

func (nm *NelderMead) complete() {
	nm.bestX = nm.simplex[0].x.Clone()
	nm.bestF = nm.simplex[0].f
	nm.st = done
}

func (nm *NelderMead) sortSimplex() {
	sort.SliceStable(nm.simplex, func(i, j int) bool { return nm.simplex[i].f < nm.simplex[j].f })
}

func centroidExcluding(pts []point, excludeIdx int) vect.Vector {
	if len(pts) == 0 {
		return nil
	}
	c := vect.New(len(pts[0].x))
	count := 0
	for i, p := range pts {
		if i == excludeIdx {
			continue
		}
		c = vect.Add(c, p.x)
		count++
	}
	return vect.Scale(c, 1/float64(count))
}

func (nm *NelderMead) Done() (method.Status, error) {
	if nm.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (nm *NelderMead) Result(id string) (any, error) { return nm.params.Get(id) }

func (nm *NelderMead) Close() error { return nil }
