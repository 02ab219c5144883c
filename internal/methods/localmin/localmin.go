// Package localmin implements Brent's localmin (spec §4.5): a
// derivative-free one-dimensional minimizer over a bracket that
// combines golden-section search with parabolic interpolation.
package localmin

import (
	"fmt"
	"math"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("localmin", New)
}

// goldenRatio is Brent's golden-section constant c = (3 - sqrt(5))/2.
var goldenRatio = (3 - math.Sqrt(5)) / 2

type state int

const (
	needFX state = iota
	awaitingU
	done
)

// LocalMin holds the bracket, the four distinguished points (u, v, w,
// x) and their values, the step memory (d, e), and the tolerances
// described in spec §3 and §4.5.
type LocalMin struct {
	x0, x1         float64
	eps, t         float64
	a, b           float64
	u, v, w, x     float64
	fu, fv, fw, fx float64
	d, e           float64
	st             state
	minX           float64
	minF           float64
	params         *method.Registry
}

// New constructs a localmin instance. Localmin is single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("localmin is single-variate, got d=%d", d))
	}
	lm := &LocalMin{x0: 0, x1: 1, eps: 1e-10, t: 1e-6, st: needFX}
	lm.buildParams()
	return lm, nil
}

func (lm *LocalMin) buildParams() {
	r := method.NewRegistry()
	r.Float("x_0", func() float64 { return lm.x0 }, func(v float64) error { lm.x0 = v; return nil })
	r.Float("x_1", func() float64 { return lm.x1 }, func(v float64) error { lm.x1 = v; return nil })
	r.Float("eps", func() float64 { return lm.eps }, func(v float64) error { lm.eps = v; return nil })
	r.Float("t", func() float64 { return lm.t }, func(v float64) error { lm.t = v; return nil })
	r.Result("minimum x", func() (any, error) { return lm.minX, nil })
	r.Result("minimum f", func() (any, error) { return lm.minF, nil })
	lm.params = r
}

func (lm *LocalMin) Name() string { return "localmin" }

func (lm *LocalMin) HParamSet(id string, value any) error { return lm.params.Set(id, value) }
func (lm *LocalMin) HParamGet(id string) (any, error)      { return lm.params.Get(id) }

func (lm *LocalMin) Next(out vect.Vector) error {
	switch lm.st {
	case needFX:
		lm.a, lm.b = lm.x0, lm.x1
		out[0] = lm.a + goldenRatio*(lm.b-lm.a)
		return nil
	case awaitingU:
		out[0] = lm.u
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after localmin completed")
	}
}

func (lm *LocalMin) SetValue(v vect.Vector, fv float64) error {
	switch lm.st {
	case needFX:
		lm.x, lm.v, lm.w = v[0], v[0], v[0]
		lm.fx, lm.fv, lm.fw = fv, fv, fv
		lm.d, lm.e = 0, 0
		lm.st = awaitingU
		lm.step()
		return nil
	case awaitingU:
		lm.u, lm.fu = v[0], fv
		lm.accept()
		lm.step()
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after localmin completed")
	}
}

// accept applies the outcome of evaluating f(u), tightening the
// bracket and shifting (v, w, x) per spec §4.5.
func (lm *LocalMin) accept() {
	if lm.fu <= lm.fx {
		if lm.u < lm.x {
			lm.b = lm.x
		} else {
			lm.a = lm.x
		}
		lm.v, lm.fv = lm.w, lm.fw
		lm.w, lm.fw = lm.x, lm.fx
		lm.x, lm.fx = lm.u, lm.fu
		return
	}

	if lm.u < lm.x {
		lm.a = lm.u
	} else {
		lm.b = lm.u
	}
	if lm.fu <= lm.fw || lm.w == lm.x {
		lm.v, lm.fv = lm.w, lm.fw
		lm.w, lm.fw = lm.u, lm.fu
	} else if lm.fu <= lm.fv || lm.v == lm.x || lm.v == lm.w {
		lm.v, lm.fv = lm.u, lm.fu
	}
}

// step checks the termination predicate against the current bracket
// and, if it does not hold, computes the next query point u via
// parabolic interpolation or a golden-section fallback, per spec
// §4.5.
func (lm *LocalMin) step() {
	m := (lm.a + lm.b) / 2
	tol := lm.eps*math.Abs(lm.x) + lm.t
	t2 := 2 * tol

	if math.Abs(lm.x-m) <= t2-(lm.b-lm.a)/2 {
		lm.minX, lm.minF = lm.x, lm.fx
		lm.st = done
		return
	}

	r := (lm.x - lm.w) * (lm.fx - lm.fv)
	q := (lm.x - lm.v) * (lm.fx - lm.fw)
	p := (lm.x-lm.v)*q - (lm.x-lm.w)*r
	q = 2 * (q - r)
	if q > 0 {
		p = -p
	}
	q = math.Abs(q)
	prevE := lm.e
	lm.e = lm.d

	if math.Abs(p) < math.Abs(0.5*q*prevE) && p > q*(lm.a-lm.x) && p < q*(lm.b-lm.x) {
		lm.d = p / q
	} else {
		if lm.x < m {
			lm.e = lm.b - lm.x
		} else {
			lm.e = lm.a - lm.x
		}
		lm.d = goldenRatio * lm.e
	}

	if math.Abs(lm.d) >= tol {
		lm.u = lm.x + lm.d
	} else {
		lm.u = lm.x + sign(lm.d)*tol
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func (lm *LocalMin) Done() (method.Status, error) {
	if lm.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (lm *LocalMin) Result(id string) (any, error) { return lm.params.Get(id) }

func (lm *LocalMin) Close() error { return nil }
