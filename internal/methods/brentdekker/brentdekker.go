// Package brentdekker implements the Brent-Dekker root finder (spec
// §4.6): a bracketed method that combines bisection with secant and
// inverse quadratic interpolation steps, guaranteeing the convergence
// of bisection while usually converging much faster.
package brentdekker

import (
	"fmt"
	"math"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("brent-dekker", New)
}

type state int

const (
	needFA state = iota
	needFB
	running
	done
)

// BrentDekker holds the bracketing triple (a, b, c), their function
// values, the step memory (d, e), and the tolerances described in spec
// §3 and §4.6.
type BrentDekker struct {
	x0, x1     float64
	macheps, t float64
	a, b, c    float64
	fa, fb, fc float64
	d, e       float64
	st         state
	root       float64
	params     *method.Registry
}

// New constructs a Brent-Dekker instance. Brent-Dekker is single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("brent-dekker is single-variate, got d=%d", d))
	}
	bd := &BrentDekker{x0: 0, x1: 1, macheps: 1e-10, t: 1e-6, st: needFA}
	bd.buildParams()
	return bd, nil
}

func (bd *BrentDekker) buildParams() {
	r := method.NewRegistry()
	r.Float("x_0", func() float64 { return bd.x0 }, func(v float64) error { bd.x0 = v; return nil })
	r.Float("x_1", func() float64 { return bd.x1 }, func(v float64) error { bd.x1 = v; return nil })
	r.Float("macheps", func() float64 { return bd.macheps }, func(v float64) error { bd.macheps = v; return nil })
	r.Float("t", func() float64 { return bd.t }, func(v float64) error { bd.t = v; return nil })
	r.Result("root", func() (any, error) { return bd.root, nil })
	bd.params = r
}

func (bd *BrentDekker) Name() string { return "brent-dekker" }

func (bd *BrentDekker) HParamSet(id string, value any) error { return bd.params.Set(id, value) }
func (bd *BrentDekker) HParamGet(id string) (any, error)      { return bd.params.Get(id) }

func (bd *BrentDekker) Next(out vect.Vector) error {
	switch bd.st {
	case needFA:
		out[0] = bd.x0
		return nil
	case needFB:
		out[0] = bd.x1
		return nil
	case running:
		out[0] = bd.b
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after brent-dekker completed")
	}
}

func (bd *BrentDekker) SetValue(v vect.Vector, fv float64) error {
	switch bd.st {
	case needFA:
		bd.a, bd.fa = v[0], fv
		bd.st = needFB
		return nil
	case needFB:
		bd.b, bd.fb = v[0], fv
		if bd.fa*bd.fb > 0 {
			bd.st = done
			return fnterr.New(fnterr.BracketInvalid, fmt.Sprintf("f(x_0)=%g and f(x_1)=%g do not bracket a sign change", bd.fa, bd.fb))
		}
		bd.c, bd.fc = bd.a, bd.fa
		bd.d = bd.b - bd.a
		bd.e = bd.d
		bd.st = running
		bd.step()
		return nil
	case running:
		bd.b, bd.fb = v[0], fv
		bd.step()
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after brent-dekker completed")
	}
}

// step advances the triple (a, b, c) by exactly one Brent-Dekker
// iteration and either records the root (terminating) or computes the
// next point to request, per spec §4.6.
func (bd *BrentDekker) step() {
	if sameSign(bd.fb, bd.fc) {
		bd.c, bd.fc = bd.a, bd.fa
		bd.d = bd.b - bd.a
		bd.e = bd.d
	}
	if math.Abs(bd.fc) < math.Abs(bd.fb) {
		bd.a, bd.fa = bd.b, bd.fb
		bd.b, bd.fb = bd.c, bd.fc
		bd.c, bd.fc = bd.a, bd.fa
	}

	if bd.checkTermination() {
		return
	}

	tol := 2*bd.macheps*math.Abs(bd.b) + bd.t
	m := (bd.c - bd.b) / 2

	if math.Abs(bd.e) < tol || math.Abs(bd.fa) <= math.Abs(bd.fb) {
		bd.d, bd.e = m, m
	} else {
		var p, q float64
		if bd.a == bd.c {
			s := bd.fb / bd.fa
			p = 2 * m * s
			q = 1 - s
		} else {
			q = bd.fa / bd.fc
			r := bd.fb / bd.fc
			s := bd.fb / bd.fa
			p = s * (2*m*q*(q-r) - (bd.b-bd.a)*(r-1))
			q = (q - 1) * (r - 1) * (s - 1)
		}
		if p > 0 {
			q = -q
		} else {
			p = -p
		}
		s := bd.e
		bd.e = bd.d
		if 2*p < 3*m*q-math.Abs(tol*q) && p < math.Abs(s*q/2) {
			bd.d = p / q
		} else {
			bd.d, bd.e = m, m
		}
	}

	bd.a, bd.fa = bd.b, bd.fb
	if math.Abs(bd.d) > tol {
		bd.b += bd.d
	} else {
		bd.b += sign(m) * tol
	}
}

// checkTermination evaluates the Brent-Dekker stopping predicate for
// the current (b, c, f_b, f_c) and, if it holds, records the root and
// transitions to done. Returns whether it terminated.
func (bd *BrentDekker) checkTermination() bool {
	tol := 2*bd.macheps*math.Abs(bd.b) + bd.t
	m := (bd.c - bd.b) / 2
	if math.Abs(m) <= tol || bd.fb == 0 {
		bd.root = bd.b
		bd.st = done
		return true
	}
	return false
}

func sameSign(x, y float64) bool { return x*y > 0 }

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func (bd *BrentDekker) Done() (method.Status, error) {
	if bd.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (bd *BrentDekker) Result(id string) (any, error) { return bd.params.Get(id) }

func (bd *BrentDekker) Close() error { return nil }
