// Package bisection implements the bisection root finder (spec §4.7): a
// bracketed, guaranteed-convergent single-variate search that halves its
// interval every iteration.
package bisection

import (
	"fmt"
	"math"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("bisection", New)
}

type state int

const (
	needFA state = iota
	needFB
	running
	done
)

// Bisection holds the bracket, tolerances, and running state described
// in spec §3.
type Bisection struct {
	a, b   float64
	fa, fb float64
	xTol   float64
	fTol   float64
	st     state
	root   float64
	params *method.Registry
}

// New constructs a bisection instance. Bisection is single-variate;
// requesting d > 1 is an unsupported configuration.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("bisection is single-variate, got d=%d", d))
	}
	b := &Bisection{
		a:    0,
		b:    1,
		xTol: 1e-9,
		fTol: 1e-12,
		st:   needFA,
	}
	b.buildParams()
	return b, nil
}

func (b *Bisection) buildParams() {
	r := method.NewRegistry()
	r.Float("lower", func() float64 { return b.a }, func(v float64) error { b.a = v; return nil })
	r.Float("upper", func() float64 { return b.b }, func(v float64) error { b.b = v; return nil })
	r.Float("x_tol", func() float64 { return b.xTol }, func(v float64) error { b.xTol = v; return nil })
	r.Float("f_tol", func() float64 { return b.fTol }, func(v float64) error { b.fTol = v; return nil })
	r.Result("root", func() (any, error) { return b.root, nil })
	b.params = r
}

func (b *Bisection) Name() string { return "bisection" }

func (b *Bisection) HParamSet(id string, value any) error { return b.params.Set(id, value) }
func (b *Bisection) HParamGet(id string) (any, error)      { return b.params.Get(id) }

func (b *Bisection) Next(out vect.Vector) error {
	switch b.st {
	case needFA:
		out[0] = b.a
	case needFB:
		out[0] = b.b
	case running:
		out[0] = 0.5 * (b.a + b.b)
	default:
		return fnterr.New(fnterr.StateViolation, "next called after bisection completed")
	}
	return nil
}

func (b *Bisection) SetValue(v vect.Vector, fv float64) error {
	switch b.st {
	case needFA:
		b.a = v[0]
		b.fa = fv
		b.st = needFB
		return nil
	case needFB:
		b.b = v[0]
		b.fb = fv
		if err := b.establishSigns(); err != nil {
			return err
		}
		b.st = running
		return nil
	case running:
		return b.step(v[0], fv)
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after bisection completed")
	}
}

// establishSigns ensures f(a) < 0 < f(b), swapping the bracket endpoints
// in a single three-way exchange if they arrived reversed. Returns a
// bracket-invalid error if no sign swap can establish the invariant.
func (b *Bisection) establishSigns() error {
	if b.fa < 0 && b.fb > 0 {
		return nil
	}
	if b.fa > 0 && b.fb < 0 {
		b.a, b.b = b.b, b.a
		b.fa, b.fb = b.fb, b.fa
		return nil
	}
	return fnterr.New(fnterr.BracketInvalid, fmt.Sprintf("f(a)=%g and f(b)=%g do not bracket a sign change", b.fa, b.fb))
}

func (b *Bisection) step(x, fv float64) error {
	if fv == 0 {
		b.root = x
		b.st = done
		return nil
	}
	if fv < 0 {
		b.a = x
		b.fa = fv
	} else {
		b.b = x
		b.fb = fv
	}

	if math.Abs(b.b-b.a) < b.xTol || math.Abs(b.fb-b.fa) < b.fTol {
		b.root = 0.5 * (b.a + b.b)
		b.st = done
	}
	return nil
}

func (b *Bisection) Done() (method.Status, error) {
	if b.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (b *Bisection) Result(id string) (any, error) { return b.params.Get(id) }

func (b *Bisection) Close() error { return nil }
