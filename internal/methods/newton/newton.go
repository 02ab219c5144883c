// Package newton implements the Newton-Raphson root finder (spec §4.8):
// a derivative-based method that steps along the tangent line at the
// most recently evaluated point.
package newton

import (
	"fmt"
	"math"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("newton", New)
}

// epsMachine is the protected derivative threshold below which a
// Newton step is considered numerically singular, shared with secant's
// slope guard.
const epsMachine = 1e-6

type state int

const (
	needInitial state = iota
	running
	done
)

// NewtonRaphson holds the current iterate, the recorded root, and the
// derivative reported alongside the most recent function value.
type NewtonRaphson struct {
	x0   float64
	fTol float64

	x, f, df float64

	st     state
	root   float64
	params *method.Registry
}

// New constructs a Newton-Raphson instance. Newton-Raphson is
// single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("newton is single-variate, got d=%d", d))
	}
	n := &NewtonRaphson{x0: 0, fTol: 1e-9, st: needInitial}
	n.buildParams()
	return n, nil
}

func (n *NewtonRaphson) buildParams() {
	r := method.NewRegistry()
	r.Float("x_0", func() float64 { return n.x0 }, func(v float64) error { n.x0 = v; return nil })
	r.Float("f_tol", func() float64 { return n.fTol }, func(v float64) error { n.fTol = v; return nil })
	r.Result("root", func() (any, error) { return n.root, nil })
	n.params = r
}

func (n *NewtonRaphson) Name() string { return "newton" }

func (n *NewtonRaphson) HParamSet(id string, value any) error { return n.params.Set(id, value) }
func (n *NewtonRaphson) HParamGet(id string) (any, error)      { return n.params.Get(id) }

func (n *NewtonRaphson) Next(out vect.Vector) error {
	switch n.st {
	case needInitial:
		out[0] = n.x0
		return nil
	case running:
		if math.Abs(n.df) < epsMachine {
			return fnterr.New(fnterr.NumericalSingularity, "newton derivative below protection threshold")
		}
		out[0] = n.x - n.f/n.df
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after newton completed")
	}
}

// SetValue reports a function value with no derivative, which Newton-
// Raphson cannot act on; callers must use SetValueWithGradient.
func (n *NewtonRaphson) SetValue(v vect.Vector, fv float64) error {
	return fnterr.New(fnterr.InvalidArgument, "newton requires a derivative; use set_value_with_gradient")
}

func (n *NewtonRaphson) SetValueWithGradient(v vect.Vector, fv float64, g vect.Vector) error {
	switch n.st {
	case needInitial, running:
		n.x, n.f, n.df = v[0], fv, g[0]
		n.st = running
		if math.Abs(n.f) < n.fTol {
			n.root = n.x
			n.st = done
		}
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value_with_gradient called after newton completed")
	}
}

func (n *NewtonRaphson) Done() (method.Status, error) {
	if n.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (n *NewtonRaphson) Result(id string) (any, error) { return n.params.Get(id) }

func (n *NewtonRaphson) Close() error { return nil }
