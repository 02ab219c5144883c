// Package gradient implements gradient estimation by forward finite
// differences (spec §4.11): sample the base point once, then perturb
// each axis in turn to approximate the partial derivatives.
package gradient

import (
	"fmt"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("gradient", New)
}

type state int

const (
	needBase state = iota
	running
	done
)

// Gradient holds the base point, the per-dimension step sizes, the
// recorded base value, and the output gradient vector described in
// spec §3.
type Gradient struct {
	d       int
	x0      vect.Vector
	step    float64
	stepVec vect.Vector

	fx0 float64
	k   int
	out vect.Vector

	st     state
	params *method.Registry
}

// New constructs a gradient-estimate instance for d dimensions.
func New(d int) (method.Method, error) {
	if d < 1 {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("dimension must be >= 1, got %d", d))
	}
	g := &Gradient{
		d:    d,
		x0:   vect.New(d),
		step: 1e-3,
		out:  vect.New(d),
		st:   needBase,
	}
	g.buildParams()
	return g, nil
}

func (g *Gradient) buildParams() {
	r := method.NewRegistry()
	r.Vector("x0", func() vect.Vector { return g.x0 }, func(v vect.Vector) error {
		if len(v) != g.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("x0 length %d does not match dimension %d", len(v), g.d))
		}
		g.x0 = v.Clone()
		return nil
	})
	r.Float("step", func() float64 { return g.step }, func(v float64) error { g.step = v; return nil })
	r.Vector("step_vec", func() vect.Vector { return g.stepVec }, func(v vect.Vector) error {
		if len(v) != g.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("step_vec length %d does not match dimension %d", len(v), g.d))
		}
		g.stepVec = v.Clone()
		return nil
	})
	r.Result("gradient", func() (any, error) { return g.out.Clone(), nil })
	g.params = r
}

func (g *Gradient) Name() string { return "gradient" }

func (g *Gradient) HParamSet(id string, value any) error { return g.params.Set(id, value) }
func (g *Gradient) HParamGet(id string) (any, error)      { return g.params.Get(id) }

func (g *Gradient) stepFor(k int) float64 {
	if g.stepVec != nil {
		return g.stepVec[k]
	}
	return g.step
}

func (g *Gradient) Next(out vect.Vector) error {
	switch g.st {
	case needBase:
		out.CopyFrom(g.x0)
		return nil
	case running:
		out.CopyFrom(g.x0)
		out[g.k] += g.stepFor(g.k)
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after gradient estimate completed")
	}
}

func (g *Gradient) SetValue(v vect.Vector, fv float64) error {
	switch g.st {
	case needBase:
		g.fx0 = fv
		g.k = 0
		g.st = running
		return nil
	case running:
		g.out[g.k] = (fv - g.fx0) / g.stepFor(g.k)
		g.k++
		if g.k == g.d {
			g.st = done
		}
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after gradient estimate completed")
	}
}

func (g *Gradient) Done() (method.Status, error) {
	if g.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (g *Gradient) Result(id string) (any, error) { return g.params.Get(id) }

func (g *Gradient) Close() error { return nil }
