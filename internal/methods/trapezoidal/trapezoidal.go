// Package trapezoidal implements the trapezoidal rule (spec §4.10): a
// fixed-subinterval quadrature that accumulates interior samples into a
// single running sum.
package trapezoidal

import (
	"fmt"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("trapezoidal", New)
}

type state int

const (
	running state = iota
	done
)

// Trapezoidal holds the integration bounds, the subinterval count, and
// the running sum described in spec §3.
type Trapezoidal struct {
	lower, upper float64
	n            int

	k      int
	f0, fn float64
	sum    float64
	area   float64

	st     state
	params *method.Registry
}

// New constructs a trapezoidal instance. Integration is single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("trapezoidal is single-variate, got d=%d", d))
	}
	tr := &Trapezoidal{lower: 0, upper: 1, n: 1, st: running}
	tr.buildParams()
	return tr, nil
}

func (tr *Trapezoidal) buildParams() {
	r := method.NewRegistry()
	r.Float("lower", func() float64 { return tr.lower }, func(v float64) error { tr.lower = v; return nil })
	r.Float("upper", func() float64 { return tr.upper }, func(v float64) error { tr.upper = v; return nil })
	r.Int("n", func() int { return tr.n }, func(v int) error {
		if v < 1 {
			return fnterr.New(fnterr.InvalidArgument, "n must be positive")
		}
		tr.n = v
		return nil
	})
	r.Result("area", func() (any, error) { return tr.area, nil })
	tr.params = r
}

func (tr *Trapezoidal) Name() string { return "trapezoidal" }

func (tr *Trapezoidal) HParamSet(id string, value any) error {
	return tr.params.Set(resolveAlias(id), value)
}

func (tr *Trapezoidal) HParamGet(id string) (any, error) {
	return tr.params.Get(resolveAlias(id))
}

// resolveAlias maps the bound-name aliases documented in spec §6
// ("x_0"/"x_1" and "subintervals") onto the canonical registered names.
func resolveAlias(id string) string {
	switch id {
	case "subintervals":
		return "n"
	case "x_0":
		return "lower"
	case "x_1":
		return "upper"
	default:
		return id
	}
}

func (tr *Trapezoidal) abscissa(k int) float64 {
	return tr.lower + float64(k)*(tr.upper-tr.lower)/float64(tr.n)
}

func (tr *Trapezoidal) Next(out vect.Vector) error {
	if tr.st == done {
		return fnterr.New(fnterr.StateViolation, "next called after trapezoidal completed")
	}
	out[0] = tr.abscissa(tr.k)
	return nil
}

func (tr *Trapezoidal) SetValue(v vect.Vector, fv float64) error {
	if tr.st == done {
		return fnterr.New(fnterr.StateViolation, "set_value called after trapezoidal completed")
	}

	switch {
	case tr.k == 0:
		tr.f0 = fv
	case tr.k == tr.n:
		tr.fn = fv
	default:
		tr.sum += fv
	}

	tr.k++
	if tr.k > tr.n {
		h := (tr.upper - tr.lower) / float64(tr.n)
		tr.area = 0.5 * h * (tr.f0 + tr.fn + 2*tr.sum)
		tr.st = done
	}
	return nil
}

func (tr *Trapezoidal) Done() (method.Status, error) {
	if tr.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (tr *Trapezoidal) Result(id string) (any, error) { return tr.params.Get(id) }

func (tr *Trapezoidal) Close() error { return nil }
