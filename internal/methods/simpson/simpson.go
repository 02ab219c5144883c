// Package simpson implements Simpson's rule (spec §4.10): a
// fixed-subinterval quadrature that accumulates even- and odd-indexed
// interior samples into separate running sums.
package simpson

import (
	"fmt"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("simpson", New)
}

type state int

const (
	running state = iota
	done
)

// Simpson holds the integration bounds, the even subinterval count,
// and the two running sums described in spec §3.
type Simpson struct {
	lower, upper float64
	n            int

	k      int
	f0, fn float64
	s1, s2 float64
	area   float64

	st     state
	params *method.Registry
}

// New constructs a Simpson instance. Integration is single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("simpson is single-variate, got d=%d", d))
	}
	sm := &Simpson{lower: 0, upper: 1, n: 2, st: running}
	sm.buildParams()
	return sm, nil
}

func (sm *Simpson) buildParams() {
	r := method.NewRegistry()
	r.Float("lower", func() float64 { return sm.lower }, func(v float64) error { sm.lower = v; return nil })
	r.Float("upper", func() float64 { return sm.upper }, func(v float64) error { sm.upper = v; return nil })
	r.Int("n", func() int { return sm.n }, func(v int) error {
		if v < 1 {
			return fnterr.New(fnterr.InvalidArgument, "n must be positive")
		}
		if v%2 != 0 {
			return fnterr.New(fnterr.InvalidArgument, "simpson's rule requires an even subinterval count")
		}
		sm.n = v
		return nil
	})
	r.Result("area", func() (any, error) { return sm.area, nil })
	sm.params = r
}

func (sm *Simpson) Name() string { return "simpson" }

func (sm *Simpson) HParamSet(id string, value any) error {
	return sm.params.Set(resolveAlias(id), value)
}

func (sm *Simpson) HParamGet(id string) (any, error) {
	return sm.params.Get(resolveAlias(id))
}

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

func (sm *Simpson) abscissa(k int) float64 {
	return sm.lower + float64(k)*(sm.upper-sm.lower)/float64(sm.n)
}

func (sm *Simpson) Next(out vect.Vector) error {
	if sm.st == done {
		return fnterr.New(fnterr.StateViolation, "next called after simpson completed")
	}
	out[0] = sm.abscissa(sm.k)
	return nil
}

func (sm *Simpson) SetValue(v vect.Vector, fv float64) error {
	if sm.st == done {
		return fnterr.New(fnterr.StateViolation, "set_value called after simpson completed")
	}

	switch {
	case sm.k == 0:
		sm.f0 = fv
	case sm.k == sm.n:
		sm.fn = fv
	case sm.k%2 == 0:
		sm.s1 += fv
	default:
		sm.s2 += fv
	}

	sm.k++
	if sm.k > sm.n {
		h := (sm.upper - sm.lower) / float64(sm.n)
		sm.area = (h / 3) * (sm.f0 + sm.fn + 2*sm.s1 + 4*sm.s2)
		sm.st = done
	}
	return nil
}

func (sm *Simpson) Done() (method.Status, error) {
	if sm.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (sm *Simpson) Result(id string) (any, error) { return sm.params.Get(id) }

func (sm *Simpson) Close() error { return nil }
