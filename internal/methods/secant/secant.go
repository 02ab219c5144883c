// Package secant implements the secant root finder (spec §4.8): a
// derivative-free method that replaces Newton-Raphson's tangent line
// with the line through the two most recent evaluated points.
package secant

import (
	"fmt"
	"math"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("secant", New)
}

// epsMachine is the protected denominator threshold below which the
// secant step is considered numerically singular.
const epsMachine = 1e-6

type state int

const (
	needX0 state = iota
	needX1
	running
	done
)

// Secant holds the two most recently evaluated points and the recorded
// root, per spec §3.
type Secant struct {
	x0, x1 float64
	fTol   float64

	xPrev, fPrev float64
	xCur, fCur   float64

	st     state
	root   float64
	params *method.Registry
}

// New constructs a secant instance. Secant is single-variate.
func New(d int) (method.Method, error) {
	if d != 1 {
		return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("secant is single-variate, got d=%d", d))
	}
	s := &Secant{x0: 0, x1: 1, fTol: 1e-9, st: needX0}
	s.buildParams()
	return s, nil
}

func (s *Secant) buildParams() {
	r := method.NewRegistry()
	r.Float("x_0", func() float64 { return s.x0 }, func(v float64) error { s.x0 = v; return nil })
	r.Float("x_1", func() float64 { return s.x1 }, func(v float64) error { s.x1 = v; return nil })
	r.Float("f_tol", func() float64 { return s.fTol }, func(v float64) error { s.fTol = v; return nil })
	r.Result("root", func() (any, error) { return s.root, nil })
	s.params = r
}

func (s *Secant) Name() string { return "secant" }

func (s *Secant) HParamSet(id string, value any) error { return s.params.Set(id, value) }
func (s *Secant) HParamGet(id string) (any, error)      { return s.params.Get(id) }

func (s *Secant) Next(out vect.Vector) error {
	switch s.st {
	case needX0:
		out[0] = s.x0
		return nil
	case needX1:
		out[0] = s.x1
		return nil
	case running:
		denom := s.fCur - s.fPrev
		if math.Abs(denom) < epsMachine {
			return fnterr.New(fnterr.NumericalSingularity, "secant denominator below protection threshold")
		}
		out[0] = s.xCur - s.fCur*(s.xCur-s.xPrev)/denom
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after secant completed")
	}
}

func (s *Secant) SetValue(v vect.Vector, fv float64) error {
	switch s.st {
	case needX0:
		s.xPrev, s.fPrev = v[0], fv
		s.st = needX1
		return nil
	case needX1:
		s.xCur, s.fCur = v[0], fv
		s.st = running
		s.checkTermination()
		return nil
	case running:
		s.xPrev, s.fPrev = s.xCur, s.fCur
		s.xCur, s.fCur = v[0], fv
		s.checkTermination()
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after secant completed")
	}
}

func (s *Secant) checkTermination() {
	if math.Abs(s.fCur) < s.fTol {
		s.root = s.xCur
		s.st = done
	}
}

func (s *Secant) Done() (method.Status, error) {
	if s.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (s *Secant) Result(id string) (any, error) { return s.params.Get(id) }

func (s *Secant) Close() error { return nil }
