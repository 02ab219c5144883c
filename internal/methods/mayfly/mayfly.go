// Package mayfly wraps github.com/cwbudde/mayfly, a population-based
// metaheuristic optimizer, behind the toolbox's pull/push driver
// contract. The external library drives its own optimization loop and
// calls back into an objective function; this adapter runs that loop on
// a background goroutine and bridges its push-style callback into the
// next/set_value protocol with two unbuffered channels, realizing the
// "resumable coroutine" design note for a method the toolbox does not
// itself control the control flow of.
//
// This is not one of the ten required method state machines; it exists
// to demonstrate that the catalogue's capability contract accommodates
// third-party optimizers without special-casing the driver.
package mayfly

import (
	"math/rand"

	mflib "github.com/cwbudde/mayfly"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/rnd"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("mayfly", New)
}

type state int

const (
	running state = iota
	done
)

// outcome carries the external library's final result from the
// background optimization goroutine back to the method.
type outcome struct {
	position []float64
	cost     float64
	err      error
}

// Mayfly bridges the push-style github.com/cwbudde/mayfly optimizer
// into the pull/push method contract.
type Mayfly struct {
	d                int
	maxIterations    int
	population       int
	lower, upper     float64
	seed             int64
	seedSet          bool
	rng              rnd.Source

	reqCh    chan []float64
	valCh    chan float64
	resultCh chan outcome
	started  bool

	pending []float64
	st      state
	bestX   vect.Vector
	bestF   float64
	err     error

	params *method.Registry
}

// New constructs a mayfly instance for d dimensions.
func New(d int) (method.Method, error) {
	if d < 1 {
		return nil, fnterr.New(fnterr.InvalidArgument, "dimension must be >= 1")
	}
	m := &Mayfly{
		d:             d,
		maxIterations: 200,
		population:    40,
		lower:         -10,
		upper:         10,
		rng:           rnd.Global(),
		st:            running,
	}
	m.buildParams()
	return m, nil
}

// SetRandom implements method.RandomSeeded. The external library owns
// its own *rand.Rand; SetRandom only supplies the seed used to build it
// when no explicit "seed" hyper-parameter has been set.
func (m *Mayfly) SetRandom(src rnd.Source) { m.rng = src }

func (m *Mayfly) buildParams() {
	r := method.NewRegistry()
	r.Int("max_iterations", func() int { return m.maxIterations }, func(v int) error { m.maxIterations = v; return nil })
	r.Int("population", func() int { return m.population }, func(v int) error { m.population = v; return nil })
	r.Float("lower", func() float64 { return m.lower }, func(v float64) error { m.lower = v; return nil })
	r.Float("upper", func() float64 { return m.upper }, func(v float64) error { m.upper = v; return nil })
	r.Int("seed", func() int { return int(m.seed) }, func(v int) error { m.seed = int64(v); m.seedSet = true; return nil })
	r.Result("minimum x", func() (any, error) { return m.bestX.Clone(), nil })
	r.Result("minimum f", func() (any, error) { return m.bestF, nil })
	m.params = r
}

func (m *Mayfly) Name() string { return "mayfly" }

func (m *Mayfly) HParamSet(id string, value any) error { return m.params.Set(id, value) }
func (m *Mayfly) HParamGet(id string) (any, error)      { return m.params.Get(id) }

// start launches the external optimizer on its own goroutine. Its
// ObjectiveFunc blocks on reqCh/valCh, turning the library's push-style
// callback into the toolbox's pull/push protocol.
func (m *Mayfly) start() {
	m.reqCh = make(chan []float64)
	m.valCh = make(chan float64)
	m.resultCh = make(chan outcome, 1)

	seed := m.seed
	if !m.seedSet {
		seed = int64(m.rng.Intn(1 << 30))
	}

	cfg := mflib.NewDefaultConfig()
	cfg.ProblemSize = m.d
	cfg.MaxIterations = m.maxIterations
	cfg.NPop = m.population
	cfg.LowerBound = m.lower
	cfg.UpperBound = m.upper
	cfg.Rand = rand.New(rand.NewSource(seed))
	cfg.ObjectiveFunc = func(x []float64) float64 {
		m.reqCh <- x
		return <-m.valCh
	}

	go func() {
		result, err := mflib.Optimize(cfg)
		if err != nil {
			m.resultCh <- outcome{err: err}
			return
		}
		m.resultCh <- outcome{position: result.GlobalBest.Position, cost: result.GlobalBest.Cost}
	}()
	m.started = true
}

func (m *Mayfly) Next(out vect.Vector) error {
	if m.st == done {
		return fnterr.New(fnterr.StateViolation, "next called after mayfly completed")
	}
	if !m.started {
		m.start()
	}
	if m.pending != nil {
		out.CopyFrom(vect.FromSlice(m.pending))
		return nil
	}

	select {
	case p := <-m.reqCh:
		m.pending = p
		out.CopyFrom(vect.FromSlice(p))
		return nil
	case o := <-m.resultCh:
		m.finish(o)
		return fnterr.New(fnterr.StateViolation, "mayfly completed before the next request")
	}
}

func (m *Mayfly) SetValue(v vect.Vector, fv float64) error {
	if m.st == done {
		return fnterr.New(fnterr.StateViolation, "set_value called after mayfly completed")
	}
	if m.pending == nil {
		return fnterr.New(fnterr.StateViolation, "set_value called without a matching next")
	}
	m.valCh <- fv
	m.pending = nil
	return nil
}

func (m *Mayfly) finish(o outcome) {
	m.st = done
	m.err = o.err
	if o.err == nil {
		m.bestX = vect.FromSlice(o.position).Clone()
		m.bestF = o.cost
	}
}

func (m *Mayfly) Done() (method.Status, error) {
	if m.st == done {
		return method.StatusComplete, nil
	}
	if m.started && m.pending == nil {
		select {
		case p := <-m.reqCh:
			m.pending = p
		case o := <-m.resultCh:
			m.finish(o)
			return method.StatusComplete, nil
		}
	}
	return method.StatusContinue, nil
}

func (m *Mayfly) Result(id string) (any, error) {
	if m.err != nil {
		return nil, fnterr.Wrap(fnterr.Resource, "mayfly optimization failed", m.err)
	}
	return m.params.Get(id)
}

// Close releases the method. If the background optimization goroutine
// is still mid-run and blocked sending on reqCh, it is abandoned; the
// external library holds no further resources once its goroutine
// returns, and a caller that closes before completion has already
// broken the next/set_value contract.
func (m *Mayfly) Close() error { return nil }
