// Package de implements differential evolution (spec §4.9): a
// population-based multi-dimensional minimizer that advances two
// alternating generations of candidate vectors.
package de

import (
	"fmt"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/diag"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/rnd"
	"github.com/cwbudde/fnt/internal/vect"
)

func init() {
	catalogue.Register("differential-evolution", New)
}

type state int

const (
	initial state = iota
	running
	done
)

// DE holds the two alternating generations, the running index, the
// slot of the best candidate in the generation just completed, and the
// hyper-parameters described in spec §3 and §4.9.
type DE struct {
	d          int
	NP         int
	F, lambda  float64
	iterations int

	start, lower, upper vect.Vector

	rng rnd.Source

	x, xPrev   []vect.Vector
	fx, fxPrev []float64
	i          int
	bestIdx    int

	bestX   vect.Vector
	bestF   float64
	hasBest bool

	st      state
	pending vect.Vector

	log    *diag.Logger
	params *method.Registry
}

// New constructs a differential-evolution instance for d dimensions.
func New(d int) (method.Method, error) {
	if d < 1 {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("dimension must be >= 1, got %d", d))
	}
	de := &DE{
		d:          d,
		NP:         10 * d,
		F:          0.5,
		lambda:     0.1,
		iterations: 1000,
		rng:        rnd.Global(),
		st:         initial,
		log:        diag.New(diag.Default(), nil, nil),
	}
	de.buildParams()
	return de, nil
}

// SetRandom implements method.RandomSeeded.
func (de *DE) SetRandom(src rnd.Source) { de.rng = src }

// SetLogger implements method.LoggerSetter.
func (de *DE) SetLogger(log *diag.Logger) { de.log = log }

func (de *DE) buildParams() {
	r := method.NewRegistry()
	r.Int("NP", func() int { return de.NP }, func(v int) error {
		if v < 3 {
			de.log.Warn("NP below minimum population, clamping", "requested", v, "clamped", 3)
			v = 3
		}
		de.NP = v
		return nil
	})
	r.Float("F", func() float64 { return de.F }, func(v float64) error { de.F = v; return nil })
	r.Float("lambda", func() float64 { return de.lambda }, func(v float64) error { de.lambda = v; return nil })
	r.Int("iterations", func() int { return de.iterations }, func(v int) error { de.iterations = v; return nil })
	r.Vector("start", func() vect.Vector { return de.start }, func(v vect.Vector) error {
		if len(v) != de.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("start length %d does not match dimension %d", len(v), de.d))
		}
		de.start = v.Clone()
		return nil
	})
	r.Vector("lower", func() vect.Vector { return de.lower }, func(v vect.Vector) error {
		if len(v) != de.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("lower length %d does not match dimension %d", len(v), de.d))
		}
		de.lower = v.Clone()
		de.fixBounds()
		return nil
	})
	r.Vector("upper", func() vect.Vector { return de.upper }, func(v vect.Vector) error {
		if len(v) != de.d {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("upper length %d does not match dimension %d", len(v), de.d))
		}
		de.upper = v.Clone()
		de.fixBounds()
		return nil
	})
	r.Result("minimum x", func() (any, error) { return de.bestX.Clone(), nil })
	r.Result("minimum f", func() (any, error) { return de.bestF, nil })
	de.params = r
}

// fixBounds swaps any per-dimension inversion of lower/upper, per spec
// §4.9.
func (de *DE) fixBounds() {
	if de.lower == nil || de.upper == nil {
		return
	}
	for j := range de.lower {
		if de.lower[j] > de.upper[j] {
			de.log.Warn("lower/upper bounds inverted, auto-swapping", "dimension", j, "lower", de.lower[j], "upper", de.upper[j])
			de.lower[j], de.upper[j] = de.upper[j], de.lower[j]
		}
	}
}

func (de *DE) Name() string { return "differential-evolution" }

func (de *DE) HParamSet(id string, value any) error { return de.params.Set(id, value) }
func (de *DE) HParamGet(id string) (any, error)      { return de.params.Get(id) }

func (de *DE) allocate() {
	de.x = make([]vect.Vector, de.NP)
	de.xPrev = make([]vect.Vector, de.NP)
	de.fx = make([]float64, de.NP)
	de.fxPrev = make([]float64, de.NP)
}

func (de *DE) Next(out vect.Vector) error {
	switch de.st {
	case initial:
		if de.x == nil {
			de.allocate()
		}
		if de.pending == nil {
			de.pending = de.initialPoint()
		}
		out.CopyFrom(de.pending)
		return nil
	case running:
		if de.pending == nil {
			de.pending = de.trialVector(de.i)
		}
		out.CopyFrom(de.pending)
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "next called after differential evolution completed")
	}
}

func (de *DE) SetValue(v vect.Vector, fv float64) error {
	switch de.st {
	case initial:
		de.x[de.i] = v.Clone()
		de.fx[de.i] = fv
		de.updateBest(de.x[de.i], fv)
		de.advance()
		return nil
	case running:
		if fv < de.fxPrev[de.i] {
			de.x[de.i] = v.Clone()
			de.fx[de.i] = fv
		} else {
			de.x[de.i] = de.xPrev[de.i].Clone()
			de.fx[de.i] = de.fxPrev[de.i]
		}
		de.updateBest(de.x[de.i], de.fx[de.i])
		de.advance()
		return nil
	default:
		return fnterr.New(fnterr.StateViolation, "set_value called after differential evolution completed")
	}
}

func (de *DE) updateBest(v vect.Vector, f float64) {
	if !de.hasBest || f < de.bestF {
		de.bestX = v.Clone()
		de.bestF = f
		de.hasBest = true
	}
}

// advance moves to the next population slot and, once every slot in
// the generation has been filled, rolls the generation arrays and
// recomputes the best slot used by the DE/best/2 trial-vector scheme.
func (de *DE) advance() {
	de.pending = nil
	de.i++
	if de.i < de.NP {
		return
	}

	best := 0
	for k := 1; k < de.NP; k++ {
		if de.fx[k] < de.fx[best] {
			best = k
		}
	}
	de.bestIdx = best

	de.x, de.xPrev = de.xPrev, de.x
	de.fx, de.fxPrev = de.fxPrev, de.fx
	de.i = 0
	de.iterations--

	if de.st == initial {
		de.st = running
	}
	if de.iterations <= 0 {
		de.st = done
	}
}

// initialPoint samples a starting vector for the initial generation,
// per spec §4.9.
func (de *DE) initialPoint() vect.Vector {
	v := vect.New(de.d)
	for j := 0; j < de.d; j++ {
		switch {
		case de.start != nil:
			v[j] = de.start[j] + (de.rng.Float64() - 0.5)
		case de.lower != nil && de.upper != nil:
			v[j] = de.lower[j] + de.rng.Float64()*(de.upper[j]-de.lower[j])
		default:
			v[j] = de.rng.Float64() - 0.5
		}
	}
	if de.lower != nil && de.upper != nil {
		vect.Clamp(v, de.lower, de.upper)
	}
	return v
}

// trialVector constructs the candidate vector for slot i from the
// previous generation, using the DE/best/2-style scheme when lambda is
// non-zero and DE/rand/1 otherwise, per spec §4.9.
func (de *DE) trialVector(i int) vect.Vector {
	idx := de.distinctIndices(3, i)
	r1, r2, r3 := idx[0], idx[1], idx[2]

	var v vect.Vector
	switch {
	case de.lambda != 0:
		diffBest := vect.Scale(vect.Sub(de.xPrev[de.bestIdx], de.xPrev[i]), de.lambda)
		diffRand := vect.Scale(vect.Sub(de.xPrev[r2], de.xPrev[r3]), de.F)
		v = vect.Add(de.xPrev[i], vect.Add(diffBest, diffRand))
	case de.F != 0:
		v = vect.Add(de.xPrev[r1], vect.Scale(vect.Sub(de.xPrev[r2], de.xPrev[r3]), de.F))
	default:
		v = de.xPrev[i].Clone()
	}

	if de.lower != nil && de.upper != nil {
		vect.Clamp(v, de.lower, de.upper)
	}
	return v
}

// distinctIndices draws n indices in [0, NP), pairwise distinct and
// distinct from exclude. Falls back to allowing repeats once the
// population is too small to supply n distinct candidates, since
// hyper-parameters only guarantee NP >= 3.
func (de *DE) distinctIndices(n int, exclude int) []int {
	seen := map[int]bool{exclude: true}
	out := make([]int, 0, n)
	budget := de.NP * de.NP
	for len(out) < n && budget > 0 {
		budget--
		r := de.rng.Intn(de.NP)
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	for len(out) < n {
		out = append(out, de.rng.Intn(de.NP))
	}
	return out
}

func (de *DE) Done() (method.Status, error) {
	if de.st == done {
		return method.StatusComplete, nil
	}
	return method.StatusContinue, nil
}

func (de *DE) Result(id string) (any, error) { return de.params.Get(id) }

func (de *DE) Close() error { return nil }
