// Package method defines the uniform capability contract every
// numerical method implements (spec §4.2). The required surface is the
// Method interface; optional capabilities are modeled as narrow
// interfaces a concrete method may additionally satisfy, following the
// "accept interfaces" idiom rather than a dynamically-typed vtable.
package method

import (
	"github.com/cwbudde/fnt/internal/diag"
	"github.com/cwbudde/fnt/internal/rnd"
	"github.com/cwbudde/fnt/internal/vect"
)

// Status reports whether a method instance has more work to do.
type Status int

const (
	// StatusContinue means the method has not yet converged or
	// exhausted its iteration budget.
	StatusContinue Status = iota
	// StatusComplete means the method is done; Next and SetValue are
	// errors from this point on, and Result becomes valid.
	StatusComplete
)

func (s Status) String() string {
	if s == StatusComplete {
		return "complete"
	}
	return "continue"
}

// Method is the required capability surface of every numerical method.
// A Method value is produced by a Constructor and is bound to a fixed
// dimensionality for its entire lifetime.
type Method interface {
	// Name returns the method's canonical catalogue name.
	Name() string

	// Next produces the next input vector to evaluate, writing into out.
	// It must fail once Done reports StatusComplete.
	Next(out vect.Vector) error

	// SetValue records f(v) = fv and advances the internal state machine
	// by one step.
	SetValue(v vect.Vector, fv float64) error

	// Done reports whether the method has finished.
	Done() (Status, error)

	// Close releases all method-owned state. It is safe to call Close
	// at any point in the method's lifecycle, including before Done
	// reports StatusComplete.
	Close() error
}

// Constructor allocates a new Method instance for the given input
// dimensionality. It returns an error if the method cannot operate at
// that dimensionality (e.g. a single-variate method asked for d > 1).
type Constructor func(d int) (Method, error)

// Informer is an optional capability: a human-readable description of a
// method's hyper-parameters, results, and references.
type Informer interface {
	Info() (string, error)
}

// HParamSetter is an optional capability: typed, name-keyed
// configuration. Structural hyper-parameters may reshape internal
// buffers; value types are method-defined (float64, vect.Vector, int).
type HParamSetter interface {
	HParamSet(id string, value any) error
}

// HParamGetter is the read side of HParamSetter.
type HParamGetter interface {
	HParamGet(id string) (any, error)
}

// Seeder is an optional capability: supplying an initial input point.
// Implementations must reject Seed calls outside their "initial" mode.
type Seeder interface {
	Seed(v vect.Vector) error
}

// GradientSetter is an optional capability for methods that can exploit
// a gradient alongside the observed value (e.g. Newton-Raphson). When a
// method does not implement GradientSetter, the driver falls back to
// SetValue and drops the gradient.
type GradientSetter interface {
	SetValueWithGradient(v vect.Vector, fv float64, g vect.Vector) error
}

// Resulter is an optional capability: named typed results, valid only
// once Done reports StatusComplete.
type Resulter interface {
	Result(id string) (any, error)
}

// RandomSeeded is an optional capability for methods that need a
// pseudo-random source (differential evolution, the bonus mayfly
// plug-in). The driver injects its per-session source immediately after
// construction, per the "Randomness" design note.
type RandomSeeded interface {
	SetRandom(src rnd.Source)
}

// LoggerSetter is an optional capability for methods that report
// non-fatal diagnostics on their own initiative (a misconfigured
// hyper-parameter repaired with a warning, per spec §7) rather than only
// through errors returned from HParamSet/SetValue. The driver injects
// its per-session logger immediately after construction, the same way
// it injects RandomSeeded's random source.
type LoggerSetter interface {
	SetLogger(log *diag.Logger)
}
