// Package driver implements the per-session host (spec §4.3): binding
// one method to a dimensionality, mediating configuration, pumping the
// next/set_value loop, tracking the best-seen point, and applying
// verbosity gating to diagnostics. The session owns its method instance
// exclusively; the method holds no reference back to the session,
// avoiding the cyclic reference the design notes call out.
package driver

import (
	"github.com/google/uuid"

	"github.com/cwbudde/fnt/internal/catalogue"
	"github.com/cwbudde/fnt/internal/diag"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
	"github.com/cwbudde/fnt/internal/rnd"
	"github.com/cwbudde/fnt/internal/vect"
)

// Session bundles the state described in spec §3: a selected method
// handle, the input dimensionality, best-seen tracking, verbosity, and a
// reference to the catalogue it was built from.
type Session struct {
	id  string
	cat *catalogue.Catalogue
	log *diag.Logger
	rng rnd.Source

	d  int
	m  method.Method
	mc bool // cached completion: once true, Next/SetValue are errors
	aw bool // awaiting a set_value to match the most recent next

	hasBest bool
	bestX   vect.Vector
	bestF   float64
}

// Open creates a session bound to the given catalogue, with the
// process-wide default verbosity and the process-wide shared random
// source (rnd.Global); SetSeed replaces it with a deterministic
// per-session source.
func Open(cat *catalogue.Catalogue) *Session {
	id := uuid.New().String()
	return &Session{
		id:  id,
		cat: cat,
		log: diag.New(diag.Default(), nil, nil),
		rng: rnd.Global(),
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string {
	return s.id
}

// SetVerbosity sets the session's diagnostic verbosity level.
func (s *Session) SetVerbosity(level diag.Level) {
	s.log.SetLevel(level)
}

// SetSeed installs a deterministic random source for methods that need
// one. It must be called before SelectMethod to take effect for that
// method instance.
func (s *Session) SetSeed(seed int64) {
	s.rng = rnd.New(seed)
}

// SelectMethod scans the session's catalogue for name and binds it for d
// dimensions, unbinding (and closing) any previously bound method first.
func (s *Session) SelectMethod(name string, d int) error {
	m, err := s.cat.Select(name, d)
	if err != nil {
		return err
	}

	if s.m != nil {
		s.log.Debug("unbinding previous method", "name", s.m.Name())
		_ = s.m.Close()
	}

	if rs, ok := m.(method.RandomSeeded); ok {
		rs.SetRandom(s.rng)
	}
	if ls, ok := m.(method.LoggerSetter); ok {
		ls.SetLogger(s.log)
	}

	s.m = m
	s.d = d
	s.mc = false
	s.aw = false
	s.hasBest = false
	s.bestX = nil
	s.bestF = 0

	s.log.Info("method selected", "name", name, "dimensions", d)
	return nil
}

// MethodInfo returns the bound method's human-readable description, if
// it implements Informer.
func (s *Session) MethodInfo() (string, error) {
	if err := s.requireBound(); err != nil {
		return "", err
	}
	informer, ok := s.m.(method.Informer)
	if !ok {
		return "", fnterr.New(fnterr.Unsupported, "method does not implement Info")
	}
	return informer.Info()
}

// HParamSet sets a named hyper-parameter on the bound method.
func (s *Session) HParamSet(id string, value any) error {
	if err := s.requireBound(); err != nil {
		return err
	}
	setter, ok := s.m.(method.HParamSetter)
	if !ok {
		return fnterr.New(fnterr.Unsupported, "method does not support hyper-parameters")
	}
	return setter.HParamSet(id, value)
}

// HParamGet reads a named hyper-parameter from the bound method.
func (s *Session) HParamGet(id string) (any, error) {
	if err := s.requireBound(); err != nil {
		return nil, err
	}
	getter, ok := s.m.(method.HParamGetter)
	if !ok {
		return nil, fnterr.New(fnterr.Unsupported, "method does not support hyper-parameters")
	}
	return getter.HParamGet(id)
}

// Seed supplies an initial input point to the bound method. The method
// itself enforces that this is only valid in its initial mode; the
// driver forwards blindly, per spec §4.3.
func (s *Session) Seed(v vect.Vector) error {
	if err := s.requireBound(); err != nil {
		return err
	}
	seeder, ok := s.m.(method.Seeder)
	if !ok {
		return fnterr.New(fnterr.Unsupported, "method does not support seeding")
	}
	return seeder.Seed(v)
}

// Next produces the next input vector to evaluate. A method may not be
// re-entered: calling Next twice without an intervening SetValue (or
// SetValueWithGradient) is a contract violation and returns a state
// error, per spec §5's re-entrancy rule.
func (s *Session) Next() (vect.Vector, error) {
	if err := s.requireBound(); err != nil {
		return nil, err
	}
	if s.mc {
		return nil, fnterr.New(fnterr.StateViolation, "next called after done reported complete")
	}
	if s.aw {
		return nil, fnterr.New(fnterr.StateViolation, "next called twice without an intervening set_value")
	}

	out := vect.New(s.d)
	if err := s.m.Next(out); err != nil {
		return nil, err
	}
	s.aw = true
	return out, nil
}

// SetValue records f(v) = fv and updates best-seen tracking.
func (s *Session) SetValue(v vect.Vector, fv float64) error {
	if err := s.requireBound(); err != nil {
		return err
	}
	if s.mc {
		return fnterr.New(fnterr.StateViolation, "set_value called after done reported complete")
	}

	if err := s.m.SetValue(v, fv); err != nil {
		return err
	}
	s.aw = false
	s.updateBest(v, fv)
	return nil
}

// SetValueWithGradient records f(v) = fv with gradient g. If the bound
// method does not implement GradientSetter, the driver falls back to
// SetValue and drops the gradient, per spec §4.2.
func (s *Session) SetValueWithGradient(v vect.Vector, fv float64, g vect.Vector) error {
	if err := s.requireBound(); err != nil {
		return err
	}
	if s.mc {
		return fnterr.New(fnterr.StateViolation, "set_value called after done reported complete")
	}

	gs, ok := s.m.(method.GradientSetter)
	if !ok {
		s.log.Debug("method lacks gradient capability, falling back to set_value")
		if err := s.m.SetValue(v, fv); err != nil {
			return err
		}
		s.aw = false
		s.updateBest(v, fv)
		return nil
	}

	if err := gs.SetValueWithGradient(v, fv, g); err != nil {
		return err
	}
	s.aw = false
	s.updateBest(v, fv)
	return nil
}

// Done reports whether the bound method has finished.
func (s *Session) Done() (method.Status, error) {
	if err := s.requireBound(); err != nil {
		return method.StatusContinue, err
	}
	status, err := s.m.Done()
	if err != nil {
		return status, err
	}
	if status == method.StatusComplete {
		s.mc = true
	}
	return status, nil
}

// Best returns the best-seen input and value observed so far, and
// whether any value has been observed at all.
func (s *Session) Best() (vect.Vector, float64, bool) {
	if !s.hasBest {
		return nil, 0, false
	}
	return s.bestX.Clone(), s.bestF, true
}

// Result retrieves a named result from the bound method. It is an error
// unless Done has most recently reported StatusComplete.
func (s *Session) Result(id string) (any, error) {
	if err := s.requireBound(); err != nil {
		return nil, err
	}
	if !s.mc {
		return nil, fnterr.New(fnterr.NotReady, "result requested before done reported complete")
	}
	resulter, ok := s.m.(method.Resulter)
	if !ok {
		return nil, fnterr.New(fnterr.Unsupported, "method does not produce named results")
	}
	return resulter.Result(id)
}

// Close releases all method-owned resources. It is safe to call multiple
// times.
func (s *Session) Close() error {
	if s.m == nil {
		return nil
	}
	err := s.m.Close()
	s.m = nil
	return err
}

func (s *Session) requireBound() error {
	if s.m == nil {
		return fnterr.New(fnterr.StateViolation, "no method selected on this session")
	}
	return nil
}

func (s *Session) updateBest(v vect.Vector, fv float64) {
	if !s.hasBest || fv < s.bestF {
		s.bestX = v.Clone()
		s.bestF = fv
		s.hasBest = true
	}
}
