package method

import (
	"fmt"

	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/vect"
)

// Registry is a name-keyed typed getter/setter table (spec component F).
// Each method instance builds one to expose its recognized
// hyper-parameters and results without resorting to a dynamically-typed
// property bag; an unknown name is always an invalid-argument error.
type Registry struct {
	order   []string
	entries map[string]regEntry
}

type regEntry struct {
	get func() (any, error)
	set func(any) error // nil for read-only (result) entries
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]regEntry)}
}

// Float registers a float64-typed read/write entry.
func (r *Registry) Float(name string, get func() float64, set func(float64) error) {
	r.add(name, func() (any, error) { return get(), nil }, func(v any) error {
		f, ok := asFloat(v)
		if !ok {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("hyper-parameter %q expects a float64", name))
		}
		return set(f)
	})
}

// Int registers an int-typed read/write entry.
func (r *Registry) Int(name string, get func() int, set func(int) error) {
	r.add(name, func() (any, error) { return get(), nil }, func(v any) error {
		i, ok := v.(int)
		if !ok {
			return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("hyper-parameter %q expects an int", name))
		}
		return set(i)
	})
}

// Vector registers a vect.Vector-typed read/write entry.
func (r *Registry) Vector(name string, get func() vect.Vector, set func(vect.Vector) error) {
	r.add(name, func() (any, error) { return get(), nil }, func(v any) error {
		vv, ok := v.(vect.Vector)
		if !ok {
			if s, ok2 := v.([]float64); ok2 {
				vv = vect.FromSlice(s)
			} else {
				return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("hyper-parameter %q expects a vector", name))
			}
		}
		return set(vv)
	})
}

// Result registers a read-only entry of any type, for result lookups.
func (r *Registry) Result(name string, get func() (any, error)) {
	r.add(name, get, nil)
}

func (r *Registry) add(name string, get func() (any, error), set func(any) error) {
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = regEntry{get: get, set: set}
}

// Get retrieves the current value of a registered name.
func (r *Registry) Get(name string) (any, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("no hyper-parameter or result named %q", name))
	}
	return e.get()
}

// Set assigns a value to a registered name.
func (r *Registry) Set(name string, value any) error {
	e, ok := r.entries[name]
	if !ok {
		return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("no hyper-parameter named %q", name))
	}
	if e.set == nil {
		return fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("%q is read-only", name))
	}
	return e.set(value)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}
