// Package catalogue implements the method catalogue and loader (spec
// §4.1): a registry mapping method names to constructors, and a
// Catalogue type that enumerates entries under a root and instantiates
// the first matching, initializable provider.
//
// The default configuration is statically linked: every method package
// under internal/methods registers itself via an init() call to
// Register, mirroring the design note that dynamic providers remain an
// optional plug-in surface layered on top of a static default.
package catalogue

import (
	"fmt"
	"sort"

	"github.com/cwbudde/fnt/internal/diag"
	"github.com/cwbudde/fnt/internal/fnterr"
	"github.com/cwbudde/fnt/internal/method"
)

// maxNameLength bounds catalogue entry names, per spec §3.
const maxNameLength = 63

// Origin locates where a catalogue entry came from. The builtin root is
// the only populated root in this repository; Kind/Location exist so a
// future on-disk plug-in loader has a documented extension point.
type Origin struct {
	Kind     string
	Location string
}

// Entry is one (name, origin, Constructor) catalogue row.
type Entry struct {
	Name        string
	Origin      Origin
	Constructor method.Constructor
}

var builtinRegistry []Entry

// Register adds a statically-linked provider to the builtin root. It is
// intended to be called from the init() function of a method package.
// Panics if name exceeds the bounded catalogue name length, since that
// is a programmer error caught at init time, not a runtime input error.
func Register(name string, ctor method.Constructor) {
	if len(name) > maxNameLength {
		panic(fmt.Sprintf("catalogue: method name %q exceeds %d bytes", name, maxNameLength))
	}
	builtinRegistry = append(builtinRegistry, Entry{
		Name:        name,
		Origin:      Origin{Kind: "builtin", Location: "internal/methods"},
		Constructor: ctor,
	})
}

// Catalogue is an ordered, immutable-after-populate sequence of entries.
type Catalogue struct {
	root    string
	entries []Entry
	logger  *diag.Logger
}

// Populate enumerates method providers under root into a new Catalogue.
// The only recognized root in this repository is "builtin" (an empty
// root is treated the same); any other root is a resource error, since
// no on-disk loader is implemented. Entries without a Constructor are
// skipped with a warning.
func Populate(root string, logger *diag.Logger) (*Catalogue, error) {
	if logger == nil {
		logger = diag.New(diag.Default(), nil, nil)
	}

	if root != "builtin" && root != "" {
		return nil, fnterr.New(fnterr.Resource, fmt.Sprintf("unknown catalogue root %q", root))
	}

	entries := make([]Entry, 0, len(builtinRegistry))
	for _, e := range builtinRegistry {
		if e.Constructor == nil {
			logger.Warn("skipping catalogue entry with no Constructor", "name", e.Name)
			continue
		}
		entries = append(entries, e)
	}

	logger.Debug("catalogue populated", "root", root, "count", len(entries))

	return &Catalogue{root: root, entries: entries, logger: logger}, nil
}

// FromEntries builds a Catalogue directly from an explicit entry list,
// bypassing the global builtin registry. It exists for tests and for
// callers assembling a catalogue from a non-builtin source.
func FromEntries(entries []Entry, logger *diag.Logger) *Catalogue {
	if logger == nil {
		logger = diag.New(diag.Default(), nil, nil)
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return &Catalogue{root: "explicit", entries: out, logger: logger}
}

// Names returns every distinct method name in the catalogue, sorted, for
// display purposes (e.g. the CLI's "methods" command).
func (c *Catalogue) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range c.entries {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of the catalogue's entries, in registration
// order.
func (c *Catalogue) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Select scans the catalogue in order for the first entry named exactly
// name and instantiates it for d dimensions. If instantiation fails with
// a recoverable error, the scan continues to the next entry of the same
// name, per spec §4.1.
func (c *Catalogue) Select(name string, d int) (method.Method, error) {
	if d < 1 {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("dimension must be >= 1, got %d", d))
	}

	found := false
	for _, e := range c.entries {
		if e.Name != name {
			continue
		}
		found = true
		if e.Constructor == nil {
			continue
		}
		m, err := e.Constructor(d)
		if err != nil {
			c.logger.Debug("provider failed to instantiate, continuing scan", "name", name, "origin", e.Origin, "error", err)
			continue
		}
		return m, nil
	}

	if !found {
		return nil, fnterr.New(fnterr.InvalidArgument, fmt.Sprintf("no method named %q in catalogue", name))
	}
	return nil, fnterr.New(fnterr.Unsupported, fmt.Sprintf("no initializable provider named %q for %d dimensions", name, d))
}
