// Package fnterr defines the error taxonomy shared by the driver and
// every method: a small set of error kinds, plus a typed Error that
// wraps an optional cause, following the store.NotFoundError pattern of
// exposing errors.Is-compatible sentinels rather than bare strings.
package fnterr

import "fmt"

// Kind enumerates the error taxonomy described by the driver's error
// handling design.
type Kind int

const (
	// InvalidArgument covers null/malformed input, non-positive
	// dimension, unknown configuration name, or wrong value type.
	InvalidArgument Kind = iota
	// Unsupported covers a capability the active method does not
	// expose, or a method unsuitable for the requested dimensionality.
	Unsupported
	// NotReady covers result-before-done or seed-after-initial.
	NotReady
	// StateViolation covers next/set_value calls after completion, or
	// any other out-of-order protocol transition.
	StateViolation
	// BracketInvalid covers root finders whose endpoints fail to
	// bracket a sign change.
	BracketInvalid
	// NumericalSingularity covers a derivative/secant denominator
	// under the protection threshold.
	NumericalSingularity
	// BudgetExhausted covers an iteration cap reached as a completion
	// reason rather than a hard failure.
	BudgetExhausted
	// Resource covers allocation or catalogue-enumeration failures.
	Resource
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case Unsupported:
		return "unsupported"
	case NotReady:
		return "not-ready"
	case StateViolation:
		return "state-violation"
	case BracketInvalid:
		return "bracket-invalid"
	case NumericalSingularity:
		return "numerical-singularity"
	case BudgetExhausted:
		return "budget-exhausted"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is the typed error returned across the driver/method boundary.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can check errors.Is(err, fnterr.New(fnterr.NotReady, "")) or, more
// idiomatically, compare the Kind returned by Of(err) with fnterr.NotReady.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error wrapping cause with additional context.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Of extracts the Kind of err if it is (or wraps) an *Error, along with
// whether extraction succeeded.
func Of(err error) (Kind, bool) {
	var fe *Error
	if as(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// as is a narrow errors.As to avoid importing errors just for this.
func as(err error, target **Error) bool {
	for err != nil {
		if fe, ok := err.(*Error); ok {
			*target = fe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
