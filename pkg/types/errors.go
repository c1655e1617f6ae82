package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat     ErrKind = iota // malformed store or batch file
	ErrKindNotFound                  // missing node, position or id
	ErrKindConflict                  // two primitives on one target cannot be merged
	ErrKindConstraint                // a primitive's precondition does not hold at check time
	ErrKindState                     // invalid operation for current lifecycle state
)

// String returns the category name.
func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindNotFound:
		return "not found"
	case ErrKindConflict:
		return "conflict"
	case ErrKindConstraint:
		return "constraint"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This lets callers
// test a detailed error against the category sentinels below:
//
//	if errors.Is(err, types.ErrConflict) { ... }
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil || e == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrFormat indicates a store snapshot or batch document could not be decoded.
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "malformed input"}
	// ErrNotFound indicates a missing node, position or id.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrConflict indicates two primitives of one kind on one target cannot be combined.
	ErrConflict = &Error{Kind: ErrKindConflict, Msg: "conflicting update primitives"}
	// ErrConstraint indicates a primitive's precondition no longer holds.
	ErrConstraint = &Error{Kind: ErrKindConstraint, Msg: "update constraint violated"}
	// ErrState indicates the operation is not valid in the current lifecycle state.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid state"}
)

// Conflict returns a conflict error with a specific message.
func Conflict(msg string) error {
	return &Error{Kind: ErrKindConflict, Msg: msg}
}

// Constraint returns a constraint violation with a specific message.
func Constraint(msg string) error {
	return &Error{Kind: ErrKindConstraint, Msg: msg}
}

// State returns a lifecycle state error with a specific message.
func State(msg string) error {
	return &Error{Kind: ErrKindState, Msg: msg}
}

// Format returns a format error wrapping cause.
func Format(msg string, cause error) error {
	return &Error{Kind: ErrKindFormat, Msg: msg, Err: cause}
}
