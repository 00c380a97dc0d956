package merge

import (
	"errors"
	"fmt"

	"github.com/roach88/usagelog/internal/usage"
)

// ErrorCode categorizes merge errors.
type ErrorCode string

const (
	// ErrCodeNilArgument indicates a nil record, element or collection argument.
	ErrCodeNilArgument ErrorCode = "NIL_ARGUMENT"

	// ErrCodeNotMergeable indicates Merge was called on records with different identity.
	ErrCodeNotMergeable ErrorCode = "NOT_MERGEABLE"
)

// MergeError reports a caller bug detected by a merger or by the collection helpers.
// Both codes are unrecoverable at this layer.
type MergeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failing operation ("IsMergeable", "Merge", "MergeInto", ...).
	Op string

	// Kind is the record kind, when known.
	Kind usage.Kind

	// Message is a human-readable description.
	Message string
}

// Sentinels for errors.Is. Matching compares the Code only.
var (
	ErrNilArgument  = &MergeError{Code: ErrCodeNilArgument, Message: "nil argument"}
	ErrNotMergeable = &MergeError{Code: ErrCodeNotMergeable, Message: "records are not mergeable"}
)

// Error implements the error interface.
func (e *MergeError) Error() string {
	switch {
	case e.Op != "" && e.Kind != "":
		return fmt.Sprintf("%s: %s (op=%s, kind=%s)", e.Code, e.Message, e.Op, e.Kind)
	case e.Op != "":
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Is reports whether target is a MergeError with the same code.
func (e *MergeError) Is(target error) bool {
	t, ok := target.(*MergeError)
	return ok && t.Code == e.Code
}

// IsNilArgument returns true if err is (or wraps) a nil-argument error.
func IsNilArgument(err error) bool {
	return errors.Is(err, ErrNilArgument)
}

// IsNotMergeable returns true if err is (or wraps) a not-mergeable error.
func IsNotMergeable(err error) bool {
	return errors.Is(err, ErrNotMergeable)
}

func nilArgument(op string, kind usage.Kind, what string) *MergeError {
	return &MergeError{
		Code:    ErrCodeNilArgument,
		Op:      op,
		Kind:    kind,
		Message: what + " must not be nil",
	}
}

func notMergeable(kind usage.Kind) *MergeError {
	return &MergeError{
		Code:    ErrCodeNotMergeable,
		Op:      "Merge",
		Kind:    kind,
		Message: "records do not share an identity",
	}
}
