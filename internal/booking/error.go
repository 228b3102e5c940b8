package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Kind classifies an engine failure.  Callers branch on the kind; the
// code only refines the message.
type Kind string

const (
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindIllegalTransition Kind = "ILLEGAL_TRANSITION"
	KindForbidden         Kind = "FORBIDDEN"
	KindBusy              Kind = "BUSY"
	KindUnavailable       Kind = "UNAVAILABLE"
)

// Retryable reports whether a request failing with k may succeed if
// repeated unchanged.
func (k Kind) Retryable() bool { return k == KindBusy || k == KindUnavailable }

// Error is the only error type returned across the engine boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields holds per-field problems for KindInvalidInput.
	Fields map[string]string
	// ConflictIDs lists the bookings blocking the requested range.
	ConflictIDs []uint64
	// Status is the booking's current status for IllegalTransition.
	Status model.BookingStatus
	// Role is the caller's role for Forbidden.
	Role model.Role
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Code != "" {
		b.WriteString("/")
		b.WriteString(e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Code too when the target sets one, so that
// errors.Is(err, ErrConflict) and errors.Is(err, ErrInvalidRange) both
// work against constructed errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Kind sentinels for errors.Is.
var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrIllegalTransition = &Error{Kind: KindIllegalTransition}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrBusy              = &Error{Kind: KindBusy}
	ErrUnavailable       = &Error{Kind: KindUnavailable}

	ErrInvalidRange = &Error{Kind: KindInvalidInput, Code: CodeInvalidRange}
)

// Codes.
const (
	CodeInvalidRange    = "INVALID_RANGE"
	CodeInvalidGuests   = "INVALID_GUESTS"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeRateNotFound    = "RATE_NOT_FOUND"
	CodeBookingNotFound = "BOOKING_NOT_FOUND"
	CodeRoomUnavailable = "ROOM_UNAVAILABLE"
	CodeLockTimeout     = "LOCK_TIMEOUT"
	CodeStoreFailure    = "STORE_FAILURE"
)

// Store-side sentinels.  Store and Catalog implementations return (or
// wrap) these; the Manager translates them into *Error values.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	// ErrContention means the store gave up waiting for a row lock or
	// aborted the unit because of a deadlock.
	ErrContention = errors.New("store contention")
	// ErrCommitUncertain means the commit was sent but its outcome is
	// unknown, e.g. the connection dropped mid-commit.
	ErrCommitUncertain = errors.New("commit outcome unknown")
)

// AsError returns the *Error in err's chain, or nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the kind of err, or "" when err is not an engine error.
func KindOf(err error) Kind {
	if e := AsError(err); e != nil {
		return e.Kind
	}
	return ""
}

type inputError struct {
	code   string
	fields map[string]string
}

func newInputError() *inputError {
	return &inputError{fields: make(map[string]string)}
}

func (ie *inputError) add(code, field, msg string) {
	if ie.code == "" {
		ie.code = code
	}
	if _, ok := ie.fields[field]; !ok {
		ie.fields[field] = msg
	}
}

func (ie *inputError) err() error {
	if len(ie.fields) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(ie.fields))
	for f, m := range ie.fields {
		msgs = append(msgs, f+": "+m)
	}
	sort.Strings(msgs)
	return &Error{
		Kind:    KindInvalidInput,
		Code:    ie.code,
		Message: strings.Join(msgs, "; "),
		Fields:  ie.fields,
	}
}

func conflictError(conflicts []model.Booking) error {
	ids := make([]uint64, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return &Error{
		Kind:        KindConflict,
		Code:        CodeRoomUnavailable,
		Message:     fmt.Sprintf("room is already booked for the selected dates by %v", ids),
		ConflictIDs: ids,
	}
}
