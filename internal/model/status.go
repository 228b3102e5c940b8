package model

import "fmt"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusUnpaid     BookingStatus = "unpaid"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// transitions is the complete table of legal status changes.  Anything
// not listed here is illegal, for admins too.
var transitions = map[BookingStatus][]BookingStatus{
	StatusUnpaid:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// BlockingStatuses lists the statuses that reserve a room against new
// overlapping bookings, in the order used for SQL IN clauses.
var BlockingStatuses = []BookingStatus{StatusUnpaid, StatusConfirmed, StatusCheckedIn}

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsBlocking reports whether a booking in s holds its room.
func (s BookingStatus) IsBlocking() bool {
	switch s {
	case StatusUnpaid, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

// CanTransitionTo reports whether s -> target is in the table.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Successors returns the statuses reachable from s in one step.
func (s BookingStatus) Successors() []BookingStatus {
	out := make([]BookingStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus converts a raw string into a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", s)
	}
	return st, nil
}
