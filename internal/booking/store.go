package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Catalog is the read-only room lookup.  GetRoom returns (or wraps)
// ErrRoomNotFound for unknown IDs.
type Catalog interface {
	GetRoom(ctx context.Context, roomID uint64) (*model.Room, error)
}

// Tx is the set of store operations available inside an atomic unit.
// Implementations must read their own uncommitted writes.
type Tx interface {
	FindBlockingBookings(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error)
	// InsertBooking persists b, fills in its ID and timestamps and
	// returns the assigned ID.
	InsertBooking(ctx context.Context, b *model.Booking) (uint64, error)
	// GetBooking reads the freshest state of a booking and, where the
	// store supports it, locks the row until the unit ends.
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error
}

// Store is the durable booking record.
//
// InRoomTx runs fn in a unit that excludes every other InRoomTx for the
// same room until it commits or rolls back; it fails with
// ErrRoomNotFound when the room does not exist.  InBookingTx does the
// same for a single booking.  Returning an error from fn rolls the unit
// back.  A failed commit must be reported as ErrCommitUncertain.
type Store interface {
	InRoomTx(ctx context.Context, roomID uint64, fn func(ctx context.Context, tx Tx) error) error
	InBookingTx(ctx context.Context, bookingID uint64, fn func(ctx context.Context, tx Tx) error) error

	FindBlockingBookings(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]model.Booking, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListBookings(ctx context.Context, f ListFilter) ([]model.Booking, error)
}

// ListFilter narrows ListBookings.  Zero values mean "any".
type ListFilter struct {
	UserID uint64
	RoomID uint64
	Status model.BookingStatus
	Limit  int
	Offset int
}

// Locker provides mutual exclusion keyed by an arbitrary string.  Lock
// blocks until the key is free or ctx is done; in the latter case it
// returns an error and no unlock func.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher receives lifecycle notifications after a unit commits.
// Publishing is best effort: failures are logged and never undo the
// committed change.
type EventPublisher interface {
	BookingCreated(ctx context.Context, b model.Booking) error
	BookingStatusChanged(ctx context.Context, b model.Booking, from model.BookingStatus, by model.Principal) error
}

// RoomLockKey is the lock key serializing admissions for a room.
func RoomLockKey(roomID uint64) string { return "room:" + uitoa(roomID) }

// BookingLockKey is the lock key serializing transitions of a booking.
func BookingLockKey(bookingID uint64) string { return "booking:" + uitoa(bookingID) }

type noopPublisher struct{}

func (noopPublisher) BookingCreated(context.Context, model.Booking) error { return nil }

func (noopPublisher) BookingStatusChanged(context.Context, model.Booking, model.BookingStatus, model.Principal) error {
	return nil
}
