package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Availability is the result of CheckAvailability.  Conflicts holds the
// blocking bookings that overlap the requested range; it is empty when
// Available is true.
type Availability struct {
	RoomID    uint64
	CheckIn   time.Time
	CheckOut  time.Time
	Available bool
	Conflicts []model.Booking
}

// ConflictIDs returns the IDs of the conflicting bookings.
func (a Availability) ConflictIDs() []uint64 {
	ids := make([]uint64, 0, len(a.Conflicts))
	for _, b := range a.Conflicts {
		ids = append(ids, b.ID)
	}
	return ids
}

// CheckAvailability reports whether [checkIn, checkOut) is free for the
// room.  It is read-only; CreateBooking repeats the same check inside its
// room-scoped unit, so a positive answer here is advisory.
func (m *Manager) CheckAvailability(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (Availability, error) {
	checkIn, checkOut = model.TruncateDate(checkIn), model.TruncateDate(checkOut)
	if err := validateRange(roomID, checkIn, checkOut); err != nil {
		return Availability{}, err
	}
	if _, err := m.catalog.GetRoom(ctx, roomID); err != nil {
		return Availability{}, m.translate(err, "check availability")
	}
	found, err := m.store.FindBlockingBookings(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return Availability{}, m.translate(err, "check availability")
	}
	conflicts := filterConflicts(found, checkIn, checkOut)
	return Availability{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// filterConflicts re-applies the overlap rule to whatever the store
// returned, so a store that over-selects cannot cause a false conflict.
func filterConflicts(bookings []model.Booking, checkIn, checkOut time.Time) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.IsBlocking() && b.Overlaps(checkIn, checkOut) {
			out = append(out, b)
		}
	}
	return out
}

func validateRange(roomID uint64, checkIn, checkOut time.Time) error {
	ie := newInputError()
	if roomID == 0 {
		ie.add(CodeInvalidRequest, "room_id", "must be a positive integer")
	}
	if checkIn.IsZero() {
		ie.add(CodeInvalidRange, "check_in_date", "is required")
	}
	if checkOut.IsZero() {
		ie.add(CodeInvalidRange, "check_out_date", "is required")
	}
	if !checkIn.IsZero() && !checkOut.IsZero() {
		switch nights := model.NightsBetween(checkIn, checkOut); {
		case nights < 1:
			ie.add(CodeInvalidRange, "check_out_date", "must be after check_in_date")
		case nights > MaxStayNights:
			ie.add(CodeInvalidRange, "check_out_date", "stay may not exceed "+strconv.Itoa(MaxStayNights)+" nights")
		}
	}
	return ie.err()
}

func uitoa(v uint64) string { return strconv.FormatUint(v, 10) }
