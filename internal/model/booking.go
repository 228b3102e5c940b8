package model

import "time"

// DateLayout is the wire and storage format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// Booking records a guest's stay in a room.  The stay covers the
// half-open interval [CheckIn, CheckOut): the guest leaves on the
// check-out date, so that night is free for the next booking.
//
// Fields:
//  ID              – primary key identifier.
//  RoomID          – booked room.
//  UserID          – user who made the booking.
//  CheckIn         – first night (UTC midnight).
//  CheckOut        – departure date, exclusive (UTC midnight).
//  Guests          – number of guests, always > 0.
//  TotalPriceCents – nightly base price × nights at creation time.
//  SpecialRequests – optional free text from the guest.
//  Status          – lifecycle status, see BookingStatus.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last status change.
type Booking struct {
    ID              uint64        // bookings.id
    RoomID          uint64        // bookings.room_id
    UserID          uint64        // bookings.user_id
    CheckIn         time.Time     // bookings.check_in_date
    CheckOut        time.Time     // bookings.check_out_date
    Guests          int           // bookings.guests
    TotalPriceCents Cents         // bookings.total_price
    SpecialRequests *string       // bookings.special_requests (nullable)
    Status          BookingStatus // bookings.status
    CreatedAt       time.Time     // bookings.created_at
    UpdatedAt       time.Time     // bookings.updated_at
}

// Nights returns the number of nights covered by the booking.
func (b Booking) Nights() int { return NightsBetween(b.CheckIn, b.CheckOut) }

// Overlaps reports whether the booking's stay intersects [in, out).
func (b Booking) Overlaps(in, out time.Time) bool {
	return RangesOverlap(b.CheckIn, b.CheckOut, in, out)
}

// RangesOverlap applies the half-open interval rule: [a1,a2) and
// [b1,b2) overlap iff NOT(a2 <= b1 OR a1 >= b2).
func RangesOverlap(a1, a2, b1, b2 time.Time) bool {
	return !(!a2.After(b1) || !a1.Before(b2))
}

const secondsPerDay = 24 * 60 * 60

// NightsBetween counts calendar days between two dates, ignoring the
// time of day.  The result is negative when out is before in.  Days are
// counted on Unix seconds because time.Duration saturates at ~292 years.
func NightsBetween(in, out time.Time) int {
	in, out = TruncateDate(in), TruncateDate(out)
	return int((out.Unix() - in.Unix()) / secondsPerDay)
}

// TruncateDate drops the clock part and normalizes to UTC midnight.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
