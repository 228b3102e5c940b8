// Package queue carries booking lifecycle events over RabbitMQ: the
// publisher the booking engine notifies after each commit, and the
// audit consumer that appends them to a log file.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingEventsQueue is the durable queue both sides declare.
const BookingEventsQueue = "booking.events"

// Event types.
const (
    TypeBookingCreated       = "booking.created"
    TypeBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published after a booking is created or changes
// status.  It carries enough of the booking for consumers to log or
// notify without querying the database.
type BookingEvent struct {
    EventID      string `json:"event_id"`
    Type         string `json:"type"`
    BookingID    uint64 `json:"booking_id"`
    RoomID       uint64 `json:"room_id"`
    UserID       uint64 `json:"user_id"`
    CheckInDate  string `json:"check_in_date"`
    CheckOutDate string `json:"check_out_date"`
    Guests       int    `json:"guests"`
    TotalPrice   string `json:"total_price"`
    Status       string `json:"status"`
    FromStatus   string `json:"from_status,omitempty"`
    ActorID      uint64 `json:"actor_id,omitempty"`
    ActorRole    string `json:"actor_role,omitempty"`
    OccurredAt   string `json:"occurred_at"`
}

func newEvent(typ string, b model.Booking, at time.Time) BookingEvent {
    return BookingEvent{
        EventID:      uuid.NewString(),
        Type:         typ,
        BookingID:    b.ID,
        RoomID:       b.RoomID,
        UserID:       b.UserID,
        CheckInDate:  b.CheckIn.Format(model.DateLayout),
        CheckOutDate: b.CheckOut.Format(model.DateLayout),
        Guests:       b.Guests,
        TotalPrice:   b.TotalPriceCents.String(),
        Status:       string(b.Status),
        OccurredAt:   at.UTC().Format(time.RFC3339),
    }
}
