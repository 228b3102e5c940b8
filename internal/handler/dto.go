package handler

import (
    "context"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// createBookingRequest is the body of POST /v1/bookings.  Guests is
// checked by the engine so that a zero count reports INVALID_GUESTS.
type createBookingRequest struct {
    RoomID          uint64 `json:"room_id" validate:"required"`
    CheckInDate     string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
    CheckOutDate    string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
    Guests          int    `json:"guests"`
    SpecialRequests string `json:"special_requests" validate:"max=1000"`
}

// statusRequest is the body of PUT /v1/admin/bookings/:id.
type statusRequest struct {
    Status string `json:"status" validate:"required,oneof=unpaid confirmed checked_in checked_out cancelled"`
}

// stayQuery holds the date range of availability and price lookups.
type stayQuery struct {
    CheckIn  string `query:"check_in" validate:"required,datetime=2006-01-02"`
    CheckOut string `query:"check_out" validate:"required,datetime=2006-01-02"`
}

// listQuery holds the filters of the booking listings.  UserID is only
// honoured for admins.
type listQuery struct {
    UserID uint64 `query:"user_id"`
    RoomID uint64 `query:"room_id"`
    Status string `query:"status" validate:"omitempty,oneof=unpaid confirmed checked_in checked_out cancelled"`
    Limit  int    `query:"limit"`
    Offset int    `query:"offset"`
}

func (q listQuery) filter() booking.ListFilter {
    return booking.ListFilter{
        UserID: q.UserID,
        RoomID: q.RoomID,
        Status: model.BookingStatus(q.Status),
        Limit:  q.Limit,
        Offset: q.Offset,
    }
}

type bookingResponse struct {
    ID              uint64    `json:"id"`
    RoomID          uint64    `json:"room_id"`
    RoomNumber      string    `json:"room_number,omitempty"`
    RoomTypeName    string    `json:"room_type_name,omitempty"`
    UserID          uint64    `json:"user_id"`
    CheckInDate     string    `json:"check_in_date"`
    CheckOutDate    string    `json:"check_out_date"`
    Nights          int       `json:"nights"`
    Guests          int       `json:"guests"`
    TotalPrice      string    `json:"total_price"`
    SpecialRequests *string   `json:"special_requests,omitempty"`
    Status          string    `json:"status"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}

func toBookingResponse(b model.Booking) bookingResponse {
    return bookingResponse{
        ID:              b.ID,
        RoomID:          b.RoomID,
        UserID:          b.UserID,
        CheckInDate:     b.CheckIn.Format(model.DateLayout),
        CheckOutDate:    b.CheckOut.Format(model.DateLayout),
        Nights:          b.Nights(),
        Guests:          b.Guests,
        TotalPrice:      b.TotalPriceCents.String(),
        SpecialRequests: b.SpecialRequests,
        Status:          string(b.Status),
        CreatedAt:       b.CreatedAt,
        UpdatedAt:       b.UpdatedAt,
    }
}

func toBookingResponses(bs []model.Booking) []bookingResponse {
    out := make([]bookingResponse, 0, len(bs))
    for _, b := range bs {
        out = append(out, toBookingResponse(b))
    }
    return out
}

func (r bookingResponse) withRoom(room *model.Room) bookingResponse {
    if room != nil {
        r.RoomNumber = room.RoomNumber
        r.RoomTypeName = room.RoomTypeName
    }
    return r
}

// bookingView labels a booking with its room.  A catalog failure leaves
// the labels empty; the booking is still returned.
func bookingView(ctx context.Context, rooms RoomCatalog, b model.Booking) bookingResponse {
    out := toBookingResponse(b)
    if rooms == nil {
        return out
    }
    room, err := rooms.GetRoom(ctx, b.RoomID)
    if err != nil {
        return out
    }
    return out.withRoom(room)
}

// bookingViews labels a listing with one catalog read.
func bookingViews(ctx context.Context, rooms RoomCatalog, bs []model.Booking) []bookingResponse {
    out := toBookingResponses(bs)
    if rooms == nil || len(bs) == 0 {
        return out
    }
    rs, err := rooms.ListRooms(ctx, false)
    if err != nil {
        return out
    }
    byID := make(map[uint64]*model.Room, len(rs))
    for i := range rs {
        byID[rs[i].ID] = &rs[i]
    }
    for i, b := range bs {
        out[i] = out[i].withRoom(byID[b.RoomID])
    }
    return out
}

type roomResponse struct {
    ID           uint64  `json:"id"`
    RoomNumber   string  `json:"room_number"`
    Floor        int     `json:"floor"`
    RoomTypeID   uint64  `json:"room_type_id"`
    RoomTypeName string  `json:"room_type_name"`
    Description  *string `json:"room_type_description"`
    BasePrice    *string `json:"base_price"`
    IsAvailable  bool    `json:"is_available"`
}

func toRoomResponse(r model.Room) roomResponse {
    out := roomResponse{
        ID:           r.ID,
        RoomNumber:   r.RoomNumber,
        Floor:        r.Floor,
        RoomTypeID:   r.RoomTypeID,
        RoomTypeName: r.RoomTypeName,
        Description:  r.RoomTypeDescription,
        IsAvailable:  r.IsAvailable,
    }
    if r.HasRate {
        p := r.BasePriceCents.String()
        out.BasePrice = &p
    }
    return out
}

type availabilityResponse struct {
    RoomID                uint64   `json:"room_id"`
    CheckInDate           string   `json:"check_in_date"`
    CheckOutDate          string   `json:"check_out_date"`
    Available             bool     `json:"available"`
    ConflictingBookingIDs []uint64 `json:"conflicting_booking_ids"`
}

type quoteResponse struct {
    RoomID       uint64 `json:"room_id"`
    CheckInDate  string `json:"check_in_date"`
    CheckOutDate string `json:"check_out_date"`
    Nights       int    `json:"nights"`
    NightlyRate  string `json:"nightly_rate"`
    TotalPrice   string `json:"total_price"`
}
