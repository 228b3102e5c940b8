package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// BookingEngine is the slice of *booking.Manager the HTTP layer uses.
type BookingEngine interface {
    CheckAvailability(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (booking.Availability, error)
    ComputePrice(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (booking.Quote, error)
    CreateBooking(ctx context.Context, in booking.CreateInput) (*model.Booking, error)
    TransitionStatus(ctx context.Context, bookingID uint64, next model.BookingStatus, by model.Principal) (*model.Booking, error)
    ListBookings(ctx context.Context, by model.Principal, f booking.ListFilter) ([]model.Booking, error)
    GetBooking(ctx context.Context, by model.Principal, bookingID uint64) (*model.Booking, error)
}

// BookingHandler exposes the booking engine to authenticated users.
// Every route expects JWTAuth to have run; the engine performs the
// ownership and privilege checks.  Rooms, when set, labels responses
// with the room number and type.
type BookingHandler struct {
    Engine BookingEngine
    Rooms  RoomCatalog
}

// NewBookingHandler constructs a BookingHandler and panics on a nil engine.
func NewBookingHandler(engine BookingEngine, rooms RoomCatalog) *BookingHandler {
    if engine == nil {
        panic("nil engine passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine, Rooms: rooms}
}

// Create handles POST /v1/bookings.  The booking is always created for
// the caller and starts unpaid.  Overlapping dates yield 409 with the
// conflicting booking IDs.
func (h *BookingHandler) Create(c echo.Context) error {
    p, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "unauthorized"})
    }
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "body", "invalid request body")
    }
    if err := c.Validate(&req); err != nil {
        return writeError(c, err)
    }
    in, _ := model.ParseDate(req.CheckInDate)
    out, _ := model.ParseDate(req.CheckOutDate)

    b, err := h.Engine.CreateBooking(c.Request().Context(), booking.CreateInput{
        RoomID:          req.RoomID,
        UserID:          p.UserID,
        CheckIn:         in,
        CheckOut:        out,
        Guests:          req.Guests,
        SpecialRequests: req.SpecialRequests,
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, bookingView(c.Request().Context(), h.Rooms, *b))
}

// List handles GET /v1/bookings: the caller's own bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
    return listBookings(c, h.Engine, h.Rooms)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    p, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return badRequest(c, "id", "invalid booking id")
    }
    b, err := h.Engine.GetBooking(c.Request().Context(), p, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, bookingView(c.Request().Context(), h.Rooms, *b))
}

// Confirm handles POST /v1/bookings/:id/confirm (payment confirmation).
func (h *BookingHandler) Confirm(c echo.Context) error {
    return transition(c, h.Engine, h.Rooms, model.StatusConfirmed)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
    return transition(c, h.Engine, h.Rooms, model.StatusCancelled)
}

// Availability handles GET /v1/rooms/:id/availability?check_in=&check_out=.
// The answer is advisory; creation re-checks under the room lock.
func (h *BookingHandler) Availability(c echo.Context) error {
    roomID, in, out, err := stayParams(c)
    if err != nil {
        return writeError(c, err)
    }
    a, err := h.Engine.CheckAvailability(c.Request().Context(), roomID, in, out)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, availabilityResponse{
        RoomID:                a.RoomID,
        CheckInDate:           a.CheckIn.Format(model.DateLayout),
        CheckOutDate:          a.CheckOut.Format(model.DateLayout),
        Available:             a.Available,
        ConflictingBookingIDs: a.ConflictIDs(),
    })
}

// Price handles GET /v1/rooms/:id/price?check_in=&check_out=.
func (h *BookingHandler) Price(c echo.Context) error {
    roomID, in, out, err := stayParams(c)
    if err != nil {
        return writeError(c, err)
    }
    q, err := h.Engine.ComputePrice(c.Request().Context(), roomID, in, out)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, quoteResponse{
        RoomID:       q.RoomID,
        CheckInDate:  in.Format(model.DateLayout),
        CheckOutDate: out.Format(model.DateLayout),
        Nights:       q.Nights,
        NightlyRate:  q.NightlyRate.String(),
        TotalPrice:   q.Total.String(),
    })
}

func transition(c echo.Context, engine BookingEngine, rooms RoomCatalog, next model.BookingStatus) error {
    p, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return badRequest(c, "id", "invalid booking id")
    }
    b, err := engine.TransitionStatus(c.Request().Context(), id, next, p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, bookingView(c.Request().Context(), rooms, *b))
}

func listBookings(c echo.Context, engine BookingEngine, rooms RoomCatalog) error {
    p, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "UNAUTHORIZED", "message": "unauthorized"})
    }
    var q listQuery
    if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
        return badRequest(c, "query", "invalid query parameters")
    }
    if err := c.Validate(&q); err != nil {
        return writeError(c, err)
    }
    bs, err := engine.ListBookings(c.Request().Context(), p, q.filter())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": bookingViews(c.Request().Context(), rooms, bs)})
}

func stayParams(c echo.Context) (uint64, time.Time, time.Time, error) {
    id, err := pathID(c)
    if err != nil {
        return 0, time.Time{}, time.Time{}, &booking.Error{
            Kind: booking.KindInvalidInput, Code: booking.CodeInvalidRequest,
            Message: "invalid room id", Fields: map[string]string{"id": "invalid room id"},
        }
    }
    var q stayQuery
    if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
        return 0, time.Time{}, time.Time{}, err
    }
    if err := c.Validate(&q); err != nil {
        return 0, time.Time{}, time.Time{}, err
    }
    in, _ := model.ParseDate(q.CheckIn)
    out, _ := model.ParseDate(q.CheckOut)
    return id, in, out, nil
}

func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, echo.ErrBadRequest
    }
    return id, nil
}
