package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomCatalog lists and fetches rooms.  Both the MySQL RoomRepo and the
// in-memory store satisfy it.
type RoomCatalog interface {
    GetRoom(ctx context.Context, roomID uint64) (*model.Room, error)
    ListRooms(ctx context.Context, onlyAvailable bool) ([]model.Room, error)
}

// RoomHandler serves the public room catalog.  Guests can browse rooms
// and their nightly rates without a token.
type RoomHandler struct {
    Rooms RoomCatalog
}

func NewRoomHandler(rooms RoomCatalog) *RoomHandler {
    return &RoomHandler{Rooms: rooms}
}

// List handles GET /v1/rooms.  Only rooms open for booking are returned.
func (h *RoomHandler) List(c echo.Context) error {
    return listRooms(c, h.Rooms, true)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return badRequest(c, "id", "invalid room id")
    }
    r, err := h.Rooms.GetRoom(c.Request().Context(), id)
    if err != nil {
        return writeError(c, roomLookupError(err, id))
    }
    return c.JSON(http.StatusOK, toRoomResponse(*r))
}

func listRooms(c echo.Context, rooms RoomCatalog, onlyAvailable bool) error {
    rs, err := rooms.ListRooms(c.Request().Context(), onlyAvailable)
    if err != nil {
        return writeError(c, roomLookupError(err, 0))
    }
    out := make([]roomResponse, 0, len(rs))
    for _, r := range rs {
        out = append(out, toRoomResponse(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// roomLookupError maps catalog errors onto the engine taxonomy.  The
// catalog is called directly here, outside the Manager.
func roomLookupError(err error, id uint64) error {
    if errors.Is(err, booking.ErrRoomNotFound) {
        return &booking.Error{
            Kind:    booking.KindNotFound,
            Code:    booking.CodeRoomNotFound,
            Message: "room " + strconv.FormatUint(id, 10) + " not found",
            Err:     err,
        }
    }
    return &booking.Error{
        Kind:    booking.KindUnavailable,
        Code:    booking.CodeStoreFailure,
        Message: "room catalog unavailable",
        Err:     err,
    }
}
