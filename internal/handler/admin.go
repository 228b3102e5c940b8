package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// AdminHandler exposes staff operations: any status change allowed by
// the lifecycle (including check-in and check-out), listings across all
// guests and the full room inventory.  Routes are mounted behind
// RequireRole(ADMIN); the engine checks the role again.
type AdminHandler struct {
    Engine BookingEngine
    Rooms  RoomCatalog
}

func NewAdminHandler(engine BookingEngine, rooms RoomCatalog) *AdminHandler {
    if engine == nil || rooms == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Engine: engine, Rooms: rooms}
}

// ListBookings handles GET /v1/admin/bookings?user_id=&room_id=&status=.
func (h *AdminHandler) ListBookings(c echo.Context) error {
    return listBookings(c, h.Engine, h.Rooms)
}

// GetBooking handles GET /v1/admin/bookings/:id.
func (h *AdminHandler) GetBooking(c echo.Context) error {
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

// UpdateStatus handles PUT /v1/admin/bookings/:id with {"status": "..."}.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
    var req statusRequest
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "body", "invalid request body")
    }
    if err := c.Validate(&req); err != nil {
        return writeError(c, err)
    }
    return transition(c, h.Engine, h.Rooms, model.BookingStatus(req.Status))
}

// ListRooms handles GET /v1/admin/rooms, including rooms under
// maintenance.
func (h *AdminHandler) ListRooms(c echo.Context) error {
    return listRooms(c, h.Rooms, false)
}
