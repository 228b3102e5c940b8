package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
)

// retryAfterSeconds is advertised on 503 responses for retryable kinds.
const retryAfterSeconds = 1

var kindStatus = map[booking.Kind]int{
    booking.KindInvalidInput:      http.StatusBadRequest,
    booking.KindNotFound:          http.StatusNotFound,
    booking.KindConflict:          http.StatusConflict,
    booking.KindIllegalTransition: http.StatusConflict,
    booking.KindForbidden:         http.StatusForbidden,
    booking.KindBusy:              http.StatusServiceUnavailable,
    booking.KindUnavailable:       http.StatusServiceUnavailable,
}

// writeError renders an engine error as JSON.  The body always carries
// "error" (the kind) and "message"; kind-specific details are added when
// present.  Errors that are not engine errors become a bare 500 so that
// internals never leak to clients.
func writeError(c echo.Context, err error) error {
    e := booking.AsError(err)
    if e == nil {
        c.Logger().Error(err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "INTERNAL", "message": "internal error"})
    }
    status, ok := kindStatus[e.Kind]
    if !ok {
        status = http.StatusInternalServerError
    }
    body := echo.Map{"error": string(e.Kind), "message": e.Message}
    if e.Code != "" {
        body["code"] = e.Code
    }
    if len(e.Fields) > 0 {
        body["fields"] = e.Fields
    }
    if len(e.ConflictIDs) > 0 {
        body["conflicting_booking_ids"] = e.ConflictIDs
    }
    if e.Status != "" {
        body["current_status"] = e.Status
    }
    if e.Role != "" {
        body["role"] = e.Role
    }
    if e.Kind.Retryable() {
        c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
    }
    return c.JSON(status, body)
}

// badRequest reports a malformed request before it reaches the engine.
func badRequest(c echo.Context, field, msg string) error {
    return writeError(c, &booking.Error{
        Kind:    booking.KindInvalidInput,
        Code:    booking.CodeInvalidRequest,
        Message: field + ": " + msg,
        Fields:  map[string]string{field: msg},
    })
}
