package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated principal has one of the specified roles.  It must run
// after JWTAuth.  Requests without a principal or with another role are
// aborted with 403 Forbidden.  Ownership checks stay in the booking
// engine; this only gates whole route groups such as /v1/admin.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := CurrentPrincipal(c)
            if !ok || !allowed[p.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "FORBIDDEN", "message": "insufficient role"})
            }
            return next(c)
        }
    }
}
