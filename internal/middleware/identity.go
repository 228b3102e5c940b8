package middleware

// identity.go is the Identity collaborator seen by handlers: JWTAuth
// stores the authenticated principal on the echo.Context and
// CurrentPrincipal reads it back.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

const principalKey = "principal"

func setPrincipal(c echo.Context, p model.Principal) {
    c.Set(principalKey, p)
    c.Set("user_id", strconv.FormatUint(p.UserID, 10))
    c.Set("role", string(p.Role))
}

// CurrentPrincipal returns the authenticated caller.  ok is false on
// routes not wrapped by JWTAuth.
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    return p, ok && p.UserID != 0
}

// userID returns the caller's ID as a string for rate-limit and log keys,
// or "anon" when nobody is authenticated.
func userID(c echo.Context) string {
    if p, ok := CurrentPrincipal(c); ok {
        return strconv.FormatUint(p.UserID, 10)
    }
    return "anon"
}
