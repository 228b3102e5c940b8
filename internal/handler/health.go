package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
    Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

const readyTimeout = 2 * time.Second

// Health is the liveness probe.  It only proves the process is serving.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready is the readiness probe.  It pings every named dependency and
// reports 503 if any of them fails.
func Ready(deps map[string]Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
        defer cancel()

        checks := make(map[string]string, len(deps))
        status := http.StatusOK
        for name, p := range deps {
            if err := p.Ping(ctx); err != nil {
                checks[name] = err.Error()
                status = http.StatusServiceUnavailable
                continue
            }
            checks[name] = "ok"
        }
        return c.JSON(status, echo.Map{"status": http.StatusText(status), "checks": checks})
    }
}
