package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
    "go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// AccessLog assigns a request ID (reusing the caller's when present),
// and after the handler runs writes one logrus entry per request with
// the method, path, status, latency and trace ID.
func AccessLog(log logrus.FieldLogger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()

            rid := req.Header.Get(RequestIDHeader)
            if _, err := uuid.Parse(rid); err != nil {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(RequestIDHeader, rid)

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            fields := logrus.Fields{
                "type":       "access",
                "request_id": rid,
                "method":     req.Method,
                "path":       req.URL.Path,
                "route":      c.Path(),
                "status":     c.Response().Status,
                "latency":    time.Since(start).String(),
                "user_id":    userID(c),
            }
            if sc := trace.SpanContextFromContext(req.Context()); sc.IsValid() {
                fields["trace_id"] = sc.TraceID().String()
            }
            entry := log.WithFields(fields)
            switch status := c.Response().Status; {
            case status >= 500:
                entry.Error("request failed")
            case status >= 400:
                entry.Warn("request rejected")
            default:
                entry.Info("request served")
            }
            return nil
        }
    }
}
