package middleware

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-reservation/internal/config"
)

// cachedResponse is one catalog response as stored in Redis.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder tees the response body into buf until it would exceed
// limit; after that the response is still served but not cached.
type bodyRecorder struct {
    http.ResponseWriter
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if !w.overflow {
        if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
            w.overflow = true
            w.buf.Reset()
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// catalogKey identifies a catalog response by its concrete path, so
// /v1/rooms/1 and /v1/rooms/2 never share an entry.  Query parameters
// are re-encoded in sorted order.
func catalogKey(prefix string, r *http.Request) string {
    key := prefix + ":" + r.URL.Path
    if q := r.URL.Query(); len(q) > 0 {
        key += "?" + q.Encode()
    }
    return key
}

// NewRedisCache caches 200 responses of the public room catalog routes.
// It must never wrap booking or availability routes: occupancy is always
// read from the store.  Redis errors fall through to the handler.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil || cfg.TTL <= 0 {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if req.Method != http.MethodGet {
                return next(c)
            }
            key := catalogKey(cfg.Prefix, req)

            if hit, ok := lookup(req.Context(), rdb, key); ok {
                c.Response().Header().Set("X-Cache", "HIT")
                return c.Blob(hit.Status, hit.ContentType, hit.Body)
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if c.Response().Status != http.StatusOK || rec.overflow {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      http.StatusOK,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        rec.buf.Bytes(),
            })
            if err == nil {
                _ = rdb.Set(context.WithoutCancel(req.Context()), key, payload, cfg.TTL).Err()
            }
            return nil
        }
    }
}

func lookup(ctx context.Context, rdb *redis.Client, key string) (cachedResponse, bool) {
    var hit cachedResponse
    bs, err := rdb.Get(ctx, key).Bytes()
    if err != nil { // redis.Nil or an outage: serve from the handler
        return hit, false
    }
    if json.Unmarshal(bs, &hit) != nil || hit.Status == 0 {
        return hit, false
    }
    return hit, true
}
