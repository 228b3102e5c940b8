package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
    "github.com/sirupsen/logrus/hooks/test"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, p model.Principal) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, p, time.Hour)
    require.NoError(t, err)
    return "Bearer " + tok.Token
}

func whoami(c echo.Context) error {
    p, ok := CurrentPrincipal(c)
    if !ok {
        return c.NoContent(http.StatusTeapot)
    }
    return c.JSON(http.StatusOK, echo.Map{"user_id": p.UserID, "role": p.Role})
}

func serve(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, nil)
    if auth != "" {
        req.Header.Set("Authorization", auth)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))

    rec := serve(e, http.MethodGet, "/me", bearer(t, model.Principal{UserID: 9, Role: model.RoleCustomer}))
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"user_id":9,"role":"CUSTOMER"}`, rec.Body.String())

    rec = serve(e, http.MethodGet, "/me", "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec = serve(e, http.MethodGet, "/me", "Bearer nope")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    admin := e.Group("/admin", JWTAuth(secret), RequireRole(model.RoleAdmin))
    admin.GET("/ping", whoami)

    rec := serve(e, http.MethodGet, "/admin/ping", bearer(t, model.Principal{UserID: 1, Role: model.RoleAdmin}))
    assert.Equal(t, http.StatusOK, rec.Code)

    rec = serve(e, http.MethodGet, "/admin/ping", bearer(t, model.Principal{UserID: 2, Role: model.RoleCustomer}))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAccessLog(t *testing.T) {
    log, hook := test.NewNullLogger()
    e := echo.New()
    e.Use(AccessLog(log))
    e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
    e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

    rec := serve(e, http.MethodGet, "/ok", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    rid := rec.Header().Get(RequestIDHeader)
    assert.NotEmpty(t, rid)
    entry := hook.LastEntry()
    require.NotNil(t, entry)
    assert.Equal(t, logrus.InfoLevel, entry.Level)
    assert.Equal(t, rid, entry.Data["request_id"])
    assert.Equal(t, http.StatusOK, entry.Data["status"])

    rec = serve(e, http.MethodGet, "/boom", "")
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func newRedis(t *testing.T) *redis.Client {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func TestTokenBucket(t *testing.T) {
    log, _ := test.NewNullLogger()
    cfg := config.RateLimitConfig{
        Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
        TTL: 2 * time.Hour, KeyStrategy: "ip", Prefix: "rl",
    }
    e := echo.New()
    e.GET("/rooms", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, newRedis(t), log))

    assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/rooms", "").Code)
    assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/rooms", "").Code)
    rec := serve(e, http.MethodGet, "/rooms", "")
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRedisCacheKeysOnConcretePath(t *testing.T) {
    cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "hotel:cache", MaxBodyBytes: 1 << 20}
    calls := 0
    e := echo.New()
    e.GET("/v1/rooms/:id", func(c echo.Context) error {
        calls++
        if c.Param("id") == "999" {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "NOT_FOUND"})
        }
        return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
    }, NewRedisCache(cfg, newRedis(t)))

    first := serve(e, http.MethodGet, "/v1/rooms/1", "")
    assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
    second := serve(e, http.MethodGet, "/v1/rooms/1", "")
    assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
    assert.JSONEq(t, first.Body.String(), second.Body.String())
    assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))

    other := serve(e, http.MethodGet, "/v1/rooms/2", "")
    assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"id":"2"}`, other.Body.String())

    for i := 0; i < 2; i++ {
        missing := serve(e, http.MethodGet, "/v1/rooms/999", "")
        assert.Equal(t, http.StatusNotFound, missing.Code)
        assert.Equal(t, "MISS", missing.Header().Get("X-Cache"))
    }
    assert.Equal(t, 4, calls)
}

func TestRedisCacheSortsQuery(t *testing.T) {
    cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "hotel:cache"}
    e := echo.New()
    e.GET("/v1/rooms", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{}) }, NewRedisCache(cfg, newRedis(t)))

    assert.Equal(t, "MISS", serve(e, http.MethodGet, "/v1/rooms?floor=1&type=2", "").Header().Get("X-Cache"))
    assert.Equal(t, "HIT", serve(e, http.MethodGet, "/v1/rooms?type=2&floor=1", "").Header().Get("X-Cache"))
}

func TestRedisCacheSkipsOversizedBodies(t *testing.T) {
    cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "hotel:cache", MaxBodyBytes: 16}
    big := strings.Repeat("x", 64)
    e := echo.New()
    e.GET("/v1/rooms", func(c echo.Context) error {
        return c.JSON(http.StatusOK, echo.Map{"rooms": big})
    }, NewRedisCache(cfg, newRedis(t)))

    for i := 0; i < 2; i++ {
        rec := serve(e, http.MethodGet, "/v1/rooms", "")
        assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
        assert.JSONEq(t, `{"rooms":"`+big+`"}`, rec.Body.String())
    }
}
