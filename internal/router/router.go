package router // package router wires handlers and middleware onto the Echo instance

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Deps collects what the routes need.  Redis may be nil, in which case
// the catalog cache and the rate limiter are pass-through.
type Deps struct {
    Rooms     *handler.RoomHandler
    Bookings  *handler.BookingHandler
    Admin     *handler.AdminHandler
    Ready     map[string]handler.Pinger
    JWTSecret string
    Cache     config.CacheConfig
    RateLimit config.RateLimitConfig
    Redis     *redis.Client
    Log       logrus.FieldLogger
}

// RegisterRoutes registers the probes.  They sit outside every group so
// load balancers never need a token.
func RegisterRoutes(e *echo.Echo, d Deps) {
    e.GET("/healthz", handler.Health)
    e.GET("/readyz", handler.Ready(d.Ready))
}

// RegisterPublic registers the unauthenticated room routes.  Only the
// catalog goes through the response cache; availability and price read
// live occupancy.
func RegisterPublic(e *echo.Echo, d Deps) {
    cache := middleware.NewRedisCache(d.Cache, d.Redis)
    e.GET("/v1/rooms", d.Rooms.List, cache)
    e.GET("/v1/rooms/:id", d.Rooms.Get, cache)
    e.GET("/v1/rooms/:id/availability", d.Bookings.Availability)
    e.GET("/v1/rooms/:id/price", d.Bookings.Price)
}

// RegisterBookings registers the authenticated guest routes.  Both roles
// may call them; the engine enforces ownership.  Writes are rate limited
// per user and route.
func RegisterBookings(e *echo.Echo, d Deps) {
    g := e.Group("/v1/bookings")
    g.Use(middleware.JWTAuth(d.JWTSecret))
    g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
    limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)

    g.POST("", d.Bookings.Create, limit)
    g.GET("", d.Bookings.List)
    g.GET("/:id", d.Bookings.Get)
    g.POST("/:id/confirm", d.Bookings.Confirm, limit)
    g.POST("/:id/cancel", d.Bookings.Cancel, limit)
}

// RegisterAdmin registers staff routes under /v1/admin.
func RegisterAdmin(e *echo.Echo, d Deps) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(d.JWTSecret))
    g.Use(middleware.RequireRole(model.RoleAdmin))

    g.GET("/bookings", d.Admin.ListBookings)
    g.GET("/bookings/:id", d.Admin.GetBooking)
    g.PUT("/bookings/:id", d.Admin.UpdateStatus)
    g.GET("/rooms", d.Admin.ListRooms)
}

// Register installs every route group.
func Register(e *echo.Echo, d Deps) {
    RegisterRoutes(e, d)
    RegisterPublic(e, d)
    RegisterBookings(e, d)
    RegisterAdmin(e, d)
}
