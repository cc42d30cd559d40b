package router

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/handler"
    "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Handlers bundles every HTTP handler the router wires up. All fields
// must be non-nil.
type Handlers struct {
    Availability *handler.AvailabilityHandler
    Reservation  *handler.ReservationHandler
    Table        *handler.TableHandler
    Waitlist     *handler.WaitlistHandler
    Order        *handler.OrderHandler
    Payment      *handler.PaymentHandler
}

// Register wires all routes onto the Echo instance. The public surface
// (availability, waitlist intake, the provider webhook) carries a rate
// limiter; everything that mutates reservations or tables sits behind
// JWT authentication, with staff-only routes additionally gated by
// role. The webhook authenticates by signature instead of JWT.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig) {
    e.GET("/healthz", handler.Health)

    // Public read surface. Availability lookups are cached for a few
    // seconds; both endpoints share the token bucket.
    public := e.Group("/v1", middleware.RateLimit(rl, rdb))
    public.GET("/availability", h.Availability.List, middleware.CacheGET(rdb, 5*time.Second))
    public.GET("/availability/check", h.Availability.Check, middleware.CacheGET(rdb, 5*time.Second))
    public.POST("/waitlist", h.Waitlist.Join)

    // The provider signs webhook payloads; no JWT and no rate limit,
    // dropped deliveries would have to wait for the provider's retry.
    e.POST("/v1/payment/webhook", h.Payment.Webhook)

    // Authenticated guest surface.
    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.POST("/reservations", h.Reservation.Create)
    auth.PUT("/reservations/:id/cancel", h.Reservation.Cancel)

    // Staff surface.
    staff := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleEmployee, model.RoleAdmin))
    staff.PUT("/tables/:id/occupy", h.Table.Occupy)
    staff.PUT("/tables/:id/free", h.Table.Free)
    staff.POST("/orders", h.Order.Create)
    staff.POST("/tables/:id/payment-link", h.Payment.CreateLink)
}
