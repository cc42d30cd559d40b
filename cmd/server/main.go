package main

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/availability"
    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/database"
    "github.com/iliyamo/restaurant-table-reservation/internal/handler"
    "github.com/iliyamo/restaurant-table-reservation/internal/notify"
    "github.com/iliyamo/restaurant-table-reservation/internal/payment"
    "github.com/iliyamo/restaurant-table-reservation/internal/projection"
    "github.com/iliyamo/restaurant-table-reservation/internal/qrtoken"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/iliyamo/restaurant-table-reservation/internal/router"
    "github.com/iliyamo/restaurant-table-reservation/internal/waitlist"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("open database: %v", err)
    }
    defer db.Close()

    ctx := context.Background()
    if err := database.Migrate(ctx, db); err != nil {
        log.Fatalf("migrate schema: %v", err)
    }
    if err := database.Seed(ctx, db); err != nil {
        log.Fatalf("seed data: %v", err)
    }

    // Redis is optional: broadcast, projection, cache and rate limiting
    // all degrade to no-ops without it.
    rdb := config.NewRedisClient()
    publisher := broadcast.NewRedisPublisher(rdb)
    mirror := projection.NewMirror(rdb)

    tableRepo := repository.NewTableRepo(db)
    sectionRepo := repository.NewSectionRepo(db)
    scheduleRepo := repository.NewScheduleRepo(db)
    reservationRepo := repository.NewReservationRepo(db)
    orderRepo := repository.NewOrderRepo(db)
    waitlistRepo := repository.NewWaitlistRepo(db)

    sealer, err := qrtoken.NewSealer(cfg.QRSecretKey)
    if err != nil {
        log.Fatalf("init confirmation cipher: %v", err)
    }
    notifier := notify.NewDispatcher()

    bookings := booking.NewService(reservationRepo, tableRepo, sealer, notifier, publisher, mirror)
    resolver := availability.New(tableRepo, reservationRepo, sectionRepo)

    provider := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentAPIKey)
    links := payment.NewLinkService(orderRepo, provider)
    processor := payment.NewProcessor(orderRepo, publisher, cfg.WebhookSecret)

    // Background workers: delivery of queued notifications and the
    // waitlist/reminder reconciliation loop.
    go func() {
        if err := notify.StartConsumer(notify.LogTransport{}); err != nil {
            log.Printf("notify consumer stopped: %v", err)
        }
    }()
    matcher := waitlist.New(waitlistRepo, reservationRepo, tableRepo, notifier, publisher)
    matcher.Interval = cfg.MatcherInterval
    go func() {
        if err := matcher.Run(ctx); err != nil {
            log.Printf("waitlist matcher stopped: %v", err)
        }
    }()

    e := echo.New()
    router.Register(e, router.Handlers{
        Availability: handler.NewAvailabilityHandler(resolver, scheduleRepo, sectionRepo),
        Reservation:  handler.NewReservationHandler(bookings),
        Table:        handler.NewTableHandler(tableRepo, publisher),
        Waitlist:     handler.NewWaitlistHandler(waitlistRepo, publisher),
        Order:        handler.NewOrderHandler(orderRepo),
        Payment:      handler.NewPaymentHandler(links, processor),
    }, cfg.JWTSecret, rdb, config.LoadRateLimitConfig())

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
