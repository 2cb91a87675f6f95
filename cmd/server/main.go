package main // Entry point package

import (
	"context" // bounds startup database calls
	"log"     // Logging library
	"time"    // timeouts

	"github.com/joho/godotenv"    // loads .env into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/weekbook/resource-booking-api/internal/booking"
	"github.com/weekbook/resource-booking-api/internal/config"
	"github.com/weekbook/resource-booking-api/internal/database"
	"github.com/weekbook/resource-booking-api/internal/handler"
	"github.com/weekbook/resource-booking-api/internal/middleware"
	"github.com/weekbook/resource-booking-api/internal/queue"
	"github.com/weekbook/resource-booking-api/internal/repository"
	"github.com/weekbook/resource-booking-api/internal/router"
	"github.com/weekbook/resource-booking-api/internal/service"
	"github.com/weekbook/resource-booking-api/internal/session"
)

func main() {
	// .env is optional; a missing file is not an error in production.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Redis backs the session filter store and the rate limiter; a nil
	// client degrades both gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, using in-process session store and no rate limit")
	}

	resources := repository.NewResourceRepo(db)
	slots := repository.NewTimeSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	members := repository.NewMemberRepo(db)
	tokens := repository.NewTokenRepo(db)

	notifier := service.NewNotifierHook(resources, cfg.Env != "test")
	engine := booking.NewEngine(resources, slots, bookings, members,
		cfg.HiddenWeekdays,
		booking.Horizon{BackWeeks: cfg.BackWeeks, AheadWeeks: cfg.AheadWeeks, RepeatWeeks: cfg.RepeatWeeks},
		booking.Hooks{notifier},
		nil,
	)
	filters := session.NewFilterStore(rdb, 0)

	authHandler := handler.NewAuthHandler(cfg, members, tokens)
	calHandler := handler.NewCalendarHandler(engine, filters, resources, bookings, members)
	bookHandler := handler.NewBookingHandler(engine, filters)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCalendar(e, calHandler, bookHandler, cfg.JWTSecret,
		middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))

	// The consumer appends booking events to logs/booking.log and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
