package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

func main() {
	cfg := config.Load()

	hours, err := cfg.Hours()
	if err != nil {
		log.Fatalf("operating hours: %v", err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	reservations := repository.NewReservationRepo(db)
	tables := repository.NewTableRepo(db)
	clients := repository.NewClientRepo(db)

	engine, err := schedule.NewEngine(hours, reservations)
	if err != nil {
		log.Fatalf("scheduling engine: %v", err)
	}

	// Redis is optional; with no client, caching and rate limiting
	// quietly turn off and every read hits the database.
	rdb := config.NewRedisClient()
	avCache := cache.NewAvailability(config.LoadCacheConfig(), rdb)

	// Notification consumer; reconnects on its own, never takes the
	// API down.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewAvailabilityHandler(hours, reservations, avCache), config.LoadRateLimitConfig(), rdb)
	router.RegisterReservations(e,
		handler.NewReservationHandler(engine, reservations, clients, avCache),
		handler.NewTableHandler(tables),
		handler.NewClientHandler(clients),
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
