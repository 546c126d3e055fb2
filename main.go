package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/queue"
	"hotel-backoffice/repository"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config load failed: %v", err)
	}

	// Store: MySQL pool injected into the gorm store, or in-memory for demos
	var store repository.Store
	switch cfg.StoreDriver {
	case "memory":
		store = repository.NewMemoryStore()
		log.Println("⚠️  Using in-memory store; data is lost on restart")
	case "mysql":
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Database connect failed: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		store = repository.NewGormStore(db)
		log.Println("✅ Database connection established and migrations applied.")
	default:
		log.Fatalf("❌ Unknown STORE_DRIVER %q (want mysql or memory)", cfg.StoreDriver)
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.SeedDatabase(seedCtx, store, cfg); err != nil {
		log.Printf("⚠️  Seeding failed: %v", err)
	}
	seedCancel()

	// Redis: booking lock + rate limiting, both optional
	rdb := config.NewRedisClient(cfg)
	var locker services.Locker
	if rdb != nil {
		defer rdb.Close()
		locker = services.NewRedisLocker(rdb, cfg.BookingLock)
		log.Println("✅ Redis connected; using distributed booking lock.")
	} else {
		locker = services.NewLocalLocker()
		log.Println("⚠️  Redis unavailable; using in-process booking lock.")
	}

	// Events: RabbitMQ publisher and audit-log consumer
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	var publisher services.Publisher = services.NopPublisher{}
	if cfg.EventsEnabled {
		p := queue.NewPublisher(cfg.RabbitURL, cfg.EventsQueue, cfg.EventsBuffer)
		defer p.Close()
		publisher = p

		consumer := &queue.Consumer{URL: cfg.RabbitURL, Queue: cfg.EventsQueue, LogPath: cfg.EventLogPath}
		go func() {
			if err := consumer.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("❌ event consumer stopped: %v", err)
			}
		}()
		log.Printf("✅ Publishing reservation events to queue %s", cfg.EventsQueue)
	}

	opts := services.Options{
		Location:  cfg.HotelLocation,
		OpTimeout: cfg.DBOpTimeout,
		Publisher: publisher,
	}

	// Initialize services
	roomService := services.NewRoomService(store, opts)
	guestService := services.NewGuestService(store, opts)
	reservationService := services.NewReservationService(store, locker, opts)
	reservationService.StrictTransitions = cfg.StrictTransitions
	ledgerService := services.NewLedgerService(store, opts)
	authService := services.NewAuthService(store, cfg.JWTSecret, cfg.SessionTTL, opts)
	statsService := services.NewStatsService(store, opts)

	// Build router
	router := routes.SetupRouter(routes.Handlers{
		Rooms:        controllers.NewRoomController(roomService, cfg.HotelLocation),
		Guests:       controllers.NewGuestController(guestService),
		Reservations: controllers.NewReservationController(reservationService, ledgerService),
		Auth:         controllers.NewAuthController(authService),
		Stats:        controllers.NewStatsController(statsService),
		Session:      authService,
		RateLimit:    middleware.RateLimit(cfg.RateLimit, rdb),
		CorsOrigins:  cfg.CorsOrigins,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
