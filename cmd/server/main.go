package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"saferide/internal/app"
	"saferide/internal/config"
	"saferide/internal/domain"
	"saferide/internal/handler"
	internalRedis "saferide/internal/redis"
	"saferide/internal/repository"
	"saferide/internal/repository/memory"
	"saferide/internal/repository/postgres"
	"saferide/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database when enabled; otherwise in-memory repositories serve.
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Connected to PostgreSQL")
	}

	// Initialize Redis when enabled.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	// Wire dependencies.
	server, simulator := wireServer(db, redisClient, nrApp, cfg)

	// Run the driver progress simulator until shutdown.
	simCtx, simCancel := context.WithCancel(context.Background())
	defer simCancel()
	if simulator != nil {
		go simulator.Run(simCtx)
		log.Printf("Driver progress simulator running (interval=%s)", cfg.Simulator.Interval)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	simCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the
// driver progress simulator (nil when disabled).
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.ProgressSimulator) {
	// Initialize Redis stores when a client is present.
	var locationStore internalRedis.LocationStoreInterface
	var lockStore internalRedis.LockStoreInterface
	var catalogCache *internalRedis.CatalogCache
	if redisClient != nil {
		locationStore = internalRedis.NewLocationStore(redisClient)
		lockStore = internalRedis.NewLockStore(redisClient)
		catalogCache = internalRedis.NewCatalogCache(redisClient)
	}

	// Initialize repositories: PostgreSQL when connected, in-memory otherwise.
	var (
		rideRepo    repository.RideRepository
		driverRepo  repository.DriverRepository
		paymentRepo repository.PaymentRepository
		userRepo    repository.UserRepository
	)
	if db != nil {
		rideRepo = postgres.NewRideRepository(db)
		driverRepo = postgres.NewDriverRepository(db)
		paymentRepo = postgres.NewPaymentRepository(db)
		userRepo = postgres.NewUserRepository(db)
	} else {
		rideRepo = memory.NewRideRepository()
		driverRepo = memory.NewDriverRepository()
		paymentRepo = memory.NewPaymentRepository()
		userRepo = memory.NewUserRepository()
		seedDrivers(driverRepo)
	}

	// The service tier catalog is static and always served from memory.
	catalogRepo := memory.NewRideTypeRepository(domain.DefaultRideTypes())

	// Initialize services.
	notifier := service.NewNotificationService()
	matcher := service.NewMatcher(driverRepo, locationStore, lockStore)
	lifecycle := service.NewLifecycle(rideRepo, matcher, lockStore, notifier)
	settlement := service.NewSettlement(paymentRepo, service.NewApproveAllPolicy(), notifier)
	rideService := service.NewRideService(catalogRepo, catalogCache, lifecycle, matcher, settlement)
	geocoder := service.NewStaticGeocoder(nil)

	var simulator *service.ProgressSimulator
	if cfg.Simulator.Enabled {
		simulator = service.NewProgressSimulator(rideRepo, matcher, cfg.Simulator.Interval)
	}

	// Initialize handlers.
	rideHandler := handler.NewRideHandler(rideService)
	driverHandler := handler.NewDriverHandler(matcher, driverRepo)
	paymentHandler := handler.NewPaymentHandler(settlement, paymentRepo)
	userHandler := handler.NewUserHandler(userRepo)
	locationHandler := handler.NewLocationHandler(geocoder)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		RideHandler:     rideHandler,
		DriverHandler:   driverHandler,
		PaymentHandler:  paymentHandler,
		UserHandler:     userHandler,
		LocationHandler: locationHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, simulator
}

// seedDrivers populates the in-memory backend with a demo fleet so rides can
// be matched right after startup.
func seedDrivers(repo repository.DriverRepository) {
	fleet := []*domain.Driver{
		{Name: "Aisha Patel", Vehicle: "Toyota Prius", LicensePlate: "7ABC123", Rating: 4.9,
			Location: domain.Location{Latitude: 37.7793, Longitude: -122.4192, Address: "Civic Center, San Francisco"}},
		{Name: "Marcus Lee", Vehicle: "Honda Accord", LicensePlate: "8DEF456", Rating: 4.7,
			Location: domain.Location{Latitude: 37.7694, Longitude: -122.4282, Address: "Castro, San Francisco"}},
		{Name: "Elena Sokolova", Vehicle: "Tesla Model 3", LicensePlate: "9GHI789", Rating: 4.8,
			Location: domain.Location{Latitude: 37.7879, Longitude: -122.4074, Address: "Union Square, San Francisco"}},
		{Name: "Diego Ramirez", Vehicle: "Chevrolet Suburban", LicensePlate: "6JKL012", Rating: 4.6,
			Location: domain.Location{Latitude: 37.8044, Longitude: -122.2712, Address: "Downtown Oakland"}},
	}

	ctx := context.Background()
	for _, driver := range fleet {
		driver.ID = uuid.New().String()
		driver.IsAvailable = true
		if err := repo.Create(ctx, driver); err != nil {
			log.Printf("failed to seed driver %s: %v", driver.Name, err)
		}
	}
}
