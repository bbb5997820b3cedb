package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/data/mongo"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/data/postgres"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/logger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/cache"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("booking_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	location := cfg.ScheduleLocation()

	log.Info("Starting Booking API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"schedule_timezone", location.String(),
	)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	clientRepo := postgres.NewClientRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	slotRepo := postgres.NewSlotRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	reportRepo := mongo.NewReconciliationRepository(log, mongoDB.Database())

	if err := reportRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create reconciliation indexes", "error", err)
		os.Exit(1)
	}

	queryCache := cache.New()
	go queryCache.RunJanitor(appCtx, time.Minute)

	// Initialize services
	services := booking_api.Services{
		Ledger: service.NewLedgerService(
			logger.Component(log, "ledger"),
			clientRepo,
			transactionRepo,
			reportRepo,
			outboxRepo,
			queryCache,
			cfg.Ledger.WriteTimeout,
		),
		Availability:   service.NewAvailabilityService(logger.Component(log, "availability"), slotRepo, queryCache, location, cfg.Cache.CalendarTTL),
		Clients:        service.NewClientService(clientRepo, queryCache, cfg.Cache.QueryTTL),
		Transactions:   service.NewTransactionService(transactionRepo, queryCache, cfg.Cache.QueryTTL),
		Stats:          service.NewStatsService(transactionRepo, queryCache, cfg.Cache.QueryTTL),
		Reconciliation: service.NewReconciliationService(logger.Component(log, "reconciliation"), reportRepo),
	}

	verifier := identity.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	server := booking_api.NewServer(log, cfg, verifier, services)
	log.Info("REST server initialized")

	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Drain in-flight requests first; an adjustment saga must not lose its pool mid-way
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	cancelAppCtx()

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
