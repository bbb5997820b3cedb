package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/data/mongo"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/data/postgres"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/logger"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/audit"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/components"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/consumer"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/outbox_relay"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/messaging/consumers"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/messaging/producers"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("notification_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Notification Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
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
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	reportRepo := mongo.NewReconciliationRepository(log, mongoDB.Database())
	deliveryRepo := mongo.NewDeliveryRepository(log, mongoDB.Database())

	if err := reportRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create reconciliation indexes", "error", err)
		os.Exit(1)
	}
	if err := deliveryRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create delivery indexes", "error", err)
		os.Exit(1)
	}

	notificationProducer, err := producers.NewNotificationProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize notification Kafka producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	dispatchService, err := components.CreateDispatchService(deliveryRepo, logger.Component(log, "dispatch"), cfg)
	if err != nil {
		log.Error("Failed to initialize dispatch service", "error", err)
		os.Exit(1)
	}

	eventHandler := consumer.NewNotificationEventHandler(logger.Component(log, "notification_consumer"), dispatchService, dlqProducer)

	relay := outbox_relay.NewRelay(
		&cfg.Outbox,
		outboxRepo,
		outbox_relay.NewKafkaEventPublisher(outboxRepo, notificationProducer, log),
		logger.Component(log, "outbox_relay"),
	)

	ledgerAudit := audit.NewLedgerAudit(
		transactionRepo,
		clientRepo,
		reportRepo,
		outboxRepo,
		logger.Component(log, "ledger_audit"),
		cfg.ScheduleLocation(),
		cfg.Ledger.WriteTimeout,
	)
	if err := ledgerAudit.Register(appCtx, cfg.Audit.Schedule); err != nil {
		log.Error("Failed to schedule ledger audit", "error", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: metrics.Handler(),
	}

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to notification topic", "error", err)
		os.Exit(1)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting outbox relay",
			"interval", cfg.Outbox.PollingInterval.String(),
			"batch_size", cfg.Outbox.BatchSize,
		)
		relay.Start(appCtx)
	}()

	ledgerAudit.Start()

	go func() {
		log.Info("Starting metrics endpoint", "port", cfg.Server.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	case <-kafkaConsumer.Done():
		log.Error("Kafka consumer stopped unexpectedly")
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	ledgerAudit.Stop()

	if wpService, ok := dispatchService.(*service.WorkerPoolDispatchService); ok {
		log.Info("Shutting down worker pool", "running_workers", wpService.Running())
		wpService.Shutdown()
	}

	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err = metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics endpoint", "error", err)
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	if err = notificationProducer.Close(); err != nil {
		log.Error("Error closing notification Kafka producer", "error", err)
	}

	if err = dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if serviceErr != nil {
		log.Error("Notification Worker shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Notification Worker shutdown completed with errors")
	} else {
		log.Info("Notification Worker shutdown completed successfully")
	}
}
