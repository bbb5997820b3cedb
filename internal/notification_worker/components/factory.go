package components

import (
	"fmt"
	"log/slog"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
)

// CreateDispatchService wires the email components behind a worker pool.
// It falls back to the unpooled service if the pool cannot be created.
func CreateDispatchService(
	deliveryRepo notification.DeliveryRepository,
	logger *slog.Logger,
	cfg *config.Config,
) (service.DispatchService, error) {
	renderer, err := NewTemplateRenderer(cfg.Email.AdminAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to build email renderer: %w", err)
	}
	sender := NewHTTPEmailSender(&cfg.Email, logger.With("component", "email_sender"))
	recorder := NewDeliveryRecorder(deliveryRepo, logger)

	baseService := service.NewDispatchService(renderer, sender, recorder, logger)

	workerPoolService, err := service.NewWorkerPoolDispatchService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool dispatch service, falling back to base service", "error", err)
		return baseService, nil
	}

	logger.Info("Created worker pool dispatch service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService, nil
}
