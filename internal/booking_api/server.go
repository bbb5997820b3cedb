package booking_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/handler"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/middleware"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
)

// Services bundles what the HTTP layer calls into
type Services struct {
	Ledger         service.LedgerService
	Availability   service.AvailabilityService
	Clients        service.ClientService
	Transactions   service.TransactionService
	Stats          service.StatsService
	Reconciliation service.ReconciliationService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, verifier middleware.TokenVerifier, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter, verifier, handlers{
		calendar: handler.NewCalendarHandler(log, services.Availability),
		clients:  handler.NewClientHandler(log, services.Clients, services.Transactions),
		ledger:   handler.NewLedgerHandler(log, services.Ledger),
		admin:    handler.NewAdminHandler(log, services.Stats, services.Reconciliation),
	})

	// CORS sits in front of gin so preflight requests never reach the auth middleware
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CorrelationIDHeader},
		ExposedHeaders:   []string{middleware.CorrelationIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      corsHandler(httpRouter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler returns the fully wrapped handler, CORS included
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting at most until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
