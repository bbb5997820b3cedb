package booking_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/handler"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/middleware"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/platform/metrics"
)

type handlers struct {
	calendar *handler.CalendarHandler
	clients  *handler.ClientHandler
	ledger   *handler.LedgerHandler
	admin    *handler.AdminHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, verifier middleware.TokenVerifier, h handlers) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Authenticate(verifier, logger))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/calendar/:year", h.calendar.GetYear)

		me := v1.Group("/me", middleware.RequireAuth())
		{
			me.GET("", h.clients.Me)
			me.GET("/transactions", h.clients.MyTransactions)
		}

		admin := v1.Group("/admin", middleware.RequireAdmin())
		{
			clients := admin.Group("/clients")
			{
				clients.GET("", h.clients.List)
				clients.GET("/:id", h.clients.GetByID)
				clients.GET("/:id/transactions", h.clients.Transactions)
				clients.POST("/:id/balance-adjustments", h.ledger.AdjustBalance)
			}

			admin.GET("/stats/financial", h.admin.FinancialStats)
			admin.GET("/reconciliations", h.admin.OpenReconciliations)
			admin.POST("/reconciliations/:id/resolve", h.admin.ResolveReconciliation)
		}
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
