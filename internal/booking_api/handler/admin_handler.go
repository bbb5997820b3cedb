package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
)

// AdminHandler serves the dashboard figures and the reconciliation queue
type AdminHandler struct {
	statsService          service.StatsService
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

func NewAdminHandler(logger *slog.Logger, statsService service.StatsService, reconciliationService service.ReconciliationService) *AdminHandler {
	return &AdminHandler{
		statsService:          statsService,
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

func (h *AdminHandler) FinancialStats(c *gin.Context) {
	stats, err := h.statsService.FinancialStats(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, stats)
}

// OpenReconciliations lists reports still waiting for a manual fix
func (h *AdminHandler) OpenReconciliations(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	reports, err := h.reconciliationService.ListOpen(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, reports)
}

func (h *AdminHandler) ResolveReconciliation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid report ID")
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	report, err := h.reconciliationService.Resolve(c.Request.Context(), id, req.Note)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, report)
}
