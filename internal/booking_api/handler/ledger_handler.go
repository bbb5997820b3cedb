package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
)

// LedgerHandler handles admin balance adjustments
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// AdjustBalance adds a signed amount to a client's credit. A positive amount
// is recorded as a deposit, a negative one as a manual adjustment.
func (h *LedgerHandler) AdjustBalance(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid balance adjustment body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.ledgerService.AdjustBalance(c.Request.Context(), clientID, *req.Amount, req.Description)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAdjustmentToResponse(result))
}
