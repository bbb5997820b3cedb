package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/identity"
)

// ClientHandler serves client profiles and their transaction history
type ClientHandler struct {
	clientService      service.ClientService
	transactionService service.TransactionService
	logger             *slog.Logger
}

func NewClientHandler(logger *slog.Logger, clientService service.ClientService, transactionService service.TransactionService) *ClientHandler {
	return &ClientHandler{
		clientService:      clientService,
		transactionService: transactionService,
		logger:             logger,
	}
}

// Me returns the caller's own profile
func (h *ClientHandler) Me(c *gin.Context) {
	profile, err := h.clientService.GetMyProfile(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapProfileToResponse(profile))
}

// MyTransactions returns the caller's own transaction history
func (h *ClientHandler) MyTransactions(c *gin.Context) {
	actor, err := identity.FromContext(c.Request.Context())
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	h.respondTransactions(c, actor.UserID)
}

func (h *ClientHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	profiles, total, err := h.clientService.ListClients(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	response := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, mapProfileToResponse(p))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}

func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseClientID(c)
	if !ok {
		return
	}

	profile, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapProfileToResponse(profile))
}

// Transactions returns any client's history for the admin dashboard
func (h *ClientHandler) Transactions(c *gin.Context) {
	id, ok := parseClientID(c)
	if !ok {
		return
	}
	h.respondTransactions(c, id)
}

func (h *ClientHandler) respondTransactions(c *gin.Context, clientID uuid.UUID) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	transactions, total, err := h.transactionService.ListClientTransactions(c.Request.Context(), clientID, pagination.Page, pagination.PerPage)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}
	RespondWithPaginatedData(c, http.StatusOK, mapTransactionsToResponse(transactions), pagination.Page, pagination.PerPage, int(total))
}

func parseClientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid client ID")
		return uuid.Nil, false
	}
	return id, true
}
