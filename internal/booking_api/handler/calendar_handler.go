package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
)

// CalendarHandler serves the public availability calendar
type CalendarHandler struct {
	availabilityService service.AvailabilityService
	logger              *slog.Logger
}

func NewCalendarHandler(logger *slog.Logger, availabilityService service.AvailabilityService) *CalendarHandler {
	return &CalendarHandler{
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// GetYear returns the day summaries of a year keyed by YYYY-MM-DD. Days
// without slots are left out.
func (h *CalendarHandler) GetYear(c *gin.Context) {
	var params CalendarParams
	if err := c.ShouldBindUri(&params); err != nil {
		RespondBadRequest(c, "Invalid year")
		return
	}

	days, err := h.availabilityService.SummarizeYear(c.Request.Context(), params.Year)
	if err != nil {
		RespondServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, days)
}
