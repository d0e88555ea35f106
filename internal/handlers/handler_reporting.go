package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
)

// reportingHandler serves the dashboard aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Get dashboard statistics
// @Description Returns per-kind document counts, the caller's personal holdings, overdue reply counts and per-section holdings.
// @Tags reporting
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Security BearerAuth
// @Router /dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.reportingService.GetDashboardStats(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute dashboard statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
