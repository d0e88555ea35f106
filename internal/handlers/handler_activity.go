package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
)

// activityHandler serves the audit-trail listing.
type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

func registerActivityRoutes(rg *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	h := &activityHandler{activityService: activityService}
	rg.GET("/activities", h.listActivities)
}

// listActivities godoc
// @Summary List audit-trail entries
// @Description Retrieves audit rows, newest first, with optional filters. Superuser only.
// @Tags activities
// @Produce json
// @Param userID query string false "Acting user filter"
// @Param type query string false "Activity type filter"
// @Param entityType query string false "Entity type filter"
// @Param entityID query string false "Entity ID filter"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ListActivitiesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /activities [get]
func (h *activityHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListActivitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	activities, err := h.activityService.ListActivities(c.Request.Context(), params, requestingUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list activities")
		return
	}

	c.JSON(http.StatusOK, dto.ListActivitiesResponse{Activities: activities})
}
