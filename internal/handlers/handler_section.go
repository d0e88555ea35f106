package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
)

// sectionHandler handles section and sub-section reference data.
type sectionHandler struct {
	sectionService portssvc.SectionSvcFacade
	userService    portssvc.UserSvcFacade
}

func newSectionHandler(ss portssvc.SectionSvcFacade, us portssvc.UserSvcFacade) *sectionHandler {
	return &sectionHandler{sectionService: ss, userService: us}
}

// registerSectionRoutes registers section and sub-section routes.
func registerSectionRoutes(rg *gin.RouterGroup, sectionService portssvc.SectionSvcFacade, userService portssvc.UserSvcFacade) {
	h := newSectionHandler(sectionService, userService)

	sections := rg.Group("/sections")
	{
		sections.GET("", h.listSections)
		sections.POST("", h.createSection)
		sections.GET("/:id", h.getSection)
		sections.PUT("/:id", h.updateSection)
		sections.GET("/:id/roster", h.getSectionRoster)
		sections.GET("/:id/subsections", h.listSubSections)
		sections.POST("/:id/subsections", h.createSubSection)
	}

	subSections := rg.Group("/subsections")
	{
		subSections.PUT("/:id", h.updateSubSection)
		subSections.DELETE("/:id", h.deleteSubSection)
	}
}

// listSections godoc
// @Summary List sections
// @Tags sections
// @Produce json
// @Success 200 {array} domain.Section
// @Security BearerAuth
// @Router /sections [get]
func (h *sectionHandler) listSections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sections, err := h.sectionService.ListSections(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list sections")
		return
	}

	c.JSON(http.StatusOK, sections)
}

// getSection godoc
// @Summary Get a section by ID
// @Tags sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} domain.Section
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sections/{id} [get]
func (h *sectionHandler) getSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	section, err := h.sectionService.GetSectionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve section")
		return
	}

	c.JSON(http.StatusOK, section)
}

// createSection godoc
// @Summary Create a section
// @Description Creates an organizational section. Superuser only.
// @Tags sections
// @Accept json
// @Produce json
// @Param section body dto.CreateSectionRequest true "Section details"
// @Success 201 {object} domain.Section
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Section name already exists"
// @Security BearerAuth
// @Router /sections [post]
func (h *sectionHandler) createSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	section, err := h.sectionService.CreateSection(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create section")
		return
	}

	c.JSON(http.StatusCreated, section)
}

// updateSection godoc
// @Summary Update a section
// @Description Updates a section's name or receive-desk flag. Superuser only.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param section body dto.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} domain.Section
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sections/{id} [put]
func (h *sectionHandler) updateSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	section, err := h.sectionService.UpdateSection(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update section")
		return
	}

	c.JSON(http.StatusOK, section)
}

// getSectionRoster godoc
// @Summary Get a section's active members
// @Tags sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sections/{id}/roster [get]
func (h *sectionHandler) getSectionRoster(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	users, err := h.userService.ListSectionRoster(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve section roster")
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// listSubSections godoc
// @Summary List a section's sub-sections
// @Tags sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {array} domain.SubSection
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sections/{id}/subsections [get]
func (h *sectionHandler) listSubSections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	subSections, err := h.sectionService.ListSubSections(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list sub-sections")
		return
	}

	c.JSON(http.StatusOK, subSections)
}

// createSubSection godoc
// @Summary Create a sub-section
// @Description Creates a sub-section under a section. Superuser only.
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param subsection body dto.CreateSubSectionRequest true "Sub-section details"
// @Success 201 {object} domain.SubSection
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sections/{id}/subsections [post]
func (h *sectionHandler) createSubSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateSubSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	subSection, err := h.sectionService.CreateSubSection(c.Request.Context(), c.Param("id"), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create sub-section")
		return
	}

	c.JSON(http.StatusCreated, subSection)
}

// updateSubSection godoc
// @Summary Rename a sub-section
// @Tags sections
// @Accept json
// @Produce json
// @Param id path string true "Sub-section ID"
// @Param subsection body dto.UpdateSubSectionRequest true "New name"
// @Success 200 {object} domain.SubSection
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /subsections/{id} [put]
func (h *sectionHandler) updateSubSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateSubSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	subSection, err := h.sectionService.UpdateSubSection(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update sub-section")
		return
	}

	c.JSON(http.StatusOK, subSection)
}

// deleteSubSection godoc
// @Summary Delete a sub-section
// @Description Removes a sub-section. Fails with 422 while documents or users still reference it. Superuser only.
// @Tags sections
// @Param id path string true "Sub-section ID"
// @Success 204 "Sub-section deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Sub-section still referenced"
// @Security BearerAuth
// @Router /subsections/{id} [delete]
func (h *sectionHandler) deleteSubSection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.sectionService.DeleteSubSection(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondWithError(c, logger, err, "Failed to delete sub-section")
		return
	}

	c.Status(http.StatusNoContent)
}
