package handlers

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
)

// documentHandler handles HTTP requests for one document kind. The same
// handler type serves /notesheets, /bills and /letters; the kind is bound at
// route-registration time.
type documentHandler struct {
	kind       domain.DocumentKind
	docService portssvc.DocumentSvcFacade
}

func newDocumentHandler(kind domain.DocumentKind, ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{kind: kind, docService: ds}
}

// RegisterDocumentRoutes mounts the per-kind document route groups.
func RegisterDocumentRoutes(rg *gin.RouterGroup, docService portssvc.DocumentSvcFacade) {
	kinds := []struct {
		path string
		kind domain.DocumentKind
	}{
		{"/notesheets", domain.KindNotesheet},
		{"/bills", domain.KindBill},
		{"/letters", domain.KindLetter},
	}

	for _, k := range kinds {
		h := newDocumentHandler(k.kind, docService)

		docs := rg.Group(k.path)
		{
			docs.POST("", h.receiveDocument)
			docs.GET("", h.listDocuments)
			docs.GET("/:id", h.getDocument)
			docs.GET("/:id/history", h.getHistory)
			docs.POST("/:id/forward", h.forwardDocument)
			docs.POST("/:id/park", h.parkDocument)
			docs.POST("/:id/unpark", h.unparkDocument)
			docs.PUT("/:id/status", h.updateStatus)
			docs.DELETE("/:id", h.deleteDocument)
			docs.PUT("/:id/movements/:movementID/date", h.amendMovementDate)
			docs.POST("/:id/reconcile", h.reconcileDocument)
		}

		switch k.kind {
		case domain.KindBill:
			docs.POST("/:id/payment", h.recordPayment)
		case domain.KindLetter:
			docs.POST("/:id/reply", h.markReplied)
		}
	}
}

// receiveDocument godoc
// @Summary Receive a new document
// @Description Registers a document at the receive desk and seeds its custody ledger. The same route exists under /bills and /letters with kind-specific detail fields.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.ReceiveDocumentRequest true "Document details"
// @Success 201 {object} domain.Document
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller lacks receive-desk capability"
// @Failure 409 {object} ErrorResponse "Duplicate document number"
// @Security BearerAuth
// @Router /notesheets [post]
func (h *documentHandler) receiveDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ReceiveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.docService.ReceiveDocument(c.Request.Context(), h.kind, req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to receive document")
		return
	}

	logger.Info("Document received",
		slog.String("document_id", doc.DocumentID),
		slog.String("kind", string(h.kind)),
		slog.String("document_number", doc.DocumentNumber))
	c.JSON(http.StatusCreated, doc)
}

// listDocuments godoc
// @Summary List documents
// @Description Lists documents of this kind with optional filters, newest receipt first. Pagination is token based.
// @Tags documents
// @Produce json
// @Param status query string false "Status filter"
// @Param sectionID query string false "Current section filter"
// @Param holderID query string false "Current holder filter"
// @Param parked query bool false "Parked-state filter"
// @Param priority query string false "Priority filter"
// @Param search query string false "Subject / document-number search"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Opaque continuation token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.docService.ListDocuments(c.Request.Context(), h.kind, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getDocument godoc
// @Summary Get a document's custody view
// @Description Returns the document, its stage-by-stage custody history with holding durations, and the forwarding candidates admissible for the caller.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.CustodyViewResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	view, err := h.docService.GetCustodyView(c.Request.Context(), h.kind, c.Param("id"), actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, view)
}

// getHistory godoc
// @Summary Get a document's custody history
// @Description Returns the projected custody ledger, newest stage first, each annotated with its holding duration and consistency state.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {array} dto.StageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id}/history [get]
func (h *documentHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stages, err := h.docService.GetHistory(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, stages)
}

// forwardDocument godoc
// @Summary Forward a document
// @Description Transfers custody to another user under the forwarding policy. Fails with 409 if someone else forwarded the document first.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param forward body dto.ForwardDocumentRequest true "Forwarding details"
// @Success 204 "Custody transferred"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Policy denies the caller or the recipient"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent forward won"
// @Failure 422 {object} ErrorResponse "Document is parked or terminal"
// @Security BearerAuth
// @Router /notesheets/{id}/forward [post]
func (h *documentHandler) forwardDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ForwardDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	documentID := c.Param("id")
	if err := h.docService.ForwardDocument(c.Request.Context(), h.kind, documentID, req, actorID); err != nil {
		respondWithError(c, logger, err, "Failed to forward document")
		return
	}

	logger.Info("Document forwarded",
		slog.String("document_id", documentID),
		slog.String("to_user_id", req.ToUserID))
	c.Status(http.StatusNoContent)
}

// parkDocument godoc
// @Summary Park a document
// @Description Marks the document as parked without advancing custody. Parked documents cannot be forwarded until unparked.
// @Tags documents
// @Accept json
// @Param id path string true "Document ID"
// @Param park body dto.ParkDocumentRequest true "Park reason"
// @Success 204 "Document parked"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Already parked or terminal"
// @Security BearerAuth
// @Router /notesheets/{id}/park [post]
func (h *documentHandler) parkDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ParkDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.docService.ParkDocument(c.Request.Context(), h.kind, c.Param("id"), req, actorID); err != nil {
		respondWithError(c, logger, err, "Failed to park document")
		return
	}

	c.Status(http.StatusNoContent)
}

// unparkDocument godoc
// @Summary Unpark a document
// @Description Clears the parked side-state, making the document forwardable again.
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204 "Document unparked"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Document is not parked"
// @Security BearerAuth
// @Router /notesheets/{id}/unpark [post]
func (h *documentHandler) unparkDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.docService.UnparkDocument(c.Request.Context(), h.kind, c.Param("id"), actorID); err != nil {
		respondWithError(c, logger, err, "Failed to unpark document")
		return
	}

	c.Status(http.StatusNoContent)
}

// updateStatus godoc
// @Summary Update a document's status
// @Description Moves the document to another status of its kind's vocabulary.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param status body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Document
// @Failure 400 {object} ErrorResponse "Status not in the kind's vocabulary"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id}/status [put]
func (h *documentHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.docService.UpdateStatus(c.Request.Context(), h.kind, c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// markReplied godoc
// @Summary Record a reply on a letter
// @Description Marks the letter as replied with the reply date and reference. Replied is a terminal status.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Letter ID"
// @Param reply body dto.MarkRepliedRequest true "Reply details"
// @Success 200 {object} domain.Document
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Letter already replied"
// @Security BearerAuth
// @Router /letters/{id}/reply [post]
func (h *documentHandler) markReplied(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.MarkRepliedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.docService.MarkReplied(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record reply")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// recordPayment godoc
// @Summary Record payment progress on a bill
// @Description Updates the bill's payment status; Paid is a terminal state for custody purposes.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} domain.Document
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills/{id}/payment [post]
func (h *documentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	doc, err := h.docService.RecordPayment(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Hard-deletes a document and its custody ledger. Superuser only.
// @Tags documents
// @Param id path string true "Document ID"
// @Success 204 "Document deleted"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	documentID := c.Param("id")
	if err := h.docService.DeleteDocument(c.Request.Context(), h.kind, documentID, actorID); err != nil {
		respondWithError(c, logger, err, "Failed to delete document")
		return
	}

	logger.Info("Document deleted", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}

// amendMovementDate godoc
// @Summary Amend a ledger row's forwarded date
// @Description Rewrites the forwarded date of one custody ledger row after the fact. Superuser only.
// @Tags documents
// @Accept json
// @Param id path string true "Document ID"
// @Param movementID path int true "Movement ID"
// @Param amendment body dto.AmendMovementDateRequest true "New date (null clears it)"
// @Success 204 "Date amended"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id}/movements/{movementID}/date [put]
func (h *documentHandler) amendMovementDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	movementID, err := strconv.ParseInt(c.Param("movementID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid movement ID"})
		return
	}

	var req dto.AmendMovementDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.docService.AmendMovementDate(c.Request.Context(), h.kind, c.Param("id"), movementID, req, actorID); err != nil {
		respondWithError(c, logger, err, "Failed to amend movement date")
		return
	}

	c.Status(http.StatusNoContent)
}

// reconcileDocument godoc
// @Summary Reconcile a document's custody pointer
// @Description Recomputes the denormalized custody pointer from the ledger head and repairs any drift. Superuser only.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notesheets/{id}/reconcile [post]
func (h *documentHandler) reconcileDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.docService.ReconcileDocument(c.Request.Context(), h.kind, c.Param("id"), actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reconcile document")
		return
	}

	if result.Drifted {
		logger.Warn("Custody pointer drift repaired",
			slog.String("document_id", result.DocumentID),
			slog.String("ledger_holder", result.LedgerHolder))
	}
	c.JSON(http.StatusOK, result)
}
