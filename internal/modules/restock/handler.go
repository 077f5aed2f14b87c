package restock

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"opsdeck/internal/pkg/response"
	"opsdeck/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StartSession handles POST /api/v1/restock/sessions
func (h *Handler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fields)
		return
	}

	sess, err := h.service.Start(c.Request.Context(), req.RequestedBy)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sess)
}

// GetSession handles GET /api/v1/restock/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// CancelSession handles DELETE /api/v1/restock/sessions/:id
func (h *Handler) CancelSession(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

// ToggleItem handles POST /api/v1/restock/sessions/:id/toggle
func (h *Handler) ToggleItem(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fields)
		return
	}

	sess, err := h.service.Toggle(c.Param("id"), req.EquipmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SelectAll handles POST /api/v1/restock/sessions/:id/select-all
func (h *Handler) SelectAll(c *gin.Context) {
	sess, err := h.service.SelectAll(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SetQuantity handles POST /api/v1/restock/sessions/:id/quantity
func (h *Handler) SetQuantity(c *gin.Context) {
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fields)
		return
	}

	sess, err := h.service.SetQuantity(c.Param("id"), req.EquipmentID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// Advance handles POST /api/v1/restock/sessions/:id/advance
func (h *Handler) Advance(c *gin.Context) {
	sess, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// Back handles POST /api/v1/restock/sessions/:id/back
func (h *Handler) Back(c *gin.Context) {
	sess, err := h.service.Back(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// ReportBroken handles POST /api/v1/restock/sessions/:id/report-broken
func (h *Handler) ReportBroken(c *gin.Context) {
	var req ReportBrokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	descriptions := make(map[int64]string, len(req.Items))
	for _, item := range req.Items {
		descriptions[item.EquipmentID] = item.Description
	}

	sess, err := h.service.ReportBroken(c.Request.Context(), c.Param("id"), descriptions)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

// SkipBroken handles POST /api/v1/restock/sessions/:id/skip-broken
func (h *Handler) SkipBroken(c *gin.Context) {
	sess, err := h.service.SkipBroken(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sess)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Restock session not found")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Operation not allowed in the session's current state")
	case errors.Is(err, ErrEmptySelection):
		response.Error(c, http.StatusBadRequest, "EMPTY_SELECTION", "Select at least one item to restock")
	case errors.Is(err, ErrUnknownItem):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ITEM", "Item is not part of this session")
	case errors.Is(err, ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity must not be negative")
	case errors.Is(err, ErrReportFailed), errors.Is(err, ErrSubmitFailed):
		response.Error(c, http.StatusBadGateway, "UPSTREAM_FAILED", err.Error())
	default:
		response.Error(c, http.StatusBadGateway, "UPSTREAM_FAILED", err.Error())
	}
}
