package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"opsdeck/internal/pkg/response"
	"opsdeck/internal/upstream"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type archiveRequest struct {
	Actor string `json:"actor"`
}

// ArchiveCategory handles PUT /api/v1/catalog/categories/:id/archive
func (h *Handler) ArchiveCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req archiveRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.ArchiveCategory(c.Request.Context(), id, req.Actor); err != nil {
		response.Error(c, http.StatusBadGateway, "UPSTREAM_FAILED", upstream.Message(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"archived": true})
}

// ArchiveLocation handles PUT /api/v1/catalog/locations/:id/archive
func (h *Handler) ArchiveLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req archiveRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.ArchiveLocation(c.Request.Context(), id, req.Actor); err != nil {
		response.Error(c, http.StatusBadGateway, "UPSTREAM_FAILED", upstream.Message(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"archived": true})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
