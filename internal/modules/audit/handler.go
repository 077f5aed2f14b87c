package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"opsdeck/internal/pkg/response"
	"opsdeck/internal/repository"
)

type Handler struct {
	repo *repository.AuditRepository
}

func NewHandler(repo *repository.AuditRepository) *Handler {
	return &Handler{repo: repo}
}

// ListRecords handles GET /api/v1/audit/records
func (h *Handler) ListRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load audit records")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit/records", h.ListRecords)
}
