package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opsdeck/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSnapshot handles GET /api/v1/dashboard/snapshot
func (h *Handler) GetSnapshot(c *gin.Context) {
	snap := h.service.Snapshot(c.Request.Context())
	response.Success(c, http.StatusOK, snap)
}

// RefreshSnapshot handles POST /api/v1/dashboard/refresh
func (h *Handler) RefreshSnapshot(c *gin.Context) {
	snap := h.service.Refresh(c.Request.Context())
	response.Success(c, http.StatusOK, snap)
}

// GetProblemItems handles GET /api/v1/dashboard/problem-items
func (h *Handler) GetProblemItems(c *gin.Context) {
	snap := h.service.Snapshot(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{
		"items": snap.ProblemItems,
		"total": len(snap.ProblemItems),
	})
}
