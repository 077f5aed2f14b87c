package dashboard

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	d := r.Group("/dashboard")
	{
		d.GET("/snapshot", h.GetSnapshot)          // GET /api/v1/dashboard/snapshot
		d.POST("/refresh", h.RefreshSnapshot)      // POST /api/v1/dashboard/refresh
		d.GET("/problem-items", h.GetProblemItems) // GET /api/v1/dashboard/problem-items
	}
}
