package notification

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("/current", h.GetCurrent) // GET /api/v1/notifications/current
		n.DELETE("/current", h.Dismiss) // DELETE /api/v1/notifications/current
	}
}

func (h *Handler) RegisterWebSocket(r *gin.Engine) {
	r.GET("/ws/notifications", h.HandleWebSocket)
}
