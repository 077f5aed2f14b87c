package restock

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/restock/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.CancelSession)
		sessions.POST("/:id/toggle", h.ToggleItem)
		sessions.POST("/:id/select-all", h.SelectAll)
		sessions.POST("/:id/quantity", h.SetQuantity)
		sessions.POST("/:id/advance", h.Advance)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/report-broken", h.ReportBroken)
		sessions.POST("/:id/skip-broken", h.SkipBroken)
	}
}
