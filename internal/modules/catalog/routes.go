package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.PUT("/categories/:id/archive", h.ArchiveCategory)
		catalog.PUT("/locations/:id/archive", h.ArchiveLocation)
	}
}
