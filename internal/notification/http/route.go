package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/notifications")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("/:id/read", h.MarkRead)
		group.POST("/read-all", h.MarkAllRead)
	}
}
