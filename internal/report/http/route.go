package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.POST("/reports", authMiddleware, h.Create)

	admin := g.Group("/admin/reports")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.POST("/:id/close", h.Close)
	}
}
