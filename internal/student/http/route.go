package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, studentMiddleware gin.HandlerFunc) {
	group := g.Group("/students")
	group.Use(authMiddleware, studentMiddleware)
	{
		group.GET("/me", h.GetMe)
		group.PUT("/me", h.UpsertMe)
	}
}
