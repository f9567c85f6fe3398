package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings/:id/messages")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Send)
		group.GET("/events", h.Events)
	}
}
