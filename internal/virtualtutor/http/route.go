package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, studentMiddleware gin.HandlerFunc) {
	g.POST("/virtual-tutor", authMiddleware, studentMiddleware, h.Converse)
}
