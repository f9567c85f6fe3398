package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, studentMiddleware, tutorMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.GET("/:id/events", h.Events)

		group.POST("", studentMiddleware, h.Create)
		group.POST("/:id/cancel", studentMiddleware, h.Cancel)
		group.POST("/:id/request-early-end", studentMiddleware, h.RequestEarlyEnd)

		group.POST("/:id/accept", tutorMiddleware, h.Accept)
		group.POST("/:id/reject", tutorMiddleware, h.Reject)
		group.POST("/:id/start", tutorMiddleware, h.StartClass)
		group.POST("/:id/approve-early-end", tutorMiddleware, h.ApproveEarlyEnd)
		group.POST("/:id/reject-early-end", tutorMiddleware, h.RejectEarlyEnd)
		group.POST("/:id/end", tutorMiddleware, h.EndClass)
	}
}

// RegisterAdminRoutes mounts the back-office status override.
func RegisterAdminRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/admin/bookings")
	group.Use(authMiddleware, adminMiddleware)
	{
		group.PATCH("/:id/status", h.ForceStatus)
	}
}
