package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, tutorMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/tutors")
	group.Use(authMiddleware)
	{
		// Tutor self-service
		group.GET("/me", tutorMiddleware, h.GetMe)
		group.PUT("/me", tutorMiddleware, h.UpsertMe)
		group.PATCH("/me/online", tutorMiddleware, h.SetOnline)

		// Student-facing catalogue
		group.GET("", h.Search)
		group.GET("/:id", h.Get)
	}

	admin := g.Group("/admin/tutor-applications")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.ListApplications)
		admin.POST("/:id/decision", h.Decide)
	}
}
