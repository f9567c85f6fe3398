package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, studentMiddleware, tutorMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/reviews")
	group.Use(authMiddleware)
	{
		group.POST("", studentMiddleware, h.SubmitReview)
		group.POST("/students", tutorMiddleware, h.SubmitStudentRating)
	}

	// Public within the app: any signed-in user can read a tutor's reviews.
	g.GET("/tutors/:id/reviews", authMiddleware, h.ListByTutor)

	g.GET("/admin/students/:id/ratings", authMiddleware, adminMiddleware, h.ListByStudent)
}
