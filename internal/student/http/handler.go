package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/student"
)

type Handler struct {
	service student.Service
}

func NewHandler(service student.Service) *Handler {
	return &Handler{service: service}
}

// UpsertMe creates or updates the calling student's profile.
func (h *Handler) UpsertMe(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p := &student.Profile{
		UserID:             auth.GetUserID(c),
		GradeLevel:         req.GradeLevel,
		PreferredSubjects:  req.PreferredSubjects,
		PreferredLanguages: req.PreferredLanguages,
	}

	if err := h.service.Upsert(c.Request.Context(), p); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// GetMe returns the calling student's own profile.
func (h *Handler) GetMe(c *gin.Context) {
	p, err := h.service.GetByUserID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}
