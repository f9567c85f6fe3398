package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
)

type Handler struct {
	service tutor.Service
}

func NewHandler(service tutor.Service) *Handler {
	return &Handler{service: service}
}

// UpsertMe creates or updates the calling tutor's profile.
// A new profile enters the verification queue as pending.
func (h *Handler) UpsertMe(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.Upsert(c.Request.Context(), auth.GetUserID(c), tutor.UpsertRequest{
		Bio:             req.Bio,
		Subjects:        req.Subjects,
		Grades:          req.Grades,
		Languages:       req.Languages,
		HourlyRateCents: req.HourlyRateCents,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// GetMe returns the calling tutor's own profile, including verification status.
func (h *Handler) GetMe(c *gin.Context) {
	p, err := h.service.GetByUserID(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// SetOnline toggles the calling tutor's availability flag.
func (h *Handler) SetOnline(c *gin.Context) {
	var req SetOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.SetOnline(c.Request.Context(), auth.GetUserID(c), *req.IsOnline); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search lists approved tutors for students.
func (h *Handler) Search(c *gin.Context) {
	var req SearchTutorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := tutor.SearchFilter{
		Subject:    req.Subject,
		Language:   req.Language,
		Grade:      req.Grade,
		OnlineOnly: req.OnlineOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	profiles, total, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search tutors"})
		return
	}

	items := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		items[i] = NewProfileResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns a single approved tutor's public profile.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.GetApproved(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// ListApplications returns the verification queue.
// Access Control: Admin only.
func (h *Handler) ListApplications(c *gin.Context) {
	var req ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	profiles, total, err := h.service.ListApplications(c.Request.Context(), tutor.ApplicationFilter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}

	items := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		items[i] = NewProfileResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Decide approves or rejects a pending application.
// Access Control: Admin only.
func (h *Handler) Decide(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Decide(c.Request.Context(), uri.ID, *req.Approve); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
