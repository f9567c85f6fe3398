package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/review"
)

type Handler struct {
	service review.Service
}

func NewHandler(service review.Service) *Handler {
	return &Handler{service: service}
}

// SubmitReview lets a student review the tutor of a completed booking.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.SubmitReview(c.Request.Context(), auth.GetUserID(c), review.SubmitReviewRequest{
		BookingID:    req.BookingID,
		Rating:       req.Rating,
		Comment:      req.Comment,
		BehaviorTags: req.BehaviorTags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReviewResponse(r))
}

// ListByTutor returns a tutor's public reviews.
func (h *Handler) ListByTutor(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	reviews, total, err := h.service.ListByTutor(c.Request.Context(), uriReq.ID, params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewReviewListResponse(reviews), params.Page, params.PageSize, total))
}

// SubmitStudentRating lets a tutor rate the student of a completed booking.
func (h *Handler) SubmitStudentRating(c *gin.Context) {
	var req SubmitStudentRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.SubmitStudentRating(c.Request.Context(), auth.GetUserID(c), review.SubmitStudentRatingRequest{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewStudentRatingResponse(r))
}

// ListByStudent returns the ratings a student has received. Admin only.
func (h *Handler) ListByStudent(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ratings, total, err := h.service.ListByStudent(c.Request.Context(), uriReq.ID, params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewStudentRatingListResponse(ratings), params.Page, params.PageSize, total))
}
