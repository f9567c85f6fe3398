package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/report"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

type Handler struct {
	service report.Service
}

func NewHandler(service report.Service) *Handler {
	return &Handler{service: service}
}

// Create files a report against another user.
func (h *Handler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.Create(c.Request.Context(),
		auth.GetUserID(c), user.Role(auth.GetUserRole(c)),
		report.CreateRequest{
			AgainstUserID: req.AgainstUserID,
			BookingID:     req.BookingID,
			Reason:        req.Reason,
			Comments:      req.Comments,
			FileID:        req.FileID,
		})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReportResponse(r))
}

// List returns the admin report queue.
func (h *Handler) List(c *gin.Context) {
	var req ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	reports, total, err := h.service.List(c.Request.Context(), report.Filter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewReportListResponse(reports), req.Page, req.PageSize, total))
}

// Get returns a single report for the back office.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReportResponse(r))
}

// Close resolves or dismisses an open report.
func (h *Handler) Close(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req CloseReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.service.Close(c.Request.Context(), uriReq.ID, report.ReportStatus(req.Status), req.Resolution)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReportResponse(r))
}
