package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/booking"
	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

type Handler struct {
	service booking.Service
	bus     *feed.Bus
}

func NewHandler(service booking.Service, bus *feed.Bus) *Handler {
	return &Handler{service: service, bus: bus}
}

// Create handles a student requesting a session with a tutor.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), booking.CreateRequest{
		TutorID:         req.TutorID,
		Subject:         req.Subject,
		GradeLevel:      req.GradeLevel,
		Language:        req.Language,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// List returns the caller's bookings, newest first. Admins see all.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(),
		auth.GetUserID(c), user.Role(auth.GetUserRole(c)),
		booking.Filter{
			Status:    req.Status,
			Page:      req.Page,
			PageSize:  req.PageSize,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewBookingListResponse(bookings), req.Page, req.PageSize, total))
}

// Get returns a single booking visible to the caller.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetForUser(c.Request.Context(), req.ID, auth.GetUserID(c), user.Role(auth.GetUserRole(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// transition factors the shared shape of the lifecycle endpoints:
// bind the id, run the operation as the caller, return the row.
func (h *Handler) transition(c *gin.Context, op func(id, callerID string) (*booking.Booking, error)) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := op(req.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.Accept(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.Reject(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.Cancel(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) StartClass(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.StartClass(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) RequestEarlyEnd(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.RequestEarlyEnd(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) ApproveEarlyEnd(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.ApproveEarlyEnd(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) RejectEarlyEnd(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.RejectEarlyEnd(c.Request.Context(), id, callerID)
	})
}

func (h *Handler) EndClass(c *gin.Context) {
	h.transition(c, func(id, callerID string) (*booking.Booking, error) {
		return h.service.EndClass(c.Request.Context(), id, callerID)
	})
}

// ForceStatus is the admin-only status override.
func (h *Handler) ForceStatus(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.ForceStatus(c.Request.Context(), uriReq.ID, booking.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Events streams booking row updates to a participant over SSE. The
// stream carries the change feed only; the client reads the current
// row once before subscribing and reconciles from there.
func (h *Handler) Events(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// Access check up front; the feed itself carries no authorization.
	if _, err := h.service.GetForUser(c.Request.Context(), req.ID, auth.GetUserID(c), user.Role(auth.GetUserRole(c))); err != nil {
		response.Error(c, err)
		return
	}

	sub := h.bus.Subscribe(c.Request.Context(), feed.BookingChannel(req.ID))
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("booking", string(event))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
