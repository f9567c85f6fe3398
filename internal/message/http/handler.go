package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/message"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/user"
)

type Handler struct {
	service message.Service
	bus     *feed.Bus
}

func NewHandler(service message.Service, bus *feed.Bus) *Handler {
	return &Handler{service: service, bus: bus}
}

// Send appends a chat line from the calling participant.
func (h *Handler) Send(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	m, err := h.service.Append(c.Request.Context(), uriReq.ID, auth.GetUserID(c), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewMessageResponse(m))
}

// List returns the booking's chat history in chronological order.
func (h *Handler) List(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	messages, total, err := h.service.List(c.Request.Context(),
		uriReq.ID, auth.GetUserID(c), user.Role(auth.GetUserRole(c)), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewMessageListResponse(messages), req.Page, req.PageSize, total))
}

// Events streams message inserts for the booking over SSE.
func (h *Handler) Events(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// The list call doubles as the access check.
	if _, _, err := h.service.List(c.Request.Context(),
		uriReq.ID, auth.GetUserID(c), user.Role(auth.GetUserRole(c)), 1, 1); err != nil {
		response.Error(c, err)
		return
	}

	sub := h.bus.Subscribe(c.Request.Context(), feed.MessageChannel(uriReq.ID))
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
			c.SSEvent("message", string(event))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
