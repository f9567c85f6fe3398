package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/response"
	"github.com/quicktutor/quicktutor-backend/internal/virtualtutor"
)

type Handler struct {
	service virtualtutor.Service
}

func NewHandler(service virtualtutor.Service) *Handler {
	return &Handler{service: service}
}

// Converse proxies one turn of an AI practice session. The reply
// shape depends on the action: chat turns and the final summary
// carry different fields.
func (h *Handler) Converse(c *gin.Context) {
	var req ConverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	reply, err := h.service.Converse(c.Request.Context(), req.toModel())
	if err != nil {
		response.Error(c, err)
		return
	}

	if reply.Summary != nil {
		c.JSON(http.StatusOK, reply.Summary)
		return
	}
	c.JSON(http.StatusOK, reply.Chat)
}
