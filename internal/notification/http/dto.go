package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/notification"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/request"
)

// ListNotificationsRequest defines query parameters for listing notifications.
type ListNotificationsRequest struct {
	request.ListParams
	UnreadOnly bool `form:"unread_only"`
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
