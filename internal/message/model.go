package message

import (
	"net/http"
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrChatClosed       = apperror.New(http.StatusConflict, "chat is closed for this booking")
	ErrEmptyContent     = apperror.New(http.StatusBadRequest, "message content must not be empty")
)

// Message represents a booking_messages row. System lines have no
// sender; they are appended by lifecycle transitions.
type Message struct {
	ID         string
	BookingID  string
	SenderID   *string
	SenderName *string
	Content    string
	IsSystem   bool
	CreatedAt  time.Time
}
