package http

import (
	"time"

	"github.com/quicktutor/quicktutor-backend/internal/message"
)

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

type ListMessagesRequest struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=50" binding:"omitempty,min=1,max=200"`
}

type MessageResponse struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	SenderID   *string   `json:"sender_id"`
	SenderName *string   `json:"sender_name"`
	Content    string    `json:"content"`
	IsSystem   bool      `json:"is_system"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		BookingID:  m.BookingID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		IsSystem:   m.IsSystem,
		CreatedAt:  m.CreatedAt,
	}
}

func NewMessageListResponse(messages []*message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
