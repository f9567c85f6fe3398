package http

import (
	"github.com/quicktutor/quicktutor-backend/internal/virtualtutor"
)

type TurnRequest struct {
	Role string `json:"role" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type ConverseRequest struct {
	Action  string        `json:"action" binding:"required,oneof=START CHAT SUMMARIZE"`
	Theme   string        `json:"theme" binding:"required,max=200"`
	Message string        `json:"message" binding:"max=2000"`
	History []TurnRequest `json:"history" binding:"max=100,dive"`
}

func (r ConverseRequest) toModel() virtualtutor.Request {
	history := make([]virtualtutor.Turn, 0, len(r.History))
	for _, t := range r.History {
		history = append(history, virtualtutor.Turn{Role: t.Role, Text: t.Text})
	}
	return virtualtutor.Request{
		Action:  virtualtutor.Action(r.Action),
		Theme:   r.Theme,
		Message: r.Message,
		History: history,
	}
}
