package notification

import (
	"context"
)

// Service defines business logic for user notifications.
// Notify is fire-and-forget from the caller's perspective: lifecycle
// operations never fail because a notification could not be written.
type Service interface {
	Notify(ctx context.Context, userID, typ string, data map[string]any) error
	List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, userID, typ string, data map[string]any) error {
	n := &Notification{
		UserID: userID,
		Type:   typ,
		Data:   data,
	}
	return s.repo.Create(ctx, n)
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, page, pageSize)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}
