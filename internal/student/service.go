package student

import "context"

type Service interface {
	Upsert(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Upsert(ctx context.Context, p *Profile) error {
	return s.repo.Upsert(ctx, p)
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}
