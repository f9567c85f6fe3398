package virtualtutor

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Service runs AI practice sessions for students. It is nil-safe on
// the generator: deployments without an API key keep the endpoint
// mounted but answer that the feature is unavailable.
type Service interface {
	Converse(ctx context.Context, req Request) (*Reply, error)
}

type service struct {
	generator Generator
	logger    zerolog.Logger
}

func NewService(generator Generator, logger zerolog.Logger) Service {
	return &service{
		generator: generator,
		logger:    logger.With().Str("component", "virtualtutor").Logger(),
	}
}

func (s *service) Converse(ctx context.Context, req Request) (*Reply, error) {
	if s.generator == nil {
		return nil, ErrNotConfigured
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("action", string(req.Action)).Msg("model call failed")
		return nil, ErrUpstream
	}

	// The model is asked for strict JSON; a malformed answer falls
	// back to a canned reply rather than surfacing an error to a kid.
	if req.Action == ActionSummarize {
		var summary SummaryReply
		if err := json.Unmarshal([]byte(text), &summary); err != nil {
			s.logger.Warn().Err(err).Msg("unparseable summary reply, using fallback")
			summary = SummaryReply{
				Summary: "Great job practicing English today! Keep up the good work!",
				Stars:   3,
				Badge:   "Language Learner",
			}
		}
		return &Reply{Summary: &summary}, nil
	}

	var chat ChatReply
	if err := json.Unmarshal([]byte(text), &chat); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable chat reply, using fallback")
		chat = ChatReply{
			SpokenResponse: "I'm having a little trouble thinking right now. Let's try again!",
			Vocabulary:     []string{},
			Hints:          []string{},
		}
	}
	return &Reply{Chat: &chat}, nil
}
