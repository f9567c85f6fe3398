package virtualtutor

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestConverseChat(t *testing.T) {
	gen := &stubGenerator{reply: `{"spoken_response":"Nice! What did you eat?","correction":null,"vocabulary":["nasi","spicy","tasty"],"hints":["I ate...","It tasted..."]}`}
	svc := NewService(gen, zerolog.Nop())

	reply, err := svc.Converse(context.Background(), Request{
		Action:  ActionChat,
		Theme:   "Food",
		Message: "I go to the mamak yesterday",
		History: []Turn{{Role: "tutor", Text: "What did you do this weekend?"}},
	})
	require.NoError(t, err)
	require.NotNil(t, reply.Chat)
	assert.Nil(t, reply.Summary)
	assert.Equal(t, "Nice! What did you eat?", reply.Chat.SpokenResponse)
	assert.Len(t, reply.Chat.Vocabulary, 3)

	// The prompt carries the theme, the student's line and the history.
	assert.Contains(t, gen.prompt, `"Food"`)
	assert.Contains(t, gen.prompt, "I go to the mamak yesterday")
	assert.Contains(t, gen.prompt, "Previous Context:")
	assert.Contains(t, gen.prompt, "What did you do this weekend?")
}

func TestConverseChatTruncatesHistory(t *testing.T) {
	gen := &stubGenerator{reply: `{"spoken_response":"ok","vocabulary":[],"hints":[]}`}
	svc := NewService(gen, zerolog.Nop())

	history := make([]Turn, 10)
	for i := range history {
		history[i] = Turn{Role: "student", Text: strings.Repeat("x", 3) + string(rune('a'+i))}
	}

	_, err := svc.Converse(context.Background(), Request{
		Action: ActionChat, Theme: "Animals", Message: "hi", History: history,
	})
	require.NoError(t, err)

	// Only the last six turns make it into the prompt.
	assert.NotContains(t, gen.prompt, "xxxa")
	assert.Contains(t, gen.prompt, "xxxj")
}

func TestConverseSummarize(t *testing.T) {
	gen := &stubGenerator{reply: `{"summary":"You talked about pets and used past tense well!","stars":4,"badge":"Word Wizard"}`}
	svc := NewService(gen, zerolog.Nop())

	reply, err := svc.Converse(context.Background(), Request{
		Action:  ActionSummarize,
		Theme:   "Pets",
		History: []Turn{{Role: "student", Text: "I have a cat"}},
	})
	require.NoError(t, err)
	require.NotNil(t, reply.Summary)
	assert.Nil(t, reply.Chat)
	assert.Equal(t, 4, reply.Summary.Stars)
	assert.Equal(t, "Word Wizard", reply.Summary.Badge)
}

func TestConverseMalformedReplyFallsBack(t *testing.T) {
	gen := &stubGenerator{reply: "not json at all"}
	svc := NewService(gen, zerolog.Nop())

	reply, err := svc.Converse(context.Background(), Request{Action: ActionStart, Theme: "School"})
	require.NoError(t, err)
	require.NotNil(t, reply.Chat)
	assert.Contains(t, reply.Chat.SpokenResponse, "try again")

	reply, err = svc.Converse(context.Background(), Request{Action: ActionSummarize, Theme: "School"})
	require.NoError(t, err)
	require.NotNil(t, reply.Summary)
	assert.Equal(t, 3, reply.Summary.Stars)
}

func TestConverseGuards(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	_, err := svc.Converse(context.Background(), Request{Action: ActionStart, Theme: "School"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	svc = NewService(&stubGenerator{reply: "{}"}, zerolog.Nop())
	_, err = svc.Converse(context.Background(), Request{Action: Action("DANCE"), Theme: "School"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}
