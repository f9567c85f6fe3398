package virtualtutor

import (
	"net/http"

	"github.com/quicktutor/quicktutor-backend/internal/pkg/apperror"
)

var (
	ErrNotConfigured = apperror.New(http.StatusServiceUnavailable, "virtual tutor is not configured")
	ErrInvalidAction = apperror.New(http.StatusBadRequest, "invalid action")
	ErrUpstream      = apperror.New(http.StatusBadGateway, "virtual tutor is unavailable, try again")
)

// Action selects the conversation phase.
type Action string

const (
	ActionStart     Action = "START"
	ActionChat      Action = "CHAT"
	ActionSummarize Action = "SUMMARIZE"
)

// Turn is one prior exchange in the practice session. The client
// keeps the transcript; the backend is stateless.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request is one call into the practice session.
type Request struct {
	Action  Action
	Theme   string
	Message string
	History []Turn
}

// ChatReply is the model's answer for START and CHAT.
type ChatReply struct {
	SpokenResponse string   `json:"spoken_response"`
	Correction     *string  `json:"correction"`
	Vocabulary     []string `json:"vocabulary"`
	Hints          []string `json:"hints"`
}

// SummaryReply is the model's answer for SUMMARIZE.
type SummaryReply struct {
	Summary string `json:"summary"`
	Stars   int    `json:"stars"`
	Badge   string `json:"badge"`
}

// Reply holds whichever shape the action produced.
type Reply struct {
	Chat    *ChatReply
	Summary *SummaryReply
}
