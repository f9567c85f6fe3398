package virtualtutor

import (
	"fmt"
	"strings"
)

const systemInstructions = `You are Quicky, a friendly and enthusiastic English tutor for Malaysian primary school kids.
You speak simple, clear English suitable for 7-12 year olds.
Your goal is to help them practice speaking about specific topics.

JSON Output Format (for START and CHAT actions):
{
  "spoken_response": "String (The main response text to speak)",
  "correction": "String (Optional: specific grammar correction if needed, or null)",
  "vocabulary": ["Word1", "Word2", "Word3"],
  "hints": ["Hint phrase 1...", "Hint phrase 2..."]
}

JSON Output Format (for SUMMARIZE action ONLY):
{
  "summary": "String (A friendly paragraph summarizing what the student did well and what they talked about)",
  "stars": Number (An integer 1-5 based on their performance: 1=poor, 2=needs improvement, 3=good, 4=very good, 5=excellent),
  "badge": "String (A short fun title like 'Grammar Guru', 'Chatty Cathy', 'Word Wizard', 'Story Star', etc.)"
}`

// formatHistory renders prior turns as "role: text" lines.
func formatHistory(history []Turn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, t.Role+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

// buildPrompt assembles the full prompt for a request. The action
// shapes the task; the system instructions pin the output contract.
func buildPrompt(req Request) (string, error) {
	var task string

	switch req.Action {
	case ActionStart:
		task = fmt.Sprintf(`Start a conversation about the theme: %q.
Ask an engaging opening question.
Vocabulary: Provide 3 simple vocabulary words that will help the user answer this question.
Hints: Provide 2 sentence starters (incomplete sentences) to help them answer. Example: 'I think that...', 'It reminds me of...'.`, req.Theme)

	case ActionChat:
		task = fmt.Sprintf(`Theme: %q.
Student said: %q.

1. Check grammar. If there's a mistake, put a gentle correction in the "correction" field (e.g., "Good try! We say 'I *went* to KLCC', not 'I go'.").
2. Reply naturally to the student's message in "spoken_response". Keep it encouraging and brief (1-2 sentences). Ask a follow-up question.
3. Vocabulary: Provide 3 simple vocabulary words that will help the user answer your specific follow-up question.
4. Hints: Provide 2 sentence starters (incomplete sentences) for their next turn. They should NOT be full answers. Example: 'I like...', 'My favorite is...'.`, req.Theme, req.Message)

		// Only the recent turns matter for coherence.
		if len(req.History) > 0 {
			history := req.History
			if len(history) > 6 {
				history = history[len(history)-6:]
			}
			task = "Previous Context:\n" + formatHistory(history) + "\n\n" + task
		}

	case ActionSummarize:
		task = fmt.Sprintf(`Conversation History:
%s

Task: Generate a summary of the student's performance.

1. "summary": Write a friendly paragraph (2-3 sentences) summarizing what the student did well and what they talked about during this chat about %q. End with an encouraging remark.

2. "stars": Rate their performance as an integer from 1 to 5:
   - 1 = Poor (many mistakes, very short answers)
   - 2 = Needs Improvement (some mistakes, short answers)
   - 3 = Good (few mistakes, decent answers)
   - 4 = Very Good (minimal mistakes, good answers)
   - 5 = Excellent (no mistakes, detailed and creative answers)

3. "badge": Give them a fun, encouraging title based on their performance. Examples: "Grammar Guru", "Chatty Cathy", "Word Wizard", "Story Star", "Confident Communicator", "Language Learner", "Speaking Superstar", etc.

IMPORTANT: Do NOT include "spoken_response", "correction", "vocabulary", or "hints" in your response. Only return "summary", "stars", and "badge".`, formatHistory(req.History), req.Theme)

	default:
		return "", ErrInvalidAction
	}

	return systemInstructions + "\n\nTask:\n" + task, nil
}
