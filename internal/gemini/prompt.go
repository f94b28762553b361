package gemini

import "minichat-backend/internal/models"

// Upstream role names. The frontend speaks "assistant"; Gemini says "model".
const (
	roleUser  = "user"
	roleModel = "model"
)

// BuildContents assembles the upstream conversation: the most recent
// maxTurns history entries (0 means no cap), role-tagged, followed by the
// new user message as the final turn. Precondition: message is non-empty
// (the handler validates before calling).
func BuildContents(message string, history []models.ChatMessage, maxTurns int) []Content {
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	contents := make([]Content, 0, len(history)+1)
	for _, m := range history {
		role := roleUser
		if m.Role == "assistant" {
			role = roleModel
		}
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: m.Content}}})
	}

	return append(contents, Content{Role: roleUser, Parts: []Part{{Text: message}}})
}
