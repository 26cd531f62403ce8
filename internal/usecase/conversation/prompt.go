package conversation

import (
	"strings"

	"biomni-chat/internal/domain/entity"
)

const Preamble = "Respond with your reasoning, then wrap the final summary in <solution> tags. " +
	"Stay grounded in biomedical knowledge and cite pathways or markers when helpful."

const (
	priorHeader  = "\n\nPrior conversation:\n"
	latestHeader = "\n\nLatest user request:\n"
)

// ComposePrompt builds the instruction sent to the agent. The whole history
// is included; context window limits are the agent's concern.
func ComposePrompt(message string, history []entity.Turn) string {
	var sb strings.Builder
	sb.WriteString(Preamble)

	if len(history) > 0 {
		sb.WriteString(priorHeader)
		for i, turn := range history {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(rolePretty(turn.Role))
			sb.WriteString(": ")
			sb.WriteString(turn.Text)
		}
	}

	sb.WriteString(latestHeader)
	sb.WriteString(message)
	return sb.String()
}

func ComposeFromEntries(message string, entries []entity.HistoryEntry) string {
	return ComposePrompt(message, NormalizeHistory(entries))
}

func rolePretty(role entity.MessageRole) string {
	if role == entity.RoleUser {
		return "User"
	}
	return "Assistant"
}
