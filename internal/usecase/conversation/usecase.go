package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"biomni-chat/internal/application/port/input"
	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"
)

var _ input.ChatResponder = (*UseCase)(nil)

var ErrEmptyMessage = errors.New("message is empty")

// UseCase answers chat messages with a single agent call per message. It keeps
// no state between calls.
type UseCase struct {
	agent  output.AgentPort
	logger output.LoggerPort
}

func New(agent output.AgentPort, logger output.LoggerPort) *UseCase {
	return &UseCase{
		agent:  agent,
		logger: logger,
	}
}

func (uc *UseCase) Respond(ctx context.Context, message string, history []entity.HistoryEntry) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	prompt := ComposeFromEntries(message, history)
	uc.logger.Debug("Composed prompt", "historyEntries", len(history), "promptLen", len(prompt))

	result, err := uc.agent.Submit(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("agent submit failed: %w", err)
	}

	uc.logger.Info("Agent replied", "traceSteps", len(result.Trace), "answerLen", len(result.FinalAnswer))
	return result.FinalAnswer, nil
}
