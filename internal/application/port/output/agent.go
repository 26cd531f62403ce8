package output

import (
	"context"

	"biomni-chat/internal/domain/entity"
)

// AgentPort submits one prompt to the reasoning agent and returns its trace
// and final answer.
type AgentPort interface {
	Submit(ctx context.Context, prompt string) (*entity.AgentResult, error)
}
