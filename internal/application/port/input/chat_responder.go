package input

import (
	"context"

	"biomni-chat/internal/domain/entity"
)

type ChatResponder interface {
	Respond(ctx context.Context, message string, history []entity.HistoryEntry) (string, error)
}
