package conversation

import (
	"context"
	"errors"
	"testing"

	"biomni-chat/internal/domain/entity"
	"biomni-chat/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAgent struct {
	prompts []string
	result  *entity.AgentResult
	err     error
}

func (a *recordingAgent) Submit(ctx context.Context, prompt string) (*entity.AgentResult, error) {
	a.prompts = append(a.prompts, prompt)
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func TestUseCase_RespondSubmitsOnce(t *testing.T) {
	agent := &recordingAgent{result: &entity.AgentResult{
		Trace:       []entity.TraceEntry{{Step: 1, Kind: entity.TraceKindAssistant, Content: "thinking"}},
		FinalAnswer: "<solution>G1/S, G2/M, spindle</solution>",
	}}
	uc := New(agent, logger.NewNop())

	reply, err := uc.Respond(context.Background(), "bye", []entity.HistoryEntry{entity.Pair("hi", "hello!")})

	require.NoError(t, err)
	assert.Equal(t, "<solution>G1/S, G2/M, spindle</solution>", reply)
	require.Len(t, agent.prompts, 1)
	assert.Equal(t, ComposeFromEntries("bye", []entity.HistoryEntry{entity.Pair("hi", "hello!")}), agent.prompts[0])
}

func TestUseCase_RespondPropagatesAgentError(t *testing.T) {
	boom := errors.New("connection refused")
	uc := New(&recordingAgent{err: boom}, logger.NewNop())

	_, err := uc.Respond(context.Background(), "hello", nil)

	assert.ErrorIs(t, err, boom)
}

func TestUseCase_RejectsBlankMessage(t *testing.T) {
	agent := &recordingAgent{}
	uc := New(agent, logger.NewNop())

	_, err := uc.Respond(context.Background(), "   ", nil)

	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, agent.prompts)
}
