package ollama

import (
	"context"
	"fmt"

	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultServerURL = "http://127.0.0.1:11434"

// Adapter uses Ollama's native chat API. It does not offer tools; requests
// that carry tool definitions are sent without them.
type Adapter struct {
	llm    llms.Model
	model  string
	logger output.LoggerPort
}

type Config struct {
	Model     string
	ServerURL string
	Logger    output.LoggerPort
}

func NewAdapter(cfg Config) (*Adapter, error) {
	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	llm, err := lcollama.New(
		lcollama.WithModel(cfg.Model),
		lcollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return &Adapter{llm: llm, model: cfg.Model, logger: cfg.Logger}, nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	if len(req.Tools) > 0 && a.logger != nil {
		a.logger.Debug("Ollama adapter ignores tool definitions", "tools", len(req.Tools))
	}

	resp, err := a.llm.GenerateContent(ctx, convertMessages(req.Messages),
		llms.WithTemperature(float64(req.Temperature)),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama %s: %w", a.model, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: resp.Choices[0].Content,
		},
	}, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		result = append(result, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}
	return result
}

func chatMessageType(role entity.MessageRole) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
