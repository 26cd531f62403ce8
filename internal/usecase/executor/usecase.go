package executor

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"
)

var _ output.AgentPort = (*UseCase)(nil)

var ErrMaxSteps = errors.New("max steps exceeded")

const (
	defaultMaxSteps   = 20
	maxObservationLen = 20000
)

type Options struct {
	UseToolRetriever bool
	Timeout          time.Duration
	Temperature      float32
	MaxSteps         int
	// OfferTools is false for providers without tool calling.
	OfferTools bool
}

// UseCase is the agent: a bounded loop of LLM calls and tool executions
// recorded as a trace.
type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	logger       output.LoggerPort
	systemPrompt string
	opts         Options
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
	opts Options,
) *UseCase {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	return &UseCase{
		llm:          llm,
		tools:        tools,
		logger:       logger,
		systemPrompt: systemPrompt,
		opts:         opts,
	}
}

func (uc *UseCase) Submit(ctx context.Context, prompt string) (*entity.AgentResult, error) {
	if uc.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.Timeout)
		defer cancel()
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.systemPrompt},
		{Role: entity.RoleUser, Content: prompt},
	}

	trace := []entity.TraceEntry{{Step: 0, Kind: entity.TraceKindPrompt, Content: prompt}}

	var toolDefs []entity.ToolDefinition
	if uc.opts.OfferTools {
		if uc.opts.UseToolRetriever {
			toolDefs = uc.tools.Retrieve(prompt)
		} else {
			toolDefs = uc.tools.Definitions()
		}
	}

	for step := 1; step <= uc.opts.MaxSteps; step++ {
		uc.logger.Debug("Starting step", "step", step, "tools", len(toolDefs))

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.opts.Temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed at step %d: %w", step, err)
		}

		messages = append(messages, resp.Message)
		if resp.Message.Content != "" {
			trace = append(trace, entity.TraceEntry{
				Step:    step,
				Kind:    entity.TraceKindAssistant,
				Content: resp.Message.Content,
			})
		}

		if len(resp.Message.ToolCalls) == 0 {
			return &entity.AgentResult{
				Trace:       trace,
				FinalAnswer: resp.Message.Content,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			trace = append(trace, entity.TraceEntry{
				Step:    step,
				Kind:    entity.TraceKindToolCall,
				Name:    tc.Name.String(),
				Content: tc.Arguments,
			})

			observation := uc.executeTool(ctx, tc)

			trace = append(trace, entity.TraceEntry{
				Step:    step,
				Kind:    entity.TraceKindObservation,
				Name:    tc.Name.String(),
				Content: observation,
			})
			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name.String(),
				Content:    observation,
			})
		}
	}

	return nil, fmt.Errorf("%w (%d)", ErrMaxSteps, uc.opts.MaxSteps)
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) string {
	tool, ok := uc.tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		cut := maxObservationLen
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
