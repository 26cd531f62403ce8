package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"biomni-chat/internal/adapter/tool"
	"biomni-chat/internal/application/port/input"
	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/application/service"
	"biomni-chat/internal/domain/entity"
	"biomni-chat/internal/infrastructure/llm/ollama"
	"biomni-chat/internal/infrastructure/llm/openaicompat"
	"biomni-chat/internal/infrastructure/logger"
	"biomni-chat/internal/infrastructure/prompts"
	"biomni-chat/internal/infrastructure/storage"
	"biomni-chat/internal/infrastructure/web"
	"biomni-chat/internal/usecase/conversation"
	"biomni-chat/internal/usecase/executor"
)

const (
	DefaultDataRoot = "./biomni_full"
	DefaultModel    = "gpt-oss:20b"
	defaultTimeout  = 600 * time.Second
)

type Container struct {
	Logger    output.LoggerPort
	Storage   *storage.Local
	LLM       output.LLMPort
	Tools     output.ToolRegistry
	Agent     output.AgentPort
	Responder input.ChatResponder
}

type Config struct {
	Agent        entity.AgentConfig
	SystemPrompt string
	LogLevel     string
	LogDev       bool
	// Logger overrides the zap logger built from LogLevel, mainly for tests.
	Logger output.LoggerPort
}

// ConfigFromEnv reads BIOMNI_* settings. Unset values fall back to the local
// Ollama defaults.
func ConfigFromEnv(env output.ConfigPort) Config {
	return Config{
		Agent: entity.AgentConfig{
			Path:                  env.GetWithDefault("BIOMNI_DATA_ROOT", DefaultDataRoot),
			LLM:                   env.GetWithDefault("BIOMNI_LLM", DefaultModel),
			Source:                ParseSource(env.GetWithDefault("BIOMNI_SOURCE", string(entity.SourceOllama))),
			BaseURL:               env.Get("BIOMNI_BASE_URL"),
			APIKey:                env.Get("BIOMNI_API_KEY"),
			UseToolRetriever:      env.GetBool("BIOMNI_USE_TOOL_RETRIEVER", false),
			Timeout:               env.GetDuration("BIOMNI_TIMEOUT", defaultTimeout),
			ExpectedDataLakeFiles: env.GetList("BIOMNI_EXPECTED_DATA_LAKE_FILES"),
			Temperature:           float32(env.GetInt("BIOMNI_TEMPERATURE_PERCENT", 0)) / 100,
			MaxSteps:              env.GetInt("BIOMNI_MAX_STEPS", 0),
		},
		LogLevel: env.GetWithDefault("LOG_LEVEL", "info"),
		LogDev:   env.GetBool("LOG_DEV", false),
	}
}

// ParseSource matches provider names case-insensitively; unknown names are
// treated as a custom OpenAI-compatible endpoint.
func ParseSource(s string) entity.Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama":
		return entity.SourceOllama
	case "openai":
		return entity.SourceOpenAI
	default:
		return entity.SourceCustom
	}
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		zl, err := logger.NewLoggerAdapter(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDev})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = zl
	}

	agentCfg := cfg.Agent
	store := storage.NewLocal(agentCfg.Path)
	if err := store.Prepare(); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to prepare local storage: %w", err)
	}
	for _, name := range store.MissingExpected(agentCfg.ExpectedDataLakeFiles) {
		log.Warn("Expected data lake file is missing", "file", name, "dir", store.DataLakeDir())
	}

	llm, offerTools, err := newLLM(agentCfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	tools := service.NewToolRegistry()
	registerTools(tools, store, log)

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt
	}

	agent := executor.New(llm, tools, log.WithField("component", "agent"), systemPrompt, executor.Options{
		UseToolRetriever: agentCfg.UseToolRetriever,
		Timeout:          agentCfg.Timeout,
		Temperature:      agentCfg.Temperature,
		MaxSteps:         agentCfg.MaxSteps,
		OfferTools:       offerTools,
	})

	log.Info("Agent configured",
		"path", agentCfg.Path,
		"llm", agentCfg.LLM,
		"source", agentCfg.Source,
		"useToolRetriever", agentCfg.UseToolRetriever,
		"timeout", agentCfg.Timeout.String(),
	)

	return &Container{
		Logger:    log,
		Storage:   store,
		LLM:       llm,
		Tools:     tools,
		Agent:     agent,
		Responder: conversation.New(agent, log.WithField("component", "chat")),
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newLLM(cfg entity.AgentConfig, log output.LoggerPort) (output.LLMPort, bool, error) {
	switch cfg.Source {
	case entity.SourceOllama:
		llm, err := ollama.NewAdapter(ollama.Config{
			Model:     cfg.LLM,
			ServerURL: cfg.BaseURL,
			Logger:    log,
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return llm, false, nil
	case entity.SourceOpenAI, entity.SourceCustom:
		llmCfg := openaicompat.DefaultConfig(cfg.APIKey, cfg.LLM)
		if cfg.BaseURL != "" {
			llmCfg.BaseURL = cfg.BaseURL
		}
		llmCfg.Logger = log.WithField("component", "llm")
		return openaicompat.NewAdapter(llmCfg), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported llm source %q", cfg.Source)
	}
}

func registerTools(registry *service.ToolRegistryImpl, store *storage.Local, log output.LoggerPort) {
	registry.Register(tool.NewListDataLakeTool(store, log))
	registry.Register(tool.NewReadDataLakeFileTool(store, log))
	registry.Register(tool.NewFetchURLTool(web.NewFetcher(30*time.Second), log))
}
