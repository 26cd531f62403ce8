package main

import (
	"context"
	"log"

	"biomni-chat/internal/di"
	"biomni-chat/internal/infrastructure/env"
	"biomni-chat/internal/infrastructure/prompts"
	"biomni-chat/internal/infrastructure/userinteraction"

	flag "github.com/spf13/pflag"
)

func main() {
	envService := env.NewEnvService()
	cfg := di.ConfigFromEnv(envService)

	prompt := flag.String("prompt", prompts.CLIDefaultPrompt, "Task prompt to send to the agent.")
	flag.StringVar(&cfg.Agent.LLM, "model", cfg.Agent.LLM, "Model identifier.")
	source := flag.String("source", string(cfg.Agent.Source), "LLM provider: Ollama, OpenAI or Custom.")
	flag.StringVar(&cfg.Agent.Path, "data-root", cfg.Agent.Path, "Local storage root for the data lake.")
	flag.Parse()

	cfg.Agent.Source = di.ParseSource(*source)

	ctx := context.Background()
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	console := userinteraction.NewConsoleTranscript()
	console.ShowPrompt(*prompt)

	result, err := container.Agent.Submit(ctx, *prompt)
	if err != nil {
		container.Logger.Error("Agent run failed", "error", err)
		container.Close()
		log.Fatalf("agent run failed: %v", err)
	}

	console.ShowTranscript(result.Trace)
	console.ShowFinalAnswer(result.FinalAnswer)
}
