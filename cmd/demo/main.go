// Command demo runs one short prompt against a local Ollama model with all
// storage on the local filesystem, to check the wiring end to end.
package main

import (
	"context"
	"fmt"
	"time"

	"biomni-chat/internal/di"
	"biomni-chat/internal/domain/entity"
	"biomni-chat/internal/infrastructure/prompts"
	"biomni-chat/internal/infrastructure/userinteraction"
)

const (
	localDataRoot   = "./local_biomni"
	ollamaModelName = "mistral"
)

func main() {
	console := userinteraction.NewConsoleTranscript()
	if err := runDemo(console); err != nil {
		console.ShowFailureHints(err)
	}
}

func runDemo(console *userinteraction.ConsoleTranscript) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := context.Background()
	container, err := di.NewContainer(ctx, di.Config{
		Agent: entity.AgentConfig{
			Path:                  localDataRoot,
			LLM:                   ollamaModelName,
			Source:                entity.SourceOllama,
			Timeout:               90 * time.Second,
			UseToolRetriever:      false,
			ExpectedDataLakeFiles: []string{},
		},
		LogLevel: "warn",
	})
	if err != nil {
		return err
	}
	defer container.Close()

	result, err := container.Agent.Submit(ctx, prompts.DemoPrompt)
	if err != nil {
		return err
	}

	console.ShowLastStep(result.Trace)
	console.ShowFinalReply(result.FinalAnswer)
	return nil
}
