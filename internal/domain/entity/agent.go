package entity

import (
	"fmt"
	"time"
)

type Source string

const (
	SourceOllama Source = "Ollama"
	SourceOpenAI Source = "OpenAI"
	SourceCustom Source = "Custom"
)

// AgentConfig is set once before the agent handles its first prompt.
type AgentConfig struct {
	Path                  string
	LLM                   string
	Source                Source
	BaseURL               string
	APIKey                string
	UseToolRetriever      bool
	Timeout               time.Duration
	ExpectedDataLakeFiles []string
	Temperature           float32
	MaxSteps              int
}

type TraceKind string

const (
	TraceKindPrompt      TraceKind = "prompt"
	TraceKindAssistant   TraceKind = "assistant"
	TraceKindToolCall    TraceKind = "tool_call"
	TraceKindObservation TraceKind = "observation"
)

type TraceEntry struct {
	Step    int
	Kind    TraceKind
	Name    string
	Content string
}

func (e TraceEntry) String() string {
	if e.Name != "" {
		return fmt.Sprintf("[%d] %s %s: %s", e.Step, e.Kind, e.Name, e.Content)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Step, e.Kind, e.Content)
}

type AgentResult struct {
	Trace       []TraceEntry
	FinalAnswer string
}
