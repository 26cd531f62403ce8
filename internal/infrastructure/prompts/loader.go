package prompts

import (
	_ "embed"
	"strings"
)

//go:embed system.txt
var systemPrompt string

//go:embed cli_default.txt
var cliDefaultPrompt string

// DefaultSystemPrompt is the agent's standing instruction.
var DefaultSystemPrompt = strings.TrimSpace(systemPrompt)

// CLIDefaultPrompt is the task the CLI runs when --prompt is not given.
var CLIDefaultPrompt = strings.TrimSpace(cliDefaultPrompt)

const DemoPrompt = "Give me a two-sentence fun fact about CRISPR."
