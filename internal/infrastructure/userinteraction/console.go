package userinteraction

import (
	"fmt"
	"io"
	"os"
	"strings"

	"biomni-chat/internal/domain/entity"

	"github.com/fatih/color"
)

// ConsoleTranscript prints agent runs for the CLI commands.
type ConsoleTranscript struct {
	out io.Writer
}

func NewConsoleTranscript() *ConsoleTranscript {
	return &ConsoleTranscript{out: color.Output}
}

func NewConsoleTranscriptTo(w io.Writer) *ConsoleTranscript {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleTranscript{out: w}
}

func (c *ConsoleTranscript) ShowPrompt(prompt string) {
	fmt.Fprintf(c.out, "Using prompt: %s\n", prompt)
}

func (c *ConsoleTranscript) ShowTranscript(trace []entity.TraceEntry) {
	c.heading("---- Agent transcript ----")
	for _, e := range trace {
		c.entry(e)
	}
}

func (c *ConsoleTranscript) ShowFinalAnswer(answer string) {
	c.heading("---- Final answer ----")
	fmt.Fprintln(c.out, answer)
}

// ShowLastStep prints only the newest trace entry, for short demo output.
func (c *ConsoleTranscript) ShowLastStep(trace []entity.TraceEntry) {
	c.heading("=== Conversation Trace (last step) ===")
	if len(trace) == 0 {
		fmt.Fprintln(c.out, "No history recorded.")
		return
	}
	c.entry(trace[len(trace)-1])
}

func (c *ConsoleTranscript) ShowFinalReply(reply string) {
	fmt.Fprintln(c.out)
	c.heading("=== Final Reply ===")
	fmt.Fprintln(c.out, reply)
}

type hint struct {
	text    string
	signals []string
}

var failureHints = []hint{
	{"Ollama server not running locally.", []string{"connection refused", "no such host", "dial tcp"}},
	{"The selected model has not been pulled in Ollama.", []string{"not found", "pull", "404"}},
	{"Additional dependencies required by a specific tool.", []string{"executable file not found", "no such file", "permission denied"}},
}

// ShowFailureHints lists common causes of a failed run and marks those the
// error text points at.
func (c *ConsoleTranscript) ShowFailureHints(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintln(c.out, "Demo failed. Common causes include:")

	msg := strings.ToLower(err.Error())
	likely := color.New(color.FgYellow)
	for _, h := range failureHints {
		if matchesAny(msg, h.signals) {
			likely.Fprintf(c.out, "- %s (likely)\n", h.text)
			continue
		}
		fmt.Fprintf(c.out, "- %s\n", h.text)
	}

	fmt.Fprintf(c.out, "\nUnderlying error: %v\n", err)
}

func (c *ConsoleTranscript) heading(text string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(c.out, text)
}

func (c *ConsoleTranscript) entry(e entity.TraceEntry) {
	switch e.Kind {
	case entity.TraceKindToolCall:
		color.New(color.FgYellow).Fprintln(c.out, e.String())
	case entity.TraceKindObservation:
		color.New(color.Faint).Fprintln(c.out, e.String())
	default:
		fmt.Fprintln(c.out, e.String())
	}
}

func matchesAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
