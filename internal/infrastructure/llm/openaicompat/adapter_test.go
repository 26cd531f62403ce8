package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"
	"biomni-chat/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	}

	result := convertResponseMessage(msg)

	assert.Equal(t, entity.RoleAssistant, result.Role)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "read_data_lake_file",
					Arguments: `{"path":"gtex/tpm.csv"}`,
				},
			},
		},
	}

	result := convertResponseMessage(msg)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, entity.ToolReadDataLakeFile, result.ToolCalls[0].Name)
}

func TestConvertMessages_ToolRoundTrip(t *testing.T) {
	messages := []entity.Message{
		{Role: entity.RoleUser, Content: "Hello"},
		{Role: entity.RoleAssistant, ToolCalls: []entity.ToolCall{{ID: "c1", Name: entity.ToolListDataLake, Arguments: "{}"}}},
		{Role: entity.RoleTool, ToolCallID: "c1", Name: "list_data_lake", Content: "a.csv"},
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	assert.Equal(t, "list_data_lake", result[1].ToolCalls[0].Function.Name)
	assert.Equal(t, "c1", result[2].ToolCallID)
}

func TestAdapter_ChatAgainstFakeServer(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","model":"gpt-oss:20b","choices":[{"index":0,"message":{"role":"assistant","content":"<solution>ok</solution>"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	adapter := NewAdapter(Config{Model: "gpt-oss:20b", BaseURL: srv.URL, Logger: logger.NewNop()})

	resp, err := adapter.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "<solution>ok</solution>", resp.Message.Content)
	assert.Equal(t, "gpt-oss:20b", got.Model)
	assert.Empty(t, got.Tools)
}

func fakeCompletionServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`)
	}))
}

func TestAdapter_LogsRequestsOnlyAtDebug(t *testing.T) {
	srv := fakeCompletionServer()
	defer srv.Close()

	for _, tc := range []struct {
		level    zapcore.Level
		wantLogs int
	}{
		{zapcore.InfoLevel, 0},
		{zapcore.DebugLevel, 1},
	} {
		t.Run(tc.level.String(), func(t *testing.T) {
			core, logs := observer.New(tc.level)
			adapter := NewAdapter(Config{Model: "m", BaseURL: srv.URL, Logger: logger.NewFromZap(zap.New(core))})

			_, err := adapter.Chat(context.Background(), output.ChatRequest{
				Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
			})
			require.NoError(t, err)

			assert.Equal(t, tc.wantLogs, logs.FilterMessage("HTTP Request").Len())
		})
	}
}

type failingBody struct{}

func (failingBody) Read(p []byte) (int, error) { return 0, errors.New("disk gone") }
func (failingBody) Close() error               { return nil }

func TestLoggingTransport_ReturnsBodyReadError(t *testing.T) {
	transport := &loggingTransport{base: http.DefaultTransport, logger: logger.NewNop()}
	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:1/chat/completions", failingBody{})
	require.NoError(t, err)

	_, err = transport.RoundTrip(req)

	assert.ErrorContains(t, err, "disk gone")
}
