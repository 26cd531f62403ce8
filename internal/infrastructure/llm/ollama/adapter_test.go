package ollama

import (
	"testing"

	"biomni-chat/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestConvertMessages_MapsRoles(t *testing.T) {
	result := convertMessages([]entity.Message{
		{Role: entity.RoleSystem, Content: "be precise"},
		{Role: entity.RoleUser, Content: "what is BRCA1?"},
		{Role: entity.RoleAssistant, Content: "a gene"},
	})

	require.Len(t, result, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, result[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, result[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, result[2].Role)
	assert.Equal(t, llms.TextContent{Text: "what is BRCA1?"}, result[1].Parts[0])
}

func TestNewAdapter_DefaultsServerURL(t *testing.T) {
	a, err := NewAdapter(Config{Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "mistral", a.model)
}
