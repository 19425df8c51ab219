package llm

import (
	"context"
	"gpttransit/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatModel(t *testing.T) {
	ctx := context.Background()

	t.Run("openai", func(t *testing.T) {
		m, err := NewChatModel(ctx, config.ModelConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "test-key"})
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("ollama", func(t *testing.T) {
		m, err := NewChatModel(ctx, config.ModelConfig{Provider: ProviderOllama, Model: "llama3.1", BaseURL: "http://localhost:11434", MaxTokens: 256})
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewChatModel(ctx, config.ModelConfig{Provider: "bard", Model: "x"})
		assert.ErrorContains(t, err, `unsupported model provider "bard"`)
	})
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(0))
	require.NotNil(t, optional(512))
	assert.Equal(t, 512, *optional(512))
}
