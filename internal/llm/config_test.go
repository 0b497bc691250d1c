package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4o", config.Model)
	assert.Equal(t, 0.3, config.Temperature)
	assert.Equal(t, 4096, config.MaxTokens)
	assert.Equal(t, 120*time.Second, config.Timeout)
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderGemini, ConfigFor(ProviderGemini).Provider)
	assert.Equal(t, "gemini-2.5-flash", ConfigFor(ProviderGemini).Model)
	assert.Equal(t, ProviderOpenAI, ConfigFor("unknown").Provider)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("gpt-4o-mini")

	// Original should be unchanged
	assert.Equal(t, "gpt-4o", config.Model)
	assert.Equal(t, "gpt-4o-mini", newConfig.Model)
	assert.Equal(t, config.MaxTokens, newConfig.MaxTokens)

	assert.Equal(t, "gpt-4o", config.WithModel("").Model)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openai"), ProviderOpenAI)
}
