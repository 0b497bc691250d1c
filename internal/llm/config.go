// Package llm wraps the generative model used to extract, rewrite and
// critique resumes behind a single provider-neutral contract.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the generation settings for the application
type Config struct {
	Provider    Provider
	Model       string
	Temperature float64
	MaxTokens   int
	// Timeout bounds a single generation call; zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (OpenAI)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o",
		Temperature: 0.3,
		MaxTokens:   4096,
		Timeout:     120 * time.Second,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		Temperature: 0.3,
		MaxTokens:   4096,
		Timeout:     120 * time.Second,
	}
}

// ConfigFor returns the defaults for a provider. Unknown providers get the default config.
func ConfigFor(p Provider) *Config {
	switch p {
	case ProviderGemini:
		return DefaultGeminiConfig()
	default:
		return DefaultOpenAIConfig()
	}
}

// WithModel returns a copy of the config using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	if model != "" {
		cp.Model = model
	}
	return &cp
}
