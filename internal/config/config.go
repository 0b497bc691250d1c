// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Provider and backend names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from Default, and environment
// variables override the file.
type Config struct {
	Port      int    `json:"port,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // json or console

	LLM       LLMConfig       `json:"llm"`
	Embedding EmbeddingConfig `json:"embedding"`
	Cache     CacheConfig     `json:"cache"`

	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`

	// Ordered domain keyword table for scoring; earlier entries win ties.
	Domains []DomainConfig `json:"domains,omitempty"`

	// Secrets come from the environment only.
	OpenAIAPIKey string `json:"-"`
	GeminiAPIKey string `json:"-"`
}

// LLMConfig configures the generative capability.
type LLMConfig struct {
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"` // nil means the default; 0 is a valid setting
	MaxTokens      int      `json:"max_tokens,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// EmbeddingConfig configures the sentence embedding provider.
type EmbeddingConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// CacheConfig selects the generated-record store.
type CacheConfig struct {
	Backend    string `json:"backend,omitempty"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"` // redis only; 0 keeps entries until cleared
}

// DomainConfig is one entry of the scoring domain table.
type DomainConfig struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Float64 returns a pointer to v, for optional numeric settings.
func Float64(v float64) *float64 {
	return &v
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:      8080,
		LogLevel:  "info",
		LogFormat: "json",
		LLM: LLMConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-4o",
			Temperature:    Float64(0.3),
			MaxTokens:      4096,
			TimeoutSeconds: 120,
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		Cache: CacheConfig{Backend: BackendMemory},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path,
// overridden by getenv, filled from Default, then validated.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&c.Cache.Backend, "CACHE_BACKEND")

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has valid values.
// API keys are checked by APIKey when a provider is actually constructed.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config error: 'log_format' must be json or console")
	}

	if !validProvider(c.LLM.Provider) {
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 0 || c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'llm.max_tokens' and 'llm.timeout_seconds' must be non-negative")
	}
	if !validProvider(c.Embedding.Provider) {
		return fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider)
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: cache backend redis requires 'redis_url' or REDIS_URL")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: cache backend postgres requires 'database_url' or DATABASE_URL")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("config error: 'cache.ttl_seconds' must be non-negative")
	}

	for i, d := range c.Domains {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("config error: domain %d has no name", i)
		}
		if len(d.Keywords) == 0 {
			return fmt.Errorf("config error: domain %q has no keywords", d.Name)
		}
	}
	return nil
}

func validProvider(p string) bool {
	return p == ProviderOpenAI || p == ProviderGemini
}

// APIKey returns the key for provider, or an error naming the variable to set.
func (c *Config) APIKey(provider string) (string, error) {
	switch provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return "", fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return c.OpenAIAPIKey, nil
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return "", fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return c.GeminiAPIKey, nil
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LLM.Provider == "" {
		result.LLM.Provider = defaults.LLM.Provider
	}
	if result.LLM.Model == "" && result.LLM.Provider == defaults.LLM.Provider {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.Embedding.Provider == "" {
		result.Embedding.Provider = defaults.Embedding.Provider
	}
	if result.Embedding.Model == "" && result.Embedding.Provider == defaults.Embedding.Provider {
		result.Embedding.Model = defaults.Embedding.Model
	}
	if result.Cache.Backend == "" {
		result.Cache.Backend = defaults.Cache.Backend
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.LLM.Temperature == nil {
		result.LLM.Temperature = defaults.LLM.Temperature
	}
	if result.LLM.MaxTokens == 0 {
		result.LLM.MaxTokens = defaults.LLM.MaxTokens
	}
	if result.LLM.TimeoutSeconds == 0 {
		result.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}

	if len(result.Domains) == 0 {
		result.Domains = defaults.Domains
	}

	return result
}
