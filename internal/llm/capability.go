package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Payloads returned in place of model output when the provider cannot be reached.
const (
	SentinelJSON = `{"name": "Error", "summary": "Failed to connect to the generation service."}`
	SentinelText = "Error: Failed to connect to the generation service."
)

// Generator is the generation contract consumed by the rest of the module:
// it never fails, returning the sentinel payload instead.
type Generator interface {
	Generate(ctx context.Context, messages []Message, jsonMode bool) string
}

// Sentinel returns the failure payload for the given mode.
func Sentinel(jsonMode bool) string {
	if jsonMode {
		return SentinelJSON
	}
	return SentinelText
}

// IsSentinel reports whether text is the failure payload for the given mode.
func IsSentinel(text string, jsonMode bool) bool {
	return text == Sentinel(jsonMode)
}

// GenerationUnavailableError signals the generation service could not be reached,
// as opposed to it answering with unusable output.
type GenerationUnavailableError struct {
	Step string
}

func (e *GenerationUnavailableError) Error() string {
	if e.Step == "" {
		return "generation service unavailable"
	}
	return fmt.Sprintf("generation service unavailable during %s", e.Step)
}

// Capability adapts a Client to the Generator contract. Each call is bounded
// by the configured timeout and failures are logged and converted to sentinels.
type Capability struct {
	client  Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewCapability wraps client. A zero timeout leaves calls bounded only by ctx.
func NewCapability(client Client, timeout time.Duration, logger zerolog.Logger) *Capability {
	return &Capability{client: client, timeout: timeout, logger: logger}
}

// Generate implements Generator.
func (c *Capability) Generate(ctx context.Context, messages []Message, jsonMode bool) string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.client.Generate(ctx, messages, jsonMode)
	if err != nil {
		c.logger.Error().Err(err).
			Str("model", c.client.Model()).
			Bool("json_mode", jsonMode).
			Dur("elapsed", time.Since(start)).
			Msg("generation failed")
		return Sentinel(jsonMode)
	}

	c.logger.Debug().
		Str("model", c.client.Model()).
		Bool("json_mode", jsonMode).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("generation complete")
	return text
}
