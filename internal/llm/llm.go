// Package llm defines the external text-generation capability used by the
// optional AI-assisted consistency checks. It is provider-agnostic: a single
// Generate method, a concrete OpenAI implementation, and a deterministic mock
// for tests. Callers must treat any failure as absence of an answer.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// LLM is the injected text-generation capability.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces free text from a prompt using the configured model.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds common configuration options for LLM providers.
type Config struct {
	// Model specifies the model identifier (e.g., "gpt-4o")
	Model string

	// Temperature controls randomness (0.0 = deterministic, 2.0 = very random)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string
}

// DefaultConfig returns sensible defaults for consistency analysis replies.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o",
		Temperature: 0, // model default
		MaxTokens:   600,
	}
}
