package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a deterministic LLM implementation for testing.
// It returns predictable responses based on prompt content.
type MockLLM struct {
	// Response is the fixed text returned by Generate.
	// If empty, a default response is generated from the prompt.
	Response string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// LastPrompt stores the most recent prompt passed to Generate.
	LastPrompt string
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// Generate returns the configured response or generates a deterministic one.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt

	if m.Error != nil {
		return "", m.Error
	}

	if m.Response != "" {
		return m.Response, nil
	}

	return generateMockResponse(prompt), nil
}

// generateMockResponse creates a predictable review from the prompt.
func generateMockResponse(prompt string) string {
	character := "the character"
	if strings.Contains(prompt, "**Character:**") {
		parts := strings.Split(prompt, "**Character:**")
		if len(parts) > 1 {
			lines := strings.Split(parts[1], "\n")
			if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
				character = strings.TrimSpace(lines[0])
			}
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("The described action is broadly consistent for %s. ", character))
	b.WriteString("No alternative approach stands out from the provided profile.")
	return b.String()
}
