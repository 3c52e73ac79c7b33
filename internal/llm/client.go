// Package llm defines the AI inference boundary and its pluggable providers.
//
// Cerberus delegates all natural-language work to external CLI tools (the
// `claude` CLI first and foremost). Wrapping CLIs instead of HTTP APIs reuses
// each tool's existing auth, caching, and rate-limit handling, and new
// providers are just another wrapped binary.
package llm

import (
	"context"
	"fmt"
	"time"
)

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Model  string `json:"model,omitempty"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// CompletionResponse is the result of a completion.
type CompletionResponse struct {
	Content  string        `json:"content"`
	Model    string        `json:"model,omitempty"`
	Usage    Usage         `json:"usage"`
	CostUSD  float64       `json:"costUsd,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Client is the interface all inference providers implement.
type Client interface {
	// Complete sends a request and returns the full response. The context
	// deadline bounds the underlying CLI invocation.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "claude", "gemini").
	Name() string
}

// ProviderError is returned when an inference provider fails.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}
