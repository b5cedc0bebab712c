package domain

import (
	"context"
	"fmt"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of a chat-completion exchange.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is the provider-neutral shape of a single chat call.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionProvider is the port to a hosted chat-completion API.
// Implementations must not retry and must translate vendor failures into
// *ProviderError or *MissingCredentialError.
type CompletionProvider interface {
	// Name is the display name used in user-facing messages.
	Name() string
	// Complete issues exactly one request and returns the first choice's text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderError is a failure reported by the completion provider.
type ProviderError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// MissingCredentialError is returned when no API key is configured.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API key is not configured: set the %s environment variable", e.Provider, e.EnvVar)
}
