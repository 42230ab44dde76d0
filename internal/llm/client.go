// Package llm provides the language-model capability the move-selection
// methods are built on. Protocol logic never talks to a provider directly:
// it is handed a Client, so every protocol is testable with deterministic
// stubs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chessbench/internal/config"
)

// Role values for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request.
type Request struct {
	// Model names the provider model to use.
	Model string
	// Messages is the full conversation, system prompt first.
	Messages []Message
	// ForceJSON asks the provider to return a single JSON object
	// (the provider's JSON response mode, when supported).
	ForceJSON bool
}

// Client is the proposer capability: given a conversation, produce the
// assistant's next statement. Implementations must honor ctx cancellation
// and return an error rather than blocking past the configured timeout.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface. Used by tests to
// inject deterministic or failing proposers.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrUnknownBackend is returned when the configured backend is unsupported.
var ErrUnknownBackend = errors.New("unknown llm backend")

// NewFromConfig builds a Client from configuration.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Backend) {
	case "openai", "":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
