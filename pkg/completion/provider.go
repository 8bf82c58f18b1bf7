package completion

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Fragment is one incremental piece of streamed model output.
type Fragment struct {
	Text string
}

// ErrNoMessages is returned when a request is attempted with an empty
// message list.
var ErrNoMessages = errors.New("completion: message list is empty")

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any completion backend.
type Provider interface {
	// Chat sends a chat history to the model and returns the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream opens one streaming request and returns the lazy fragment
	// sequence. The stream is finite and not restartable; retrying means a
	// fresh call. Cancelling ctx aborts the underlying transfer.
	ChatStream(ctx context.Context, history []Message, options ...Option) (*Stream, error)
}
