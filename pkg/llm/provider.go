package llm

import (
	"context"
)

// Message is one chat turn in a provider-agnostic shape. Role is "user",
// "assistant", or "system"; providers remap to their own wire roles.
type Message struct {
	Role    string
	Content string
}

// Option carries optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override the provider's default model
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

// LLMProvider is the contract for a generation backend.
type LLMProvider interface {
	// Chat sends a conversation and returns the model's reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt string.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
