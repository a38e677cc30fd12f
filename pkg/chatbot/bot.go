package chatbot

import (
	"context"
	"strings"
	"sync"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/throttle"
)

// Bot fronts an LLM provider with input validation and a minimum-interval
// gate between generation calls. It is safe for concurrent use; concurrent
// callers queue on the gate and are dispatched one interval apart.
type Bot struct {
	mu       sync.RWMutex
	provider llm.LLMProvider
	gate     *throttle.Gate
	model    string
}

func NewBot(provider llm.LLMProvider, gate *throttle.Gate, model string) (*Bot, error) {
	if provider == nil {
		return nil, apperror.NewConfiguration("chatbot requires an LLM provider", nil)
	}
	if strings.TrimSpace(model) == "" {
		return nil, apperror.NewConfiguration("chatbot requires a model name", nil)
	}
	return &Bot{provider: provider, gate: gate, model: model}, nil
}

// Generate sends an assembled prompt to the LLM. Empty prompts are rejected
// before the gate so a bad request never burns the rate-limit window.
func (b *Bot) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperror.NewValidation("message cannot be empty")
	}
	if err := b.gate.Wait(ctx); err != nil {
		return "", err
	}
	return b.provider.Generate(ctx, prompt, llm.WithModel(b.Model()))
}

// SetModel switches the model used for subsequent generations.
func (b *Bot) SetModel(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperror.NewValidation("model name cannot be empty")
	}
	b.mu.Lock()
	b.model = name
	b.mu.Unlock()
	return nil
}

func (b *Bot) Model() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// State reports whether the gate would admit a call right now.
func (b *Bot) State() throttle.State {
	return b.gate.State()
}
