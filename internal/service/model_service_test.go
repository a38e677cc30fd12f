package service

import (
	"context"
	"testing"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/chatbot"
	"ai-assistant-be/pkg/throttle"

	"github.com/stretchr/testify/assert"
)

func newModelTestService(t *testing.T, embedder *stubEmbedder) IModelService {
	t.Helper()
	bot, err := chatbot.NewBot(&stubLLM{reply: "ok"}, throttle.NewGate(0), "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("Failed to create bot: %v", err)
	}
	cfg := &config.Config{
		Ai: config.AIConfig{EmbeddingModel: "models/embedding-001"},
	}
	if embedder == nil {
		return NewModelService(bot, nil, cfg, logger.NewNopLogger())
	}
	return NewModelService(bot, embedder, cfg, logger.NewNopLogger())
}

func TestModelListMarksCurrent(t *testing.T) {
	svc := newModelTestService(t, newSkyOceanEmbedder())

	res, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, res.Chat, len(chatbot.ChatModels()))
	assert.Len(t, res.Embedding, len(chatbot.EmbeddingModels()))

	for _, m := range res.Chat {
		assert.Equal(t, m.Name == "gemini-2.5-flash", m.Current)
		assert.NotEmpty(t, m.Description)
	}
	// The stub embedder's model is not in the catalog, so nothing is current.
	for _, m := range res.Embedding {
		assert.False(t, m.Current)
	}
}

func TestModelCurrentFallsBackToConfig(t *testing.T) {
	svc := newModelTestService(t, nil)

	res, err := svc.Current(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", res.Chat)
	// Without a wired embedder the configured name is reported.
	assert.Equal(t, "models/embedding-001", res.Embedding)
}

func TestModelCurrentUsesEmbedder(t *testing.T) {
	svc := newModelTestService(t, newSkyOceanEmbedder())

	res, err := svc.Current(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "stub-embed", res.Embedding)
}

func TestSetChatModel(t *testing.T) {
	svc := newModelTestService(t, nil)
	ctx := context.Background()

	res, err := svc.SetChatModel(ctx, &dto.SetChatModelRequest{Model: "gemini-2.5-pro"})
	assert.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", res.Chat)

	// Off-catalog names are allowed; self-hosted backends serve models the
	// catalog does not list.
	res, err = svc.SetChatModel(ctx, &dto.SetChatModelRequest{Model: "llama3:70b"})
	assert.NoError(t, err)
	assert.Equal(t, "llama3:70b", res.Chat)
}

func TestSetChatModelRejectsEmpty(t *testing.T) {
	svc := newModelTestService(t, nil)

	_, err := svc.SetChatModel(context.Background(), &dto.SetChatModelRequest{Model: "   "})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// The active model is untouched after the rejection.
	res, err := svc.Current(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", res.Chat)
}
