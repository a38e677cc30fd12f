package service

import (
	"context"
	"sort"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/chatbot"
	"ai-assistant-be/pkg/embedding"
)

// IModelService exposes the model catalogs and runtime chat-model switching.
type IModelService interface {
	List(ctx context.Context) (*dto.ListModelsResponse, error)
	Current(ctx context.Context) (*dto.CurrentModelsResponse, error)
	SetChatModel(ctx context.Context, req *dto.SetChatModelRequest) (*dto.CurrentModelsResponse, error)
}

type modelService struct {
	bot      *chatbot.Bot
	embedder embedding.Provider
	cfg      *config.Config
	logger   logger.ILogger
}

func NewModelService(bot *chatbot.Bot, embedder embedding.Provider, cfg *config.Config, log logger.ILogger) IModelService {
	return &modelService{
		bot:      bot,
		embedder: embedder,
		cfg:      cfg,
		logger:   log,
	}
}

func (s *modelService) List(ctx context.Context) (*dto.ListModelsResponse, error) {
	return &dto.ListModelsResponse{
		Chat:      catalogToResponse(chatbot.ChatModels(), s.bot.Model()),
		Embedding: catalogToResponse(chatbot.EmbeddingModels(), s.embeddingModel()),
	}, nil
}

func (s *modelService) Current(ctx context.Context) (*dto.CurrentModelsResponse, error) {
	return &dto.CurrentModelsResponse{
		Chat:      s.bot.Model(),
		Embedding: s.embeddingModel(),
	}, nil
}

// SetChatModel switches the generation model for subsequent turns. Names
// outside the catalog are allowed, self-hosted backends serve models the
// catalog does not list.
func (s *modelService) SetChatModel(ctx context.Context, req *dto.SetChatModelRequest) (*dto.CurrentModelsResponse, error) {
	if _, known := chatbot.ChatModels()[req.Model]; !known {
		s.logger.Warn("MODEL", "Switching to a model outside the known catalog", map[string]interface{}{"model": req.Model})
	}
	if err := s.bot.SetModel(req.Model); err != nil {
		return nil, err
	}

	s.logger.Info("MODEL", "Switched chat model", map[string]interface{}{"model": req.Model})
	return s.Current(ctx)
}

// embeddingModel is the active embedder's model, falling back to the
// configured name when no provider is wired.
func (s *modelService) embeddingModel() string {
	if s.embedder != nil {
		return s.embedder.ModelName()
	}
	return s.cfg.Ai.EmbeddingModel
}

func catalogToResponse(catalog map[string]string, current string) []dto.ModelInfoResponse {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]dto.ModelInfoResponse, 0, len(names))
	for _, name := range names {
		models = append(models, dto.ModelInfoResponse{
			Name:        name,
			Description: catalog[name],
			Current:     name == current,
		})
	}
	return models
}
