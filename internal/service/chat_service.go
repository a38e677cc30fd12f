package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/chatbot"
)

// IChatService runs conversation turns: resolve the session, retrieve
// knowledge, call the LLM and persist the exchange.
type IChatService interface {
	Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ImportDocument(ctx context.Context, req *dto.ImportDocumentRequest) (*dto.ImportDocumentResponse, error)
}

type chatService struct {
	sessionRepo contract.SessionRepository
	cache       *memory.SessionCache
	knowledge   IKnowledgeService
	bot         *chatbot.Bot
	publisher   IPublisherService
	cfg         *config.Config
	logger      logger.ILogger
}

func NewChatService(
	sessionRepo contract.SessionRepository,
	cache *memory.SessionCache,
	knowledge IKnowledgeService,
	bot *chatbot.Bot,
	publisher IPublisherService,
	cfg *config.Config,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		cache:       cache,
		knowledge:   knowledge,
		bot:         bot,
		publisher:   publisher,
		cfg:         cfg,
		logger:      log,
	}
}

func (s *chatService) Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperror.NewValidation("message cannot be empty")
	}

	session, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	ragContext := ""
	if req.UseRAG == nil || *req.UseRAG {
		ragContext, err = s.knowledge.QueryWithContext(ctx, message, 0)
		if err != nil {
			s.logger.Warn("CHAT", "Retrieval failed, continuing without context", map[string]interface{}{"error": err.Error()})
			ragContext = ""
		}
	}

	historyLimit := s.cfg.Ai.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = constant.DefaultHistoryLimit
	}
	messages := session.Messages
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}
	history := make([]entity.HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		history = append(history, entity.HistoryEntry{Role: msg.Role, Content: msg.Content})
	}

	prompt := chatbot.BuildPrompt(chatbot.PromptInput{
		UserName:    session.UserName,
		UserPersona: session.UserPersona,
		RAGContext:  ragContext,
		History:     history,
		Message:     message,
	})

	reply, err := s.bot.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The exchange is persisted only after a successful generation, so a
	// failed turn leaves the session untouched.
	userMsg := &entity.Message{Role: constant.MessageRoleUser, Content: message, Timestamp: time.Now()}
	if err := s.sessionRepo.AppendMessage(ctx, session.SessionID, userMsg); err != nil {
		return nil, err
	}
	assistantMsg := &entity.Message{Role: constant.MessageRoleAssistant, Content: reply, Timestamp: time.Now()}
	if err := s.sessionRepo.AppendMessage(ctx, session.SessionID, assistantMsg); err != nil {
		return nil, err
	}
	s.cache.Invalidate(session.SessionID)
	s.cache.SetCurrent(session.SessionID)

	s.logger.Info("CHAT", "Completed chat turn", map[string]interface{}{
		"session_id": session.SessionID,
		"model":      s.bot.Model(),
		"rag_used":   ragContext != "",
	})

	return &dto.SendChatResponse{
		SessionID: session.SessionID,
		Sent:      *messageToResponse(userMsg),
		Reply:     *messageToResponse(assistantMsg),
	}, nil
}

func (s *chatService) ImportDocument(ctx context.Context, req *dto.ImportDocumentRequest) (*dto.ImportDocumentResponse, error) {
	hasPath := strings.TrimSpace(req.Path) != ""
	hasContent := req.Content != ""
	if hasPath == hasContent {
		return nil, apperror.NewValidation("provide exactly one of path or content")
	}

	content := req.Content
	name := strings.TrimSpace(req.Name)
	if hasPath {
		raw, err := os.ReadFile(req.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, apperror.NewNotFound("file", req.Path)
			}
			return nil, fmt.Errorf("reading %s: %w", req.Path, err)
		}
		content = string(raw)
		if name == "" {
			name = filepath.Base(req.Path)
		}
	}
	if name == "" {
		name = "document"
	}

	session, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{
		Role:      constant.MessageRoleDocumentContext,
		Content:   fmt.Sprintf("Document: %s\n%s", name, content),
		Timestamp: time.Now(),
	}
	if err := s.sessionRepo.AppendMessage(ctx, session.SessionID, msg); err != nil {
		return nil, err
	}
	s.cache.Invalidate(session.SessionID)
	s.cache.SetCurrent(session.SessionID)

	chars := utf8.RuneCountInString(content)
	s.logger.Info("CHAT", "Imported document into session", map[string]interface{}{
		"session_id": session.SessionID,
		"source":     name,
		"characters": chars,
	})

	s.publishDocumentImported(ctx, session.SessionID, name, content)

	return &dto.ImportDocumentResponse{
		SessionID:  session.SessionID,
		Source:     name,
		Characters: chars,
	}, nil
}

// resolveSession maps a request to a concrete session: an explicit id must
// exist, no id means the active session, and with neither a fresh session is
// created on the spot.
func (s *chatService) resolveSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		return s.loadSession(ctx, sessionID)
	}

	if current := s.cache.Current(); current != "" {
		session, err := s.loadSession(ctx, current)
		if err == nil {
			return session, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		// The active session vanished underneath us, fall through and
		// start a fresh one.
	}

	session := newSessionEntity(s.cfg, "", "", time.Now())
	if err := s.sessionRepo.CreateOrReplace(ctx, session); err != nil {
		return nil, err
	}
	s.cache.Save(session)
	s.cache.SetCurrent(session.SessionID)

	s.logger.Info("CHAT", "Started new session", map[string]interface{}{"session_id": session.SessionID})
	return session, nil
}

func (s *chatService) loadSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if cached, ok := s.cache.Get(sessionID); ok {
		return cached, nil
	}
	session, err := s.sessionRepo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFound("session", sessionID)
	}
	s.cache.Save(session)
	return session, nil
}

// publishDocumentImported hands the document to the indexing pipeline. Loss
// here only costs background indexing, so failures are logged and swallowed.
func (s *chatService) publishDocumentImported(ctx context.Context, sessionID, source, content string) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.DocumentImportedMessage{
		SessionID: sessionID,
		Source:    source,
		Content:   content,
	})
	if err != nil {
		s.logger.Error("CHAT", "Failed to encode document event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("CHAT", "Failed to publish document event", map[string]interface{}{"error": err.Error()})
	}
}
