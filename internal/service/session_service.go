package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
)

// ISessionService manages conversation sessions over one SessionRepository
// and tracks which session is active.
type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	List(ctx context.Context) ([]*dto.SessionSummaryResponse, error)
	Rename(ctx context.Context, sessionID string, req *dto.RenameSessionRequest) error
	AppendMessage(ctx context.Context, sessionID string, req *dto.AppendMessageRequest) (*dto.MessageResponse, error)
	ClearMessages(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	ClearAll(ctx context.Context) error
	History(ctx context.Context, sessionID string, limit int) ([]*dto.HistoryEntryResponse, error)
	ContextString(ctx context.Context, sessionID string) (*dto.ContextStringResponse, error)
	Current(ctx context.Context) (*dto.SessionResponse, error)
	SwitchTo(ctx context.Context, sessionID string) error
}

type sessionService struct {
	sessionRepo contract.SessionRepository
	cache       *memory.SessionCache
	cfg         *config.Config
	logger      logger.ILogger
}

func NewSessionService(
	sessionRepo contract.SessionRepository,
	cache *memory.SessionCache,
	cfg *config.Config,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		cache:       cache,
		cfg:         cfg,
		logger:      log,
	}
}

// newSessionEntity seeds a fresh session from config defaults. Shared with the
// chat flow, which creates sessions implicitly.
func newSessionEntity(cfg *config.Config, sessionID string, model string, now time.Time) *entity.Session {
	if sessionID == "" {
		sessionID = constant.SessionIDPrefix + now.Format(constant.SessionIDTimeLayout)
	}
	if model == "" {
		model = cfg.Ai.ChatModel
	}
	return &entity.Session{
		SessionID:   sessionID,
		UserName:    cfg.User.Name,
		UserPersona: cfg.User.Persona,
		Model:       model,
		CreatedAt:   now,
		UpdatedAt:   now,
		Messages:    []entity.Message{},
	}
}

// load is cache-aside: hit returns the cached session, miss loads from the
// repository and caches. Unknown ids surface as NotFoundError.
func (s *sessionService) load(ctx context.Context, sessionID string) (*entity.Session, error) {
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

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := newSessionEntity(s.cfg, strings.TrimSpace(req.SessionID), req.Model, time.Now())
	if err := s.sessionRepo.CreateOrReplace(ctx, session); err != nil {
		return nil, err
	}
	s.cache.Save(session)
	s.cache.SetCurrent(session.SessionID)

	s.logger.Info("SESSION", "Created session", map[string]interface{}{"session_id": session.SessionID, "model": session.Model})
	return sessionToResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) List(ctx context.Context) ([]*dto.SessionSummaryResponse, error) {
	summaries, err := s.sessionRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	current := s.cache.Current()

	response := make([]*dto.SessionSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, &dto.SessionSummaryResponse{
			SessionID:    summary.SessionID,
			UserName:     summary.UserName,
			Model:        summary.Model,
			CreatedAt:    summary.CreatedAt,
			UpdatedAt:    summary.UpdatedAt,
			MessageCount: summary.MessageCount,
			Current:      summary.SessionID == current,
		})
	}
	return response, nil
}

func (s *sessionService) Rename(ctx context.Context, sessionID string, req *dto.RenameSessionRequest) error {
	newID := strings.TrimSpace(req.NewSessionID)
	if newID == "" {
		return apperror.NewValidation("new session id cannot be empty")
	}
	if err := s.sessionRepo.Rename(ctx, sessionID, newID); err != nil {
		return err
	}
	s.cache.Rename(sessionID, newID)

	s.logger.Info("SESSION", "Renamed session", map[string]interface{}{"from": sessionID, "to": newID})
	return nil
}

func (s *sessionService) AppendMessage(ctx context.Context, sessionID string, req *dto.AppendMessageRequest) (*dto.MessageResponse, error) {
	msg := &entity.Message{
		Role:      req.Role,
		Content:   req.Content,
		Timestamp: time.Now(),
		Metadata:  req.Metadata,
	}
	if err := s.sessionRepo.AppendMessage(ctx, sessionID, msg); err != nil {
		return nil, err
	}
	s.cache.Invalidate(sessionID)
	return messageToResponse(msg), nil
}

func (s *sessionService) ClearMessages(ctx context.Context, sessionID string) error {
	keep := []string{constant.MessageRoleDocumentContext}
	if err := s.sessionRepo.ClearMessages(ctx, sessionID, keep); err != nil {
		return err
	}
	s.cache.Invalidate(sessionID)

	s.logger.Info("SESSION", "Cleared messages, document contexts preserved", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.cache.Delete(sessionID)

	s.logger.Info("SESSION", "Deleted session", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *sessionService) ClearAll(ctx context.Context) error {
	if err := s.sessionRepo.ClearAll(ctx); err != nil {
		return err
	}
	s.cache.Flush()

	s.logger.Warn("SESSION", "Cleared all sessions", nil)
	return nil
}

func (s *sessionService) History(ctx context.Context, sessionID string, limit int) ([]*dto.HistoryEntryResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := session.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	history := make([]*dto.HistoryEntryResponse, 0, len(messages))
	for _, msg := range messages {
		history = append(history, &dto.HistoryEntryResponse{Role: msg.Role, Content: msg.Content})
	}
	return history, nil
}

func (s *sessionService) ContextString(ctx context.Context, sessionID string) (*dto.ContextStringResponse, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if session.UserPersona != "" {
		sb.WriteString(fmt.Sprintf("## User Context:\n%s\n\n", session.UserPersona))
	}
	if len(session.Messages) > 0 {
		sb.WriteString("## Conversation History:\n")
		messages := session.Messages
		if len(messages) > 10 {
			messages = messages[len(messages)-10:]
		}
		for _, msg := range messages {
			switch msg.Role {
			case constant.MessageRoleDocumentContext:
				sb.WriteString(fmt.Sprintf("## Imported Document:\n%s\n", msg.Content))
			case constant.MessageRoleUser:
				sb.WriteString(fmt.Sprintf("User: %s\n", msg.Content))
			default:
				sb.WriteString(fmt.Sprintf("Assistant: %s\n", msg.Content))
			}
		}
	}

	return &dto.ContextStringResponse{SessionID: sessionID, Context: sb.String()}, nil
}

func (s *sessionService) Current(ctx context.Context) (*dto.SessionResponse, error) {
	current := s.cache.Current()
	if current == "" {
		return nil, apperror.NewNotFound("active session", "none")
	}
	return s.Get(ctx, current)
}

func (s *sessionService) SwitchTo(ctx context.Context, sessionID string) error {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	s.cache.SetCurrent(session.SessionID)

	s.logger.Info("SESSION", "Switched session", map[string]interface{}{"session_id": session.SessionID})
	return nil
}

func sessionToResponse(session *entity.Session) *dto.SessionResponse {
	messages := make([]dto.MessageResponse, 0, len(session.Messages))
	for i := range session.Messages {
		messages = append(messages, *messageToResponse(&session.Messages[i]))
	}
	return &dto.SessionResponse{
		SessionID:   session.SessionID,
		UserName:    session.UserName,
		UserPersona: session.UserPersona,
		Model:       session.Model,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		Messages:    messages,
	}
}

func messageToResponse(msg *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		Metadata:  msg.Metadata,
	}
}
