package dto

import "time"

type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Model     string `json:"model,omitempty"`
}

type MessageResponse struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionResponse struct {
	SessionID   string            `json:"session_id"`
	UserName    string            `json:"user_name"`
	UserPersona string            `json:"user_persona,omitempty"`
	Model       string            `json:"model"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Messages    []MessageResponse `json:"messages"`
}

type SessionSummaryResponse struct {
	SessionID    string    `json:"session_id"`
	UserName     string    `json:"user_name"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Current      bool      `json:"current"`
}

type RenameSessionRequest struct {
	NewSessionID string `json:"new_session_id" validate:"required"`
}

type AppendMessageRequest struct {
	Role     string                 `json:"role" validate:"required,oneof=user assistant document_context"`
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type HistoryEntryResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ContextStringResponse struct {
	SessionID string `json:"session_id"`
	Context   string `json:"context"`
}
