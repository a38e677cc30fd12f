package entity

import "time"

// Message is one transcript entry. Role is user, assistant or
// document_context; Metadata is free-form and survives round-trips through
// both persistence backends.
type Message struct {
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session is a full conversation. The json tags double as the on-disk layout
// of the document-file backend, so renaming a field is a schema change.
type Session struct {
	SessionID   string                 `json:"session_id"`
	UserName    string                 `json:"user_name"`
	UserPersona string                 `json:"user_persona"`
	Model       string                 `json:"model"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Messages    []Message              `json:"messages"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// SessionSummary is the listing projection: everything but the transcript.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	UserName     string    `json:"user_name"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// HistoryEntry is the reduced (role, content) pair fed to prompt assembly.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
