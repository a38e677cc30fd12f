package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
)

// SessionRepository persists conversation sessions. Implementations exist for
// gorm (sqlite/postgres) and for a JSON document-file store; the contract is
// the intersection both can honor with the same observable behavior.
type SessionRepository interface {
	// CreateOrReplace persists the full session state, replacing whatever was
	// stored under its id, messages included.
	CreateOrReplace(ctx context.Context, session *entity.Session) error

	// AppendMessage adds one message to an existing session and advances the
	// session's updated_at to the message timestamp. Missing session →
	// NotFoundError.
	AppendMessage(ctx context.Context, sessionID string, msg *entity.Message) error

	// Load returns the session with its transcript in insertion order, or
	// (nil, nil) when the id is unknown.
	Load(ctx context.Context, sessionID string) (*entity.Session, error)

	// ListSummaries returns all sessions, most recently updated first.
	ListSummaries(ctx context.Context) ([]*entity.SessionSummary, error)

	// Rename moves a session to a new id, transcript included, without
	// touching updated_at. Unknown old id → NotFoundError; occupied new id →
	// ConflictError.
	Rename(ctx context.Context, oldID string, newID string) error

	// ClearMessages deletes the transcript except for messages whose role is
	// in keepRoles, and advances updated_at. Missing session → NotFoundError.
	ClearMessages(ctx context.Context, sessionID string, keepRoles []string) error

	// Delete removes the session and its transcript. Missing session →
	// NotFoundError.
	Delete(ctx context.Context, sessionID string) error

	// ClearAll removes every session.
	ClearAll(ctx context.Context) error
}
