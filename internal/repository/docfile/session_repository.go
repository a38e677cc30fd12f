package docfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
)

// SessionRepository stores each session as one pretty-printed JSON document
// under a directory, <session_id>.json. Writes go through a temp file and
// os.Rename so a crash mid-write never leaves a truncated document. A single
// mutex serializes mutations; this backend exists for inspectability, not
// throughput.
type SessionRepository struct {
	dir string
	mu  sync.Mutex
}

func NewSessionRepository(dir string) (contract.SessionRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &SessionRepository{dir: dir}, nil
}

func (r *SessionRepository) path(sessionID string) string {
	return filepath.Join(r.dir, sessionID+".json")
}

// Session ids become file names, so anything that would escape the directory
// is rejected up front.
func validateID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperror.NewValidation("session id cannot be empty")
	}
	if strings.ContainsAny(sessionID, `/\`) || sessionID == "." || sessionID == ".." {
		return apperror.NewValidation("session id contains invalid characters: %s", sessionID)
	}
	return nil
}

func (r *SessionRepository) read(sessionID string) (*entity.Session, error) {
	raw, err := os.ReadFile(r.path(sessionID))
	if err != nil {
		return nil, err
	}
	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *SessionRepository) write(session *entity.Session) error {
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), r.path(session.SessionID)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (r *SessionRepository) CreateOrReplace(ctx context.Context, session *entity.Session) error {
	if err := validateID(session.SessionID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(session)
}

func (r *SessionRepository) AppendMessage(ctx context.Context, sessionID string, msg *entity.Message) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.read(sessionID)
	if err != nil {
		if os.IsNotExist(err) {
			return apperror.NewNotFound("session", sessionID)
		}
		return err
	}
	session.Messages = append(session.Messages, *msg)
	session.UpdatedAt = msg.Timestamp
	return r.write(session)
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*entity.Session, error) {
	if err := validateID(sessionID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.read(sessionID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if session.Messages == nil {
		session.Messages = []entity.Message{}
	}
	return session, nil
}

func (r *SessionRepository) ListSummaries(ctx context.Context) ([]*entity.SessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.SessionSummary, 0, len(paths))
	for _, p := range paths {
		id := strings.TrimSuffix(filepath.Base(p), ".json")
		session, err := r.read(id)
		if err != nil {
			// Corrupt or foreign files don't brick the listing.
			continue
		}
		summaries = append(summaries, &entity.SessionSummary{
			SessionID:    session.SessionID,
			UserName:     session.UserName,
			Model:        session.Model,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
			MessageCount: len(session.Messages),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (r *SessionRepository) Rename(ctx context.Context, oldID string, newID string) error {
	if err := validateID(oldID); err != nil {
		return err
	}
	if err := validateID(newID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path(newID)); err == nil {
		return apperror.NewConflict("session", newID)
	}

	session, err := r.read(oldID)
	if err != nil {
		if os.IsNotExist(err) {
			return apperror.NewNotFound("session", oldID)
		}
		return err
	}

	// Write the new document before removing the old one; a crash between
	// the two leaves both behind rather than neither.
	session.SessionID = newID
	if err := r.write(session); err != nil {
		return err
	}
	return os.Remove(r.path(oldID))
}

func (r *SessionRepository) ClearMessages(ctx context.Context, sessionID string, keepRoles []string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.read(sessionID)
	if err != nil {
		if os.IsNotExist(err) {
			return apperror.NewNotFound("session", sessionID)
		}
		return err
	}

	keep := make(map[string]bool, len(keepRoles))
	for _, role := range keepRoles {
		keep[role] = true
	}
	kept := make([]entity.Message, 0, len(session.Messages))
	for _, msg := range session.Messages {
		if keep[msg.Role] {
			kept = append(kept, msg)
		}
	}
	session.Messages = kept
	session.UpdatedAt = time.Now()
	return r.write(session)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := validateID(sessionID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return apperror.NewNotFound("session", sessionID)
		}
		return err
	}
	return nil
}

func (r *SessionRepository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
