package implementation

import (
	"context"
	"errors"
	"time"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) CreateOrReplace(ctx context.Context, session *entity.Session) error {
	header := r.mapper.ToModel(session)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(header).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.SessionID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		if len(session.Messages) == 0 {
			return nil
		}
		rows := make([]*model.ChatMessage, 0, len(session.Messages))
		for i := range session.Messages {
			rows = append(rows, r.mapper.MessageToModel(session.SessionID, &session.Messages[i]))
		}
		return tx.Create(rows).Error
	})
}

func (r *SessionRepositoryImpl) AppendMessage(ctx context.Context, sessionID string, msg *entity.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ChatSession{}).
			Where("session_id = ?", sessionID).
			Update("updated_at", msg.Timestamp)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NewNotFound("session", sessionID)
		}
		return tx.Create(r.mapper.MessageToModel(sessionID, msg)).Error
	})
}

func (r *SessionRepositoryImpl) Load(ctx context.Context, sessionID string) (*entity.Session, error) {
	var header model.ChatSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rows []*model.ChatMessage
	query := r.applySpecifications(
		r.db.WithContext(ctx),
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "id"},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	session := r.mapper.ToEntity(&header)
	session.Messages = r.mapper.MessagesToEntities(rows)
	return session, nil
}

// summaryRow carries the header plus the transcript length in one scan.
type summaryRow struct {
	model.ChatSession
	MessageCount int
}

func (r *SessionRepositoryImpl) ListSummaries(ctx context.Context) ([]*entity.SessionSummary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Table("chat_sessions").
		Select("chat_sessions.*, (SELECT COUNT(*) FROM chat_messages WHERE chat_messages.session_id = chat_sessions.session_id) AS message_count").
		Order("updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.SessionSummary, len(rows))
	for i, row := range rows {
		summaries[i] = &entity.SessionSummary{
			SessionID:    row.SessionID,
			UserName:     row.UserName,
			Model:        row.Model,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
			MessageCount: row.MessageCount,
		}
	}
	return summaries, nil
}

func (r *SessionRepositoryImpl) Rename(ctx context.Context, oldID string, newID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupied int64
		if err := tx.Model(&model.ChatSession{}).Where("session_id = ?", newID).Count(&occupied).Error; err != nil {
			return err
		}
		if occupied > 0 {
			return apperror.NewConflict("session", newID)
		}

		// autoUpdateTime is off, so the move leaves updated_at untouched.
		res := tx.Model(&model.ChatSession{}).
			Where("session_id = ?", oldID).
			Update("session_id", newID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NewNotFound("session", oldID)
		}

		return tx.Model(&model.ChatMessage{}).
			Where("session_id = ?", oldID).
			Update("session_id", newID).Error
	})
}

func (r *SessionRepositoryImpl) ClearMessages(ctx context.Context, sessionID string, keepRoles []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ChatSession{}).
			Where("session_id = ?", sessionID).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NewNotFound("session", sessionID)
		}

		del := tx.Where("session_id = ?", sessionID)
		if len(keepRoles) > 0 {
			del = specification.ExcludeRoles{Roles: keepRoles}.Apply(del)
		}
		return del.Delete(&model.ChatMessage{}).Error
	})
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Where("session_id = ?", sessionID).Delete(&model.ChatSession{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NewNotFound("session", sessionID)
		}
		return nil
	})
}

func (r *SessionRepositoryImpl) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ChatSession{}).Error
	})
}
