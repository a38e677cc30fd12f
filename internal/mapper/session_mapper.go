package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// ToModel converts a session header to its row form. Messages travel through
// MessageToModel separately; they live in their own table.
func (m *SessionMapper) ToModel(e *entity.Session) *model.ChatSession {
	if e == nil {
		return nil
	}
	return &model.ChatSession{
		SessionID:   e.SessionID,
		UserName:    e.UserName,
		UserPersona: e.UserPersona,
		Model:       e.Model,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Context:     mapToJSON(e.Context),
	}
}

// ToEntity converts a session row back to the domain form, with Messages left
// empty for the repository to attach.
func (m *SessionMapper) ToEntity(row *model.ChatSession) *entity.Session {
	if row == nil {
		return nil
	}
	return &entity.Session{
		SessionID:   row.SessionID,
		UserName:    row.UserName,
		UserPersona: row.UserPersona,
		Model:       row.Model,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Messages:    []entity.Message{},
		Context:     jsonToMap(row.Context),
	}
}

func (m *SessionMapper) MessageToModel(sessionID string, msg *entity.Message) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		SessionID: sessionID,
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		Metadata:  mapToJSON(msg.Metadata),
	}
}

func (m *SessionMapper) MessageToEntity(row *model.ChatMessage) *entity.Message {
	if row == nil {
		return nil
	}
	return &entity.Message{
		Role:      row.Role,
		Content:   row.Content,
		Timestamp: row.Timestamp,
		Metadata:  jsonToMap(row.Metadata),
	}
}

func (m *SessionMapper) MessagesToEntities(rows []*model.ChatMessage) []entity.Message {
	messages := make([]entity.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, *m.MessageToEntity(row))
	}
	return messages
}

// mapToJSON serializes a metadata map for a JSON column; nil maps become NULL
// rather than the string "null".
func mapToJSON(in map[string]interface{}) datatypes.JSON {
	if len(in) == 0 {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func jsonToMap(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
