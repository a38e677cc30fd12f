package events

import "time"

// Watermill topic carrying document imports from the chat layer to the
// background indexer.
const TopicDocumentImported = "document.imported"

// Event types pushed to websocket subscribers.
const (
	TypeDocumentImported = "DOCUMENT_IMPORTED"
	TypeKnowledgeIndexed = "KNOWLEDGE_INDEXED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "KNOWLEDGE_INDEXED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation the assistant's own events use.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewDocumentImported describes a document_context message appended to a
// session, sized in characters.
func NewDocumentImported(sessionID string, source string, chars int) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentImported,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"source":     source,
			"characters": chars,
		},
		OccurredAt: time.Now(),
	}
}

// NewKnowledgeIndexed describes a document landing in the retrieval index.
func NewKnowledgeIndexed(source string, chunks int) BaseEvent {
	return BaseEvent{
		Type: TypeKnowledgeIndexed,
		Data: map[string]interface{}{
			"source": source,
			"chunks": chunks,
		},
		OccurredAt: time.Now(),
	}
}
