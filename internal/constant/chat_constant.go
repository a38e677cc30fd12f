package constant

const (
	MessageRoleUser            = "user"
	MessageRoleAssistant       = "assistant"
	MessageRoleDocumentContext = "document_context"

	DefaultChatModel      = "gemini-2.5-flash"
	DefaultEmbeddingModel = "models/embedding-001"

	// Chunking parameters for the knowledge index.
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50

	// Retrieval defaults.
	DefaultQueryTopK      = 3
	DefaultQueryThreshold = 0.5

	// Conversation history window passed to the model per turn.
	DefaultHistoryLimit = 10

	// Session ids are wall-clock based so listings read chronologically.
	SessionIDPrefix     = "session_"
	SessionIDTimeLayout = "20060102_150405"
)
