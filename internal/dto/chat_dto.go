package dto

type SendChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
	UseRAG    *bool  `json:"use_rag,omitempty"` // nil means true
}

type SendChatResponse struct {
	SessionID string          `json:"session_id"`
	Sent      MessageResponse `json:"sent"`
	Reply     MessageResponse `json:"reply"`
}

// ImportDocumentRequest accepts either a server-side path or inline content;
// exactly one must be set.
type ImportDocumentRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Path      string `json:"path,omitempty"`
	Content   string `json:"content,omitempty"`
	Name      string `json:"name,omitempty"`
}

type ImportDocumentResponse struct {
	SessionID  string `json:"session_id"`
	Source     string `json:"source"`
	Characters int    `json:"characters"`
}
