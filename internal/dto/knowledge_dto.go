package dto

type DocumentPayload struct {
	Content  string                 `json:"content" validate:"required"`
	Source   string                 `json:"source" validate:"required"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type AddDocumentsRequest struct {
	Documents []DocumentPayload `json:"documents" validate:"required,min=1,dive"`
}

type AddTextRequest struct {
	Text   string `json:"text" validate:"required"`
	Source string `json:"source,omitempty"`
}

type AddFileRequest struct {
	Path string `json:"path" validate:"required"`
}

type AddDocumentsResponse struct {
	ChunksAdded int `json:"chunks_added"`
}

type QueryRequest struct {
	Query     string   `json:"query" validate:"required"`
	TopK      int      `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,min=0,max=1"`
}

type QueryResultResponse struct {
	Content    string                 `json:"content"`
	Similarity float64                `json:"similarity"`
	Distance   float64                `json:"distance"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type QueryContextResponse struct {
	Context string `json:"context"`
}

type CollectionInfoResponse struct {
	Name        string `json:"name"`
	Count       int64  `json:"count"`
	StoragePath string `json:"storage_path"`
}
