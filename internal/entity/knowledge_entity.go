package entity

// DocumentInput is one document handed to the knowledge index for chunking.
type DocumentInput struct {
	Content  string                 `json:"content"`
	Source   string                 `json:"source"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Chunk is one indexed slice of a document. The id is content-addressed
// (sha-256 of the chunk text), so re-importing identical text lands on the
// same row instead of duplicating it.
type Chunk struct {
	ID         string                 `json:"id"`
	Text       string                 `json:"text"`
	Source     string                 `json:"source"`
	ChunkIndex int                    `json:"chunk_index"`
	Embedding  []float32              `json:"embedding,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// QueryResult is one retrieval hit. Similarity is 1 - cosine distance and only
// results at or above the caller's threshold are surfaced.
type QueryResult struct {
	Content    string                 `json:"content"`
	Similarity float64                `json:"similarity"`
	Distance   float64                `json:"distance"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// CollectionInfo describes the index for status endpoints.
type CollectionInfo struct {
	Name        string `json:"name"`
	Count       int64  `json:"count"`
	StoragePath string `json:"storage_path"`
}

// CollectionExport is the export file layout: parallel id/text/metadata lists.
type CollectionExport struct {
	Collection string               `json:"collection"`
	Count      int                  `json:"count"`
	Documents  CollectionExportBody `json:"documents"`
}

type CollectionExportBody struct {
	IDs       []string                 `json:"ids"`
	Documents []string                 `json:"documents"`
	Metadatas []map[string]interface{} `json:"metadatas"`
}
