package embedding

import "context"

// Task types accepted by the Gemini embedding API. Retrieval quality improves
// when documents and queries are embedded with their matching task type.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider generates dense vector representations of text.
type Provider interface {
	// EmbedQuery embeds a single piece of text for retrieval lookups.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// EmbedDocuments embeds a batch of texts for indexing. The returned slice
	// is positionally aligned with the input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// ModelName reports the identifier of the underlying embedding model.
	ModelName() string
}
