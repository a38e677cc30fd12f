package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ai-assistant-be/internal/apperror"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/textsplitter"
)

// IKnowledgeService maintains the persistent knowledge index: chunking,
// embedding and retrieval over one ChunkRepository.
type IKnowledgeService interface {
	AddDocuments(ctx context.Context, req *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error)
	AddText(ctx context.Context, req *dto.AddTextRequest) (*dto.AddDocumentsResponse, error)
	AddFile(ctx context.Context, req *dto.AddFileRequest) (*dto.AddDocumentsResponse, error)
	IndexDocuments(ctx context.Context, docs []entity.DocumentInput) (int, error)
	Query(ctx context.Context, req *dto.QueryRequest) ([]*dto.QueryResultResponse, error)
	QueryWithContext(ctx context.Context, query string, topK int) (string, error)
	Info(ctx context.Context) (*dto.CollectionInfoResponse, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context, w io.Writer) error
}

type knowledgeService struct {
	chunkRepo contract.ChunkRepository
	splitter  *textsplitter.RecursiveSplitter
	embedder  embedding.Provider
	delivery  EventDelivery
	cfg       *config.Config
	logger    logger.ILogger
}

// NewKnowledgeService builds the knowledge service. The embedder may be nil
// when no provider is configured; indexing then fails loudly and retrieval
// degrades to empty results. The delivery may be nil (CLI tools); indexing
// then goes unannounced.
func NewKnowledgeService(
	chunkRepo contract.ChunkRepository,
	splitter *textsplitter.RecursiveSplitter,
	embedder embedding.Provider,
	delivery EventDelivery,
	cfg *config.Config,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		chunkRepo: chunkRepo,
		splitter:  splitter,
		embedder:  embedder,
		delivery:  delivery,
		cfg:       cfg,
		logger:    log,
	}
}

// chunkID is content-addressed so re-importing the same document overwrites
// rather than duplicates.
func chunkID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "doc_" + hex.EncodeToString(sum[:])
}

// announceIndexed pushes a knowledge.indexed event to connected websocket
// clients. The background consumer announces its own imports; this covers the
// direct API entry points.
func (s *knowledgeService) announceIndexed(source string, chunks int) {
	if s.delivery == nil || chunks == 0 {
		return
	}
	s.delivery.Broadcast(events.NewKnowledgeIndexed(source, chunks))
}

func (s *knowledgeService) AddDocuments(ctx context.Context, req *dto.AddDocumentsRequest) (*dto.AddDocumentsResponse, error) {
	docs := make([]entity.DocumentInput, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, entity.DocumentInput{
			Content:  d.Content,
			Source:   d.Source,
			Metadata: d.Metadata,
		})
	}
	added, err := s.IndexDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}

	source := fmt.Sprintf("%d documents", len(docs))
	if len(docs) == 1 {
		source = docs[0].Source
	}
	s.announceIndexed(source, added)

	return &dto.AddDocumentsResponse{ChunksAdded: added}, nil
}

func (s *knowledgeService) AddText(ctx context.Context, req *dto.AddTextRequest) (*dto.AddDocumentsResponse, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "user_input"
	}
	added, err := s.IndexDocuments(ctx, []entity.DocumentInput{{
		Content:  req.Text,
		Source:   source,
		Metadata: map[string]interface{}{"type": "user_text"},
	}})
	if err != nil {
		return nil, err
	}
	s.announceIndexed(source, added)
	return &dto.AddDocumentsResponse{ChunksAdded: added}, nil
}

func (s *knowledgeService) AddFile(ctx context.Context, req *dto.AddFileRequest) (*dto.AddDocumentsResponse, error) {
	content, err := os.ReadFile(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NewNotFound("file", req.Path)
		}
		return nil, fmt.Errorf("reading %s: %w", req.Path, err)
	}
	added, err := s.IndexDocuments(ctx, []entity.DocumentInput{{
		Content:  string(content),
		Source:   filepath.Base(req.Path),
		Metadata: map[string]interface{}{"type": "file", "path": req.Path},
	}})
	if err != nil {
		return nil, err
	}
	s.announceIndexed(filepath.Base(req.Path), added)
	return &dto.AddDocumentsResponse{ChunksAdded: added}, nil
}

// IndexDocuments splits, embeds and upserts documents. Embedding runs as one
// batch per call; if the batch fails it falls back to per-chunk requests and
// skips chunks that still fail, so one bad chunk cannot sink an import.
func (s *knowledgeService) IndexDocuments(ctx context.Context, docs []entity.DocumentInput) (int, error) {
	if s.embedder == nil {
		return 0, apperror.NewConfiguration("no embedding provider configured, cannot index documents", nil)
	}

	var chunks []*entity.Chunk
	for _, doc := range docs {
		source := doc.Source
		if source == "" {
			source = "unknown"
		}
		for idx, text := range s.splitter.Split(doc.Content) {
			metadata := make(map[string]interface{}, len(doc.Metadata)+2)
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			metadata["source"] = source
			metadata["chunk_index"] = idx

			chunks = append(chunks, &entity.Chunk{
				ID:         chunkID(text),
				Text:       text,
				Source:     source,
				ChunkIndex: idx,
				Metadata:   metadata,
			})
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err == nil {
		for i, chunk := range chunks {
			chunk.Embedding = vectors[i]
		}
	} else {
		s.logger.Warn("KNOWLEDGE", "Batch embedding failed, falling back to per-chunk requests", map[string]interface{}{"error": err.Error()})
		embedded := chunks[:0]
		for _, chunk := range chunks {
			vector, embedErr := s.embedder.EmbedQuery(ctx, chunk.Text)
			if embedErr != nil {
				s.logger.Warn("KNOWLEDGE", "Skipping chunk that failed to embed", map[string]interface{}{"id": chunk.ID, "error": embedErr.Error()})
				continue
			}
			chunk.Embedding = vector
			embedded = append(embedded, chunk)
		}
		chunks = embedded
	}
	if len(chunks) == 0 {
		return 0, &apperror.APIError{Provider: s.embedder.ModelName(), Message: "all chunks failed to embed", Err: err}
	}

	if err := s.chunkRepo.UpsertBulk(ctx, chunks); err != nil {
		return 0, err
	}

	s.logger.Info("KNOWLEDGE", "Indexed documents", map[string]interface{}{"documents": len(docs), "chunks": len(chunks)})
	return len(chunks), nil
}

func (s *knowledgeService) Query(ctx context.Context, req *dto.QueryRequest) ([]*dto.QueryResultResponse, error) {
	results, err := s.search(ctx, req.Query, req.TopK, req.Threshold)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.QueryResultResponse, 0, len(results))
	for _, r := range results {
		response = append(response, &dto.QueryResultResponse{
			Content:    r.Content,
			Similarity: r.Similarity,
			Distance:   r.Distance,
			Metadata:   r.Metadata,
		})
	}
	return response, nil
}

// QueryWithContext renders retrieval hits as a prompt section. Returns the
// empty string when nothing clears the threshold, so callers can skip the
// section entirely.
func (s *knowledgeService) QueryWithContext(ctx context.Context, query string, topK int) (string, error) {
	results, err := s.search(ctx, query, topK, nil)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## Retrieved Context:\n\n")
	for i, r := range results {
		source := "unknown"
		if v, ok := r.Metadata["source"].(string); ok && v != "" {
			source = v
		}
		sb.WriteString(fmt.Sprintf("### Source %d: %s (Relevance: %.2f%%)\n%s\n\n", i+1, source, r.Similarity*100, r.Content))
	}
	return sb.String(), nil
}

// search is the shared retrieval path. A missing embedder or a failed query
// embedding degrades to no results, because retrieval augments chat rather
// than gating it.
func (s *knowledgeService) search(ctx context.Context, query string, topK int, threshold *float64) ([]*entity.QueryResult, error) {
	if s.embedder == nil {
		s.logger.Warn("KNOWLEDGE", "No embedding provider configured, skipping retrieval", nil)
		return nil, nil
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Error("KNOWLEDGE", "Query embedding failed, skipping retrieval", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	if topK <= 0 {
		topK = s.cfg.Ai.RetrievalTopK
	}
	if topK <= 0 {
		topK = constant.DefaultQueryTopK
	}
	minSimilarity := s.cfg.Ai.RetrievalThreshold
	if threshold != nil {
		minSimilarity = *threshold
	}

	return s.chunkRepo.Search(ctx, queryVector, topK, minSimilarity)
}

func (s *knowledgeService) Info(ctx context.Context) (*dto.CollectionInfoResponse, error) {
	count, err := s.chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	storage := s.cfg.Database.Path
	if storage == "" {
		storage = s.cfg.Database.Driver
	}
	return &dto.CollectionInfoResponse{
		Name:        s.cfg.Vector.Collection,
		Count:       count,
		StoragePath: storage,
	}, nil
}

func (s *knowledgeService) Clear(ctx context.Context) error {
	if err := s.chunkRepo.Clear(ctx); err != nil {
		return err
	}
	s.logger.Warn("KNOWLEDGE", "Cleared knowledge collection", map[string]interface{}{"collection": s.cfg.Vector.Collection})
	return nil
}

// Export streams the whole collection as indented JSON, embeddings excluded.
func (s *knowledgeService) Export(ctx context.Context, w io.Writer) error {
	chunks, err := s.chunkRepo.ExportAll(ctx)
	if err != nil {
		return err
	}

	export := entity.CollectionExport{
		Collection: s.cfg.Vector.Collection,
		Count:      len(chunks),
		Documents: entity.CollectionExportBody{
			IDs:       make([]string, 0, len(chunks)),
			Documents: make([]string, 0, len(chunks)),
			Metadatas: make([]map[string]interface{}, 0, len(chunks)),
		},
	}
	for _, chunk := range chunks {
		export.Documents.IDs = append(export.Documents.IDs, chunk.ID)
		export.Documents.Documents = append(export.Documents.Documents, chunk.Text)
		export.Documents.Metadatas = append(export.Documents.Metadatas, chunk.Metadata)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
