package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToModel(e *entity.Chunk) *model.KnowledgeChunk {
	if e == nil {
		return nil
	}
	return &model.KnowledgeChunk{
		ID:         e.ID,
		Document:   e.Text,
		Source:     e.Source,
		ChunkIndex: e.ChunkIndex,
		Embedding:  embeddingToJSON(e.Embedding),
		Metadata:   mapToJSON(e.Metadata),
	}
}

func (m *ChunkMapper) ToEntity(row *model.KnowledgeChunk) *entity.Chunk {
	if row == nil {
		return nil
	}
	return &entity.Chunk{
		ID:         row.ID,
		Text:       row.Document,
		Source:     row.Source,
		ChunkIndex: row.ChunkIndex,
		Embedding:  embeddingFromJSON(row.Embedding),
		Metadata:   jsonToMap(row.Metadata),
	}
}

func (m *ChunkMapper) ToVectorModel(e *entity.Chunk) *model.KnowledgeChunkVector {
	if e == nil {
		return nil
	}
	return &model.KnowledgeChunkVector{
		ID:         e.ID,
		Document:   e.Text,
		Source:     e.Source,
		ChunkIndex: e.ChunkIndex,
		Embedding:  pgvector.NewVector(e.Embedding),
		Metadata:   mapToJSON(e.Metadata),
	}
}

func (m *ChunkMapper) VectorToEntity(row *model.KnowledgeChunkVector) *entity.Chunk {
	if row == nil {
		return nil
	}
	return &entity.Chunk{
		ID:         row.ID,
		Text:       row.Document,
		Source:     row.Source,
		ChunkIndex: row.ChunkIndex,
		Embedding:  row.Embedding.Slice(),
		Metadata:   jsonToMap(row.Metadata),
	}
}

// ResultMetadata folds a chunk's identity into its stored metadata for query
// responses, mirroring what callers need to render a citation.
func (m *ChunkMapper) ResultMetadata(c *entity.Chunk) map[string]interface{} {
	out := make(map[string]interface{}, len(c.Metadata)+2)
	for k, v := range c.Metadata {
		out[k] = v
	}
	out["source"] = c.Source
	out["chunk_index"] = c.ChunkIndex
	return out
}

func embeddingToJSON(vec []float32) datatypes.JSON {
	if len(vec) == 0 {
		return nil
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func embeddingFromJSON(raw datatypes.JSON) []float32 {
	if len(raw) == 0 {
		return nil
	}
	var out []float32
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
