package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// KnowledgeChunkVector is the pgvector variant of the chunk row. Same table
// name as KnowledgeChunk; a deployment runs one backend or the other, never
// both. 768 dimensions matches the Gemini embedding models.
type KnowledgeChunkVector struct {
	ID         string          `gorm:"type:varchar(128);primaryKey"`
	Document   string          `gorm:"type:text;not null"`
	Source     string          `gorm:"type:varchar(512);index"`
	ChunkIndex int             `gorm:"default:0"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	Metadata   datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (KnowledgeChunkVector) TableName() string {
	return "knowledge_chunks"
}
