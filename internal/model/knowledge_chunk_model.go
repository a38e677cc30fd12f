package model

import (
	"time"

	"gorm.io/datatypes"
)

// KnowledgeChunk is the portable chunk row used by the embedded vector
// backend: the embedding rides along as a JSON array and similarity is
// computed in-process, so this works on any driver.
type KnowledgeChunk struct {
	ID         string `gorm:"type:varchar(128);primaryKey"`
	Document   string `gorm:"type:text;not null"`
	Source     string `gorm:"type:varchar(512);index"`
	ChunkIndex int    `gorm:"default:0"`
	Embedding  datatypes.JSON
	Metadata   datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
