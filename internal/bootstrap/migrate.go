package bootstrap

import (
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date for the configured backends. The rest
// server runs it at boot so a fresh checkout works with zero manual steps;
// cmd/migrate runs the same path standalone.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	usePgvector := cfg.Vector.Backend == "pgvector"

	// Extensions first, the vector column type does not exist without it.
	if cfg.Database.Driver == database.DriverPostgres && usePgvector {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
			log.Printf("Warn: Failed to create vector extension: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.ChatSession{},
		&model.ChatMessage{},
	}
	// Both chunk models map the same table; migrate only the active shape.
	if usePgvector {
		models = append(models, &model.KnowledgeChunkVector{})
	} else {
		models = append(models, &model.KnowledgeChunk{})
	}

	if err := db.AutoMigrate(models...); err != nil {
		return err
	}

	if usePgvector {
		indexSQL := `CREATE INDEX IF NOT EXISTS idx_knowledge_chunks_embedding
			ON knowledge_chunks USING hnsw (embedding vector_cosine_ops);`
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warn: Failed to create hnsw index: %v. Continuing...", err)
		}
	}

	return nil
}
