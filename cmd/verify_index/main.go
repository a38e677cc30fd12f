package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/pkg/database"
)

// Index integrity check: every chunk id must be the content hash of its text,
// and every embedding must share one dimensionality. A hash mismatch means the
// row was edited outside the import path; mixed dimensions mean the embedding
// model changed after indexing and the index needs a rebuild.

func main() {
	cfg := config.Load()

	dsn := cfg.Database.Path
	if cfg.Database.Driver == database.DriverPostgres {
		dsn = cfg.Database.Connection
		if dsn == "" {
			log.Fatal("Error: DB_CONNECTION_STRING is not set")
		}
	}

	db, err := database.NewGormDB(cfg.Database.Driver, dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var chunkRepo contract.ChunkRepository
	if cfg.Vector.Backend == "pgvector" {
		chunkRepo = implementation.NewKnowledgeChunkVectorRepository(db)
	} else {
		chunkRepo = implementation.NewKnowledgeChunkRepository(db)
	}

	ctx := context.Background()
	chunks, err := chunkRepo.ExportAll(ctx)
	if err != nil {
		log.Fatal("Error: Export failed:", err)
	}

	log.Printf("🔍 INDEX INTEGRITY CHECK: %d chunks (%s backend)", len(chunks), cfg.Vector.Backend)

	hashMismatches := 0
	emptyEmbeddings := 0
	dimensions := map[int]int{}
	sources := map[string]int{}

	for _, chunk := range chunks {
		sum := sha256.Sum256([]byte(chunk.Text))
		if chunk.ID != "doc_"+hex.EncodeToString(sum[:]) {
			hashMismatches++
			log.Printf("  ✗ hash mismatch: %s (source %q, index %d)", chunk.ID, chunk.Source, chunk.ChunkIndex)
		}

		if len(chunk.Embedding) == 0 {
			emptyEmbeddings++
			log.Printf("  ✗ empty embedding: %s (source %q)", chunk.ID, chunk.Source)
		} else {
			dimensions[len(chunk.Embedding)]++
		}

		sources[chunk.Source]++
	}

	log.Println(strings.Repeat("─", 50))
	log.Printf("Sources: %d", len(sources))
	for source, n := range sources {
		log.Printf("  %-40s %d chunks", source, n)
	}

	log.Println(strings.Repeat("─", 50))
	if len(dimensions) > 1 {
		log.Printf("✗ MIXED EMBEDDING DIMENSIONS: %v (rebuild the index with one model)", dimensions)
	} else {
		for dim := range dimensions {
			log.Printf("Embedding dimensions: %d (uniform)", dim)
		}
	}

	if hashMismatches == 0 && emptyEmbeddings == 0 && len(dimensions) <= 1 {
		log.Println("✅ Index is consistent")
		return
	}
	log.Printf("✗ Found %d hash mismatches, %d empty embeddings", hashMismatches, emptyEmbeddings)
}
