package main

import (
	"context"
	"log"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/database"
	embeddingFactory "ai-assistant-be/pkg/embedding/factory"
	"ai-assistant-be/pkg/textsplitter"
)

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
	if err := bootstrap.Migrate(db, cfg); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	embedModel := cfg.Ai.EmbeddingModel
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedModel = cfg.Ai.OllamaEmbedModel
	}
	embedder, err := embeddingFactory.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		embedModel,
		cfg.Ai.GoogleAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatal("Error: Seeding needs a working embedding provider:", err)
	}

	var chunkRepo contract.ChunkRepository
	if cfg.Vector.Backend == "pgvector" {
		chunkRepo = implementation.NewKnowledgeChunkVectorRepository(db)
	} else {
		chunkRepo = implementation.NewKnowledgeChunkRepository(db)
	}

	splitter := textsplitter.NewRecursiveSplitter(constant.DefaultChunkSize, constant.DefaultChunkOverlap)
	knowledge := service.NewKnowledgeService(chunkRepo, splitter, embedder, nil, cfg, logger.NewNopLogger())

	log.Println("Seeding Starter Knowledge...")

	// Chunk ids are content hashes, so re-running the seeder overwrites the
	// same rows instead of duplicating them.
	documents := []dto.DocumentPayload{
		{
			Source:  "guide/getting-started",
			Content: "This assistant keeps conversation history per session. Create a session, send messages, and switch between sessions without losing context. Sessions survive restarts.",
		},
		{
			Source:  "guide/knowledge-base",
			Content: "Import text, files, or whole chat transcripts into the knowledge base. Imported content is split into chunks, embedded, and retrieved by similarity when you ask related questions.",
		},
		{
			Source:  "guide/models",
			Content: "The chat model and the embedding model are configured independently. Switching the chat model takes effect on the next message; the embedding model must stay fixed once documents are indexed.",
		},
	}

	ctx := context.Background()
	res, err := knowledge.AddDocuments(ctx, &dto.AddDocumentsRequest{Documents: documents})
	if err != nil {
		log.Fatal("Error: Seeding failed:", err)
	}

	log.Printf("Indexed %d documents as %d chunks", len(documents), res.ChunksAdded)
	log.Println("Seeding completed!")
}
