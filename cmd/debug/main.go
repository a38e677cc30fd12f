package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/pkg/database"
	embeddingFactory "ai-assistant-be/pkg/embedding/factory"
)

// Retrieval diagnostic: embeds one or more probe queries, pulls every chunk
// from the index unfiltered, and shows which survive a range of similarity
// thresholds. Run it when retrieval feels off before touching the configured
// threshold.
//
//	go run ./cmd/debug "what did the report say about latency?"

func main() {
	cfg := config.Load()

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
		log.Fatal("Embedding provider unavailable:", err)
	}

	dsn := cfg.Database.Path
	if cfg.Database.Driver == database.DriverPostgres {
		dsn = cfg.Database.Connection
	}
	db, err := database.NewGormDB(cfg.Database.Driver, dsn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}

	var chunkRepo contract.ChunkRepository
	if cfg.Vector.Backend == "pgvector" {
		chunkRepo = implementation.NewKnowledgeChunkVectorRepository(db)
	} else {
		chunkRepo = implementation.NewKnowledgeChunkRepository(db)
	}

	// === THRESHOLDS TO TEST ===
	thresholds := []float64{0.7, 0.6, 0.5, 0.4, 0.3, 0.2}

	// === PROBE QUERIES ===
	queries := os.Args[1:]
	if len(queries) == 0 {
		queries = []string{
			"summarize the imported documents",
			"what facts does the assistant know?",
		}
	}

	ctx := context.Background()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("RETRIEVAL DIAGNOSTIC")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Vector Backend: %s\n", cfg.Vector.Backend)
	fmt.Printf("Embedding: %s (%s)\n", cfg.Ai.EmbeddingProvider, embedder.ModelName())
	fmt.Printf("Configured: top_k=%d threshold=%.2f\n", cfg.Ai.RetrievalTopK, cfg.Ai.RetrievalThreshold)

	count, err := chunkRepo.Count(ctx)
	if err != nil {
		log.Fatal("Count failed:", err)
	}
	fmt.Printf("Indexed chunks: %d\n", count)
	fmt.Println()

	for _, query := range queries {
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("QUERY: %q\n", query)
		fmt.Println(strings.Repeat("-", 80))

		vector, err := embedder.EmbedQuery(ctx, query)
		if err != nil {
			log.Printf("Embedding failed for query %q: %v", query, err)
			continue
		}

		// Threshold -1 surfaces everything, anti-correlated chunks included;
		// the pass/fail columns below do the filtering instead.
		results, err := chunkRepo.Search(ctx, vector, 20, -1)
		if err != nil {
			log.Printf("Search failed: %v", err)
			continue
		}

		fmt.Printf("\n%-4s %-44s %-10s", "#", "Source", "Similarity")
		for _, thresh := range thresholds {
			fmt.Printf(" @%.1f", thresh)
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 100))

		for i, res := range results {
			source := "unknown"
			if s, ok := res.Metadata["source"].(string); ok && s != "" {
				source = s
			}
			if len(source) > 42 {
				source = source[:39] + "..."
			}

			fmt.Printf("%-4d %-44s %-10.4f", i+1, source, res.Similarity)
			for _, thresh := range thresholds {
				if res.Similarity >= thresh {
					fmt.Print("  Y ")
				} else {
					fmt.Print("  - ")
				}
			}
			fmt.Println()
		}
		fmt.Println()

		fmt.Println("Summary by Threshold:")
		for _, thresh := range thresholds {
			passed := 0
			for _, res := range results {
				if res.Similarity >= thresh {
					passed++
				}
			}
			fmt.Printf("  Threshold %.2f: %d chunks pass\n", thresh, passed)
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("ANALYSIS COMPLETE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
	fmt.Println("If relevant chunks score below the configured threshold, lower")
	fmt.Println("RETRIEVAL_THRESHOLD; if they rank past the cutoff, raise RETRIEVAL_TOP_K.")
}
