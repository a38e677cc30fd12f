//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/pkg/embedding"
)

// CosineSimilarity calculates similarity between two vectors
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	fmt.Println("--- Initializing Providers ---")
	gemini := embedding.NewGeminiProvider(cfg.Ai.GoogleAPIKey, cfg.Ai.EmbeddingModel)
	ollama := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)

	text1 := "The quick brown fox jumps over the lazy dog"      // Original
	text2 := "A fast brown fox leaps over a sleepy canine"      // Semantically similar
	text3 := "Quantum physics explores the nature of particles" // Completely different

	fmt.Println("\n--- Generating Embeddings ---")

	generate := func(name string, p embedding.Provider) ([]float32, []float32, []float32) {
		fmt.Printf("\n[%s] Generating...\n", name)

		v1, err := p.EmbedQuery(ctx, text1)
		if err != nil {
			log.Printf("Error %s (Text 1): %v", name, err)
			return nil, nil, nil
		}
		fmt.Printf("[%s] Dimensions: %d\n", name, len(v1))

		v2, err := p.EmbedQuery(ctx, text2)
		if err != nil {
			log.Printf("Error %s (Text 2): %v", name, err)
			return nil, nil, nil
		}

		v3, err := p.EmbedQuery(ctx, text3)
		if err != nil {
			log.Printf("Error %s (Text 3): %v", name, err)
			return nil, nil, nil
		}
		return v1, v2, v3
	}

	report := func(name string, v1, v2, v3 []float32) {
		if v1 == nil {
			fmt.Printf("\n[%s] Skipped (generation failed)\n", name)
			return
		}
		fmt.Printf("\n[%s] similar pair:   %.4f\n", name, CosineSimilarity(v1, v2))
		fmt.Printf("[%s] unrelated pair: %.4f\n", name, CosineSimilarity(v1, v3))
	}

	g1, g2, g3 := generate("GEMINI", gemini)
	o1, o2, o3 := generate("OLLAMA", ollama)

	fmt.Println("\n--- Similarity Report ---")
	report("GEMINI", g1, g2, g3)
	report("OLLAMA", o1, o2, o3)
}
