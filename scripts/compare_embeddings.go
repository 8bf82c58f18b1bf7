//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"ai-editor-be/internal/config"
	"ai-editor-be/pkg/embedding"
	"ai-editor-be/pkg/embedding/jina"
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

	// 1. Initialize Providers
	fmt.Println("--- Initializing Providers ---")
	ollama := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	jinaProv := jina.NewJinaProvider(cfg.Ai.JinaAPIKey)

	// 2. Define Test Cases
	text1 := "The quick brown fox jumps over the lazy dog"      // Original
	text2 := "A fast brown fox leaps over a sleepy canine"      // Semantically similar
	text3 := "Quantum physics explores the nature of particles" // Completely different

	fmt.Println("\n--- Generating Embeddings ---")

	// Helper to generate and print info
	generate := func(name string, p embedding.Provider, t1, t2, t3 string) ([]float32, []float32, []float32) {
		fmt.Printf("\n[%s] Generating...\n", name)

		v1, err := p.EmbedText(ctx, t1)
		if err != nil {
			log.Printf("Error %s (Text 1): %v", name, err)
			return nil, nil, nil
		}
		fmt.Printf("[%s] Text 1 Dimensions: %d\n", name, len(v1))

		v2, err := p.EmbedText(ctx, t2)
		if err != nil {
			log.Printf("Error %s (Text 2): %v", name, err)
			return nil, nil, nil
		}

		v3, err := p.EmbedText(ctx, t3)
		if err != nil {
			log.Printf("Error %s (Text 3): %v", name, err)
			return nil, nil, nil
		}

		return v1, v2, v3
	}

	// 3. Run Ollama
	o1, o2, o3 := generate("OLLAMA", ollama, text1, text2, text3)

	// 4. Run Jina
	j1, j2, j3 := generate("JINA", jinaProv, text1, text2, text3)

	// 5. Compare Similarity
	fmt.Println("\n--- Semantic Similarity Comparison ---")
	fmt.Println("(Higher is better, 1.0 = identical)")

	if o1 != nil && o2 != nil && o3 != nil {
		fmt.Printf("\n[OLLAMA] (%d dims)\n", len(o1))
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar): %.4f\n", CosineSimilarity(o1, o2))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", CosineSimilarity(o1, o3))
	}

	if j1 != nil && j2 != nil && j3 != nil {
		fmt.Printf("\n[JINA] (%d dims)\n", len(j1))
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar): %.4f\n", CosineSimilarity(j1, j2))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", CosineSimilarity(j1, j3))
	}

	fmt.Println("\n--- Conclusion ---")
	fmt.Println("Both providers should rank Text 1 & 2 as more similar than Text 1 & 3.")
}
