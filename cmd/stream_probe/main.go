package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"ai-editor-be/internal/config"
	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/completion/factory"

	"github.com/joho/godotenv"
)

// Probes the configured completion backend: opens one streaming request and
// prints per-fragment latency. Useful to tell a slow model apart from a
// broken SSE pipe.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	prompt := "Write three sentences about why first drafts are allowed to be bad."
	if len(os.Args) > 1 {
		prompt = strings.Join(os.Args[1:], " ")
	}

	// 2. Setup Provider
	provider, err := factory.NewProvider(
		cfg.Ai.CompletionProvider,
		cfg.Ai.CompletionBaseURL,
		cfg.Ai.CompletionAPIKey,
		cfg.Ai.CompletionModel,
	)
	if err != nil {
		log.Fatalf("Failed to initialize completion provider: %v", err)
	}

	fmt.Printf("--- PROBE: %s / %s ---\n", cfg.Ai.CompletionProvider, cfg.Ai.CompletionModel)
	fmt.Printf("Prompt: %q\n", prompt)
	fmt.Println("--------------------------------")

	history := []completion.Message{
		{Role: completion.RoleUser, Content: prompt},
	}

	start := time.Now()
	stream, err := provider.ChatStream(context.Background(), history,
		completion.WithTemperature(cfg.Ai.Temperature),
		completion.WithMaxTokens(cfg.Ai.MaxTokens),
	)
	if err != nil {
		log.Fatalf("ChatStream failed: %v", err)
	}
	defer stream.Close()

	// 3. Drain and time every fragment
	var (
		count      int
		totalChars int
		firstAt    time.Duration
		prev       = start
	)
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("\n[ERROR] stream died after %d fragments: %v\n", count, err)
			break
		}

		now := time.Now()
		count++
		totalChars += len(frag.Text)
		if count == 1 {
			firstAt = now.Sub(start)
		}
		fmt.Printf("[%4dms] #%03d %q\n", now.Sub(prev).Milliseconds(), count, frag.Text)
		prev = now
	}

	// 4. Summary
	elapsed := time.Since(start)
	fmt.Println("--------------------------------")
	fmt.Printf("Fragments: %d, Chars: %d\n", count, totalChars)
	fmt.Printf("Time to first fragment: %dms\n", firstAt.Milliseconds())
	fmt.Printf("Total: %dms\n", elapsed.Milliseconds())
	if count > 0 {
		fmt.Printf("Avg gap: %dms\n", (elapsed / time.Duration(count)).Milliseconds())
	}
}
