package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-editor-be/internal/config"
	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/completion/factory"
	"ai-editor-be/pkg/editor"

	"github.com/joho/godotenv"
)

// Runs one assist action against an in-memory document and prints every
// event the runner emits. No database, no server; just the streaming
// replacement pipeline against a live model.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	// 2. Resolve Action
	actionName := "improve"
	if len(os.Args) > 1 {
		actionName = os.Args[1]
	}
	action, ok := assist.ActionByName(actionName)
	if !ok {
		log.Fatalf("Unknown action: %s (want summarize, improve or complete)", actionName)
	}

	// 3. Setup Provider
	provider, err := factory.NewProvider(
		cfg.Ai.CompletionProvider,
		cfg.Ai.CompletionBaseURL,
		cfg.Ai.CompletionAPIKey,
		cfg.Ai.CompletionModel,
	)
	if err != nil {
		log.Fatalf("Failed to initialize completion provider: %v", err)
	}

	// 4. Build Document
	text := "The meeting went long again. We spent the first forty minutes on status updates that could have been an email, and the actual decision about the launch date got squeezed into the last five minutes. Next week we should flip the agenda."
	buf := editor.NewBuffer(text)

	// Select the middle sentence
	from := strings.Index(text, "We spent")
	to := strings.Index(text, " Next week")
	if err := buf.SetSelection(editor.Range{Start: from, End: to}); err != nil {
		log.Fatalf("Failed to set selection: %v", err)
	}

	fmt.Println("--- DOCUMENT ---")
	fmt.Println(text)
	fmt.Printf("Selection: [%d:%d]\n", from, to)
	fmt.Println("----------------")

	// 5. Run with a tracing listener
	fragments := 0
	listener := func(ev assist.Event) {
		switch ev.Type {
		case assist.EventStarted:
			fmt.Printf("[STARTED] action=%s\n", ev.Action)
		case assist.EventFragment:
			fragments++
			fmt.Printf("[FRAGMENT %03d] %q\n", fragments, ev.Fragment)
		case assist.EventReplaceFailed:
			fmt.Printf("[REPLACE FAILED] %v\n", ev.Err)
		case assist.EventCompleted:
			fmt.Printf("[COMPLETED] %d chars total\n", len(ev.Text))
		case assist.EventFailed:
			fmt.Printf("[FAILED] %v\n", ev.Err)
		}
	}

	runner := assist.NewRunner(buf, provider, listener)

	fmt.Printf("--- RUNNING %s ---\n", strings.ToUpper(action.Name))
	result, err := runner.Run(context.Background(), action,
		completion.WithTemperature(cfg.Ai.Temperature),
		completion.WithMaxTokens(cfg.Ai.MaxTokens),
	)
	if err != nil {
		fmt.Printf(">> Run failed: %v\n", err)
		fmt.Printf(">> Partial kept in document: %d chars\n", len(result))
	}
	fmt.Println("------------------")

	// 6. Final State
	fmt.Println("--- FINAL DOCUMENT ---")
	fmt.Println(buf.Export())
	fmt.Printf("Revision: %d, Selection now: [%d:%d]\n", buf.Revision(), buf.Selection().Start, buf.Selection().End)
	fmt.Println("----------------------")
}
