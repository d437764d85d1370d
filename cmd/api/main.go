package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"finextract/pkg/api/catalog"
	"finextract/pkg/api/upload"
	"finextract/pkg/core/notify"
	"finextract/pkg/core/provider"
)

const uploadDir = "uploads"

func main() {
	// Load environment variables
	godotenv.Load()

	cat, err := provider.LoadCatalog("config/models.yaml")
	if err != nil {
		log.Printf("[WARNING] Failed to load model catalog: %v", err)
		cat = &provider.Catalog{}
	}

	// Stale uploads from a previous run are removed at startup; live
	// requests clean up after themselves.
	cleanUploadDir()

	registry := buildRegistry(cat)

	sink := notify.NewTelegramSink(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if !sink.Enabled() {
		log.Println("[Notify] Telegram sink disabled (no bot token)")
	}

	uploadHandler := upload.NewHandler(registry, sink, chatID, uploadDir)
	catalogHandler := catalog.NewHandler(cat)

	http.Handle("/upload", uploadHandler)
	http.Handle("/models", catalogHandler)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /upload")
	fmt.Println("  - GET  /models")
	fmt.Println("  - GET  /health")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

// buildRegistry registers every backend whose credentials are present.
// Missing credentials skip the backend with a log line rather than aborting
// startup; requests selecting it then fail with an invalid selection.
func buildRegistry(cat *provider.Catalog) *provider.Registry {
	registry := provider.NewRegistry(cat.DefaultModel())

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		client, err := provider.NewGeminiClient(context.Background(), key)
		if err != nil {
			log.Printf("[WARNING] Gemini client init failed: %v", err)
		} else {
			registry.RegisterPrefix("gemini-", func(model string) provider.Backend {
				return provider.Backend{Structured: provider.NewGeminiBackend(client, model)}
			})
		}
	} else {
		log.Println("[WARNING] GEMINI_API_KEY not set, Gemini models unavailable")
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		backend, err := provider.NewAnthropicBackend(key)
		if err != nil {
			log.Printf("[WARNING] Claude init failed: %v", err)
		} else {
			registry.Register("claude", provider.Backend{Structured: backend})
		}
	} else {
		log.Println("[WARNING] ANTHROPIC_API_KEY not set, Claude unavailable")
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		backend, err := provider.NewOpenAIBackend(key)
		if err != nil {
			log.Printf("[WARNING] GPT init failed: %v", err)
		} else {
			registry.Register("gpt-4", provider.Backend{Structured: backend})
		}
	} else {
		log.Println("[WARNING] OPENAI_API_KEY not set, GPT unavailable")
	}

	endpoint := os.Getenv("AZURE_COMPUTER_VISION_ENDPOINT")
	if key := os.Getenv("AZURE_COMPUTER_VISION_KEY"); key != "" && endpoint != "" {
		backend, err := provider.NewAzureReadBackend(endpoint, key)
		if err != nil {
			log.Printf("[WARNING] Azure Read init failed: %v", err)
		} else {
			registry.Register("azure-read", provider.Backend{Text: backend})
		}
	} else {
		log.Println("[WARNING] Azure Computer Vision credentials not set, azure-read unavailable")
	}

	if key := os.Getenv("MISTRAL_API_KEY"); key != "" {
		backend, err := provider.NewMistralOCRBackend(key)
		if err != nil {
			log.Printf("[WARNING] Mistral OCR init failed: %v", err)
		} else {
			registry.Register("mistral-ocr", provider.Backend{Text: backend})
		}
	} else {
		log.Println("[WARNING] MISTRAL_API_KEY not set, mistral-ocr unavailable")
	}

	return registry
}

func cleanUploadDir() {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("[WARNING] Failed to remove stale upload %s: %v", path, err)
		}
	}
}
