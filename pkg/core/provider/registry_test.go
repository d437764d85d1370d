package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finextract/pkg/models"
)

type stubStructured struct {
	model string
}

func (s *stubStructured) ExtractStatement(ctx context.Context, document []byte) (*StatementResult, error) {
	return &StatementResult{Record: models.FinancialStatementRecord{RevenueUnit: models.UnitLakhs}}, nil
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry("gemini-2.0-flash")
	registry.Register("claude", Backend{Structured: &stubStructured{model: "claude"}})
	registry.RegisterPrefix("gemini-", func(model string) Backend {
		return Backend{Structured: &stubStructured{model: model}}
	})

	t.Run("exact selector", func(t *testing.T) {
		b, err := registry.Resolve("claude")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if b.ID != "claude" {
			t.Errorf("ID = %q, want claude", b.ID)
		}
	})

	t.Run("selector is case insensitive", func(t *testing.T) {
		if _, err := registry.Resolve("Claude"); err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
	})

	t.Run("empty selector uses the default", func(t *testing.T) {
		b, err := registry.Resolve("")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if b.ID != "gemini-2.0-flash" {
			t.Errorf("ID = %q, want gemini-2.0-flash", b.ID)
		}
	})

	t.Run("prefix selector builds with the full model id", func(t *testing.T) {
		b, err := registry.Resolve("gemini-2.5-flash")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		stub, ok := b.Structured.(*stubStructured)
		if !ok {
			t.Fatalf("expected the stub backend, got %T", b.Structured)
		}
		if stub.model != "gemini-2.5-flash" {
			t.Errorf("model = %q, want gemini-2.5-flash", stub.model)
		}
	})

	t.Run("unknown selector is rejected", func(t *testing.T) {
		_, err := registry.Resolve("gpt-5000")
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got %v", err)
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	data := `providers:
  - id: google
    name: Google
    models:
      - id: gemini-2.0-flash
        name: Gemini 2.0 Flash
        description: fast
        default: true
      - id: gemini-1.5-pro
        name: Gemini 1.5 Pro
        description: long context
  - id: azure
    name: Azure Computer Vision
    models:
      - id: azure-read
        name: Azure Read OCR
        description: raw text
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog returned error: %v", err)
	}
	if len(cat.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(cat.Providers))
	}
	if got := cat.DefaultModel(); got != "gemini-2.0-flash" {
		t.Errorf("DefaultModel = %q, want gemini-2.0-flash", got)
	}

	all := cat.AllModels()
	if len(all) != 3 {
		t.Fatalf("AllModels = %d entries, want 3", len(all))
	}
	if all[2].ID != "azure-read" || all[2].ProviderID != "azure" {
		t.Errorf("flattened model = %+v, want azure-read under azure", all[2])
	}
}

func TestCatalogDefaultModelFallback(t *testing.T) {
	cat := &Catalog{}
	if got := cat.DefaultModel(); got != "gemini-2.0-flash" {
		t.Errorf("DefaultModel on empty catalog = %q, want the documented fallback", got)
	}
}
