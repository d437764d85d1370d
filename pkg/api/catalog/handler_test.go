package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finextract/pkg/core/provider"
)

func testCatalog() *provider.Catalog {
	return &provider.Catalog{
		Providers: []provider.ProviderInfo{
			{
				ID:   "google",
				Name: "Google",
				Models: []provider.ModelInfo{
					{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Default: true},
					{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro"},
				},
			},
			{
				ID:   "azure",
				Name: "Azure Computer Vision",
				Models: []provider.ModelInfo{
					{ID: "azure-read", Name: "Azure Read OCR"},
				},
			},
		},
	}
}

func TestCatalogHandler(t *testing.T) {
	handler := NewHandler(testCatalog())

	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Providers    []provider.ProviderInfo `json:"providers"`
		DefaultModel string                  `json:"defaultModel"`
		AllModels    []provider.FlatModel    `json:"allModels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if res.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("defaultModel = %q, want gemini-2.0-flash", res.DefaultModel)
	}
	if len(res.Providers) != 2 {
		t.Errorf("providers = %d, want 2", len(res.Providers))
	}
	if len(res.AllModels) != 3 {
		t.Fatalf("allModels = %d, want 3", len(res.AllModels))
	}
	if res.AllModels[0].ProviderID != "google" || !res.AllModels[0].Default {
		t.Errorf("first flattened model = %+v, want the google default", res.AllModels[0])
	}
}

func TestCatalogHandlerRejectsPost(t *testing.T) {
	handler := NewHandler(testCatalog())

	req := httptest.NewRequest(http.MethodPost, "/models", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
