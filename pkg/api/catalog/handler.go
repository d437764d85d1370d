// Package catalog serves the model catalog so clients can discover which
// backends are selectable and which one is the default.
package catalog

import (
	"encoding/json"
	"log"
	"net/http"

	"finextract/pkg/core/provider"
)

// Handler serves GET /models.
type Handler struct {
	catalog *provider.Catalog
}

func NewHandler(c *provider.Catalog) *Handler {
	return &Handler{catalog: c}
}

type response struct {
	Providers    []provider.ProviderInfo `json:"providers"`
	DefaultModel string                  `json:"defaultModel"`
	AllModels    []provider.FlatModel    `json:"allModels"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response{
		Providers:    h.catalog.Providers,
		DefaultModel: h.catalog.DefaultModel(),
		AllModels:    h.catalog.AllModels(),
	}); err != nil {
		log.Printf("[Catalog] response encoding failed: %v", err)
	}
}
