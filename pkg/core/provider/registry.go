package provider

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Backend is one registry entry. Exactly one of Text or Structured is set;
// the zero capability tells the caller which pipeline to run.
type Backend struct {
	ID         string
	Text       TextExtractor
	Structured StructuredExtractor
}

// Registry maps a selector string to a capability-typed backend. Adding a
// backend means registering it here, not editing dispatch logic. Selectors
// are compared lowercase.
type Registry struct {
	backends  map[string]Backend
	prefixes  []prefixRoute
	defaultID string
}

type prefixRoute struct {
	prefix string
	build  func(model string) Backend
}

func NewRegistry(defaultID string) *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		defaultID: strings.ToLower(defaultID),
	}
}

// Register binds a fixed selector to a backend.
func (r *Registry) Register(id string, b Backend) {
	b.ID = strings.ToLower(id)
	r.backends[b.ID] = b
}

// RegisterPrefix binds a selector family (e.g. "gemini-") to a constructor
// that receives the full selector as the model id.
func (r *Registry) RegisterPrefix(prefix string, build func(model string) Backend) {
	r.prefixes = append(r.prefixes, prefixRoute{prefix: strings.ToLower(prefix), build: build})
}

// Resolve maps a selector to its backend. An empty selector resolves to the
// documented default model id; anything unknown is ErrInvalidSelection, never
// a silent fallback.
func (r *Registry) Resolve(selector string) (Backend, error) {
	id := strings.ToLower(strings.TrimSpace(selector))
	if id == "" {
		id = r.defaultID
	}

	if b, ok := r.backends[id]; ok {
		return b, nil
	}
	for _, route := range r.prefixes {
		if strings.HasPrefix(id, route.prefix) {
			b := route.build(id)
			b.ID = id
			return b, nil
		}
	}
	return Backend{}, fmt.Errorf("%w: %q", ErrInvalidSelection, selector)
}

// DefaultID returns the selector used when a request names no model.
func (r *Registry) DefaultID() string { return r.defaultID }

// ModelInfo describes one selectable model in the catalog.
type ModelInfo struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Default     bool   `yaml:"default" json:"isDefault"`
}

// ProviderInfo groups the models of one backend vendor.
type ProviderInfo struct {
	ID     string      `yaml:"id" json:"id"`
	Name   string      `yaml:"name" json:"name"`
	Models []ModelInfo `yaml:"models" json:"models"`
}

// Catalog is the model catalog served to clients, loaded from
// config/models.yaml.
type Catalog struct {
	Providers []ProviderInfo `yaml:"providers" json:"providers"`
}

// FlatModel is a catalog model annotated with its provider, for the
// flattened listing the catalog endpoint returns.
type FlatModel struct {
	ModelInfo  `yaml:",inline"`
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

// LoadCatalog reads the model catalog from a yaml file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	return &c, nil
}

// DefaultModel returns the first model flagged as default, scanning
// providers in catalog order.
func (c *Catalog) DefaultModel() string {
	for _, p := range c.Providers {
		for _, m := range p.Models {
			if m.Default {
				return m.ID
			}
		}
	}
	return "gemini-2.0-flash"
}

// AllModels flattens the catalog with provider annotations.
func (c *Catalog) AllModels() []FlatModel {
	var out []FlatModel
	for _, p := range c.Providers {
		for _, m := range p.Models {
			out = append(out, FlatModel{ModelInfo: m, Provider: p.Name, ProviderID: p.ID})
		}
	}
	return out
}
