// Package provider wraps each document-intelligence backend behind one of
// two capabilities: raw-text extraction or direct structured extraction.
// Callers never see a backend's wire protocol, only these contracts.
package provider

import (
	"context"
	"errors"
	"fmt"

	"finextract/pkg/models"
)

// TextResult is the output of an OCR-only backend: unstructured text with
// pages joined in ascending order, plus timing around the network call.
type TextResult struct {
	Text   string        `json:"text"`
	Timing models.Timing `json:"timing"`
}

// StatementResult is the output of a structured backend: a canonical record
// plus timing around the network call.
type StatementResult struct {
	Record models.FinancialStatementRecord `json:"data"`
	Timing models.Timing                   `json:"timing"`
}

// TextExtractor is a backend that returns plain extracted text from a PDF.
type TextExtractor interface {
	ExtractText(ctx context.Context, document []byte) (*TextResult, error)
}

// StructuredExtractor is a backend that returns financial data already
// shaped for the canonical schema.
type StructuredExtractor interface {
	ExtractStatement(ctx context.Context, document []byte) (*StatementResult, error)
}

// ErrInvalidSelection is returned when a requested backend identifier does
// not map to a registered implementation.
var ErrInvalidSelection = errors.New("invalid model selection")

// ConfigError means required backend credentials are absent. It is raised at
// client construction, before any request is processed.
type ConfigError struct {
	Backend string
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured: %s is required", e.Backend, e.Missing)
}

// BackendError means the document-intelligence backend reported a terminal
// failure or the network call itself errored. There is no retry policy;
// the failure surfaces to the caller with the backend's message.
type BackendError struct {
	Backend string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Message)
}

func (e *BackendError) Unwrap() error { return e.Err }
