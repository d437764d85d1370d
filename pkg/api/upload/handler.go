// Package upload implements the document extraction endpoint. A PDF is
// received as multipart form data, staged on disk for the duration of the
// request, routed to the selected backend and normalized into the canonical
// statement record.
package upload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"finextract/pkg/core/notify"
	"finextract/pkg/core/provider"
	"finextract/pkg/core/report"
	"finextract/pkg/core/schema"
	"finextract/pkg/core/textproc"
	"finextract/pkg/models"
)

const maxUploadSize = 32 << 20

// Handler serves POST /upload.
type Handler struct {
	registry  *provider.Registry
	sink      *notify.TelegramSink
	chatID    string
	uploadDir string
}

func NewHandler(registry *provider.Registry, sink *notify.TelegramSink, chatID, uploadDir string) *Handler {
	return &Handler{registry: registry, sink: sink, chatID: chatID, uploadDir: uploadDir}
}

// structuredResponse is the success body for backends that return a
// canonical record directly.
type structuredResponse struct {
	Status  string                          `json:"status"`
	Message string                          `json:"message"`
	AIModel string                          `json:"aiModel"`
	Data    models.FinancialStatementRecord `json:"data"`
	Timing  models.Timing                   `json:"timing"`
}

// textResponse is the success body for OCR backends: raw text plus the
// pattern-matched fields, and the assembled record when two labelled
// quarters could be recognized in the text.
type textResponse struct {
	Result              string                           `json:"result"`
	ExtractedData       models.FieldMap                  `json:"extractedData"`
	MajorityDecimal     int                              `json:"majorityDecimalCount"`
	Service             string                           `json:"service"`
	Timing              models.Timing                    `json:"timing"`
	Data                *models.FinancialStatementRecord `json:"data,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.New().String()
	log.Printf("[Upload] [%s] request received", requestID)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return
	}

	selector := r.FormValue("aiModel")
	backend, err := h.registry.Resolve(selector)
	if err != nil {
		if errors.Is(err, provider.ErrInvalidSelection) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("[Upload] [%s] file=%s model=%s", requestID, header.Filename, backend.ID)

	// The upload is staged on disk and removed on every exit path.
	path, err := h.stage(file, header.Filename)
	if err != nil {
		log.Printf("[Upload] [%s] staging failed: %v", requestID, err)
		writeError(w, http.StatusInternalServerError, "failed to store uploaded file")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("[Upload] [%s] cleanup failed for %s: %v", requestID, path, err)
		}
	}()

	document, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	ctx := r.Context()
	switch {
	case backend.Structured != nil:
		result, err := backend.Structured.ExtractStatement(ctx, document)
		if err != nil {
			log.Printf("[Upload] [%s] extraction failed: %v", requestID, err)
			var parseErr *schema.ParseError
			if errors.As(err, &parseErr) {
				log.Printf("[Upload] [%s] offending payload: %s", requestID, parseErr.Raw)
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		summary := report.Summarize(&result.Record, result.Timing.DurationMS)
		if h.sink != nil && h.sink.Enabled() {
			// Notification failures are logged, never surfaced to the client.
			if err := h.sink.Send(ctx, h.chatID, summary); err != nil {
				log.Printf("[Upload] [%s] notification failed: %v", requestID, err)
			}
		}

		writeJSON(w, http.StatusOK, structuredResponse{
			Status:  "COMPLETED",
			Message: "Financial data extracted successfully",
			AIModel: backend.ID,
			Data:    result.Record,
			Timing:  result.Timing,
		})

	case backend.Text != nil:
		result, err := backend.Text.ExtractText(ctx, document)
		if err != nil {
			log.Printf("[Upload] [%s] extraction failed: %v", requestID, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		text := textproc.FlattenHTML(result.Text)
		fields := textproc.Extract(text)
		decimals := textproc.MajorityDecimalCount(text)

		res := textResponse{
			Result:          text,
			ExtractedData:   fields,
			MajorityDecimal: decimals,
			Service:         backend.ID,
			Timing:          result.Timing,
		}
		if record, ok := schema.AssembleFromText(text); ok {
			res.Data = record
		}
		writeJSON(w, http.StatusOK, res)

	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("backend %s has no capability", backend.ID))
	}
}

// stage writes the uploaded file under the upload directory with a
// timestamped name, mirroring how concurrent uploads are kept apart.
func (h *Handler) stage(file io.Reader, original string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(original))
	path := filepath.Join(h.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func isPDF(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	return strings.EqualFold(contentType, "application/pdf")
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Upload] response encoding failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
