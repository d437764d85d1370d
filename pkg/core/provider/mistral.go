package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"finextract/pkg/core/utils"
	"finextract/pkg/models"
)

const (
	mistralBaseURL  = "https://api.mistral.ai/v1"
	mistralOCRModel = "mistral-ocr-latest"
)

type mistralFileResponse struct {
	ID string `json:"id"`
}

type mistralSignedURLResponse struct {
	URL string `json:"url"`
}

type mistralOCRRequest struct {
	Model    string `json:"model"`
	Document struct {
		Type        string `json:"type"`
		DocumentURL string `json:"document_url"`
	} `json:"document"`
}

type mistralOCRResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

// MistralOCRBackend extracts text through the Mistral OCR pipeline: the
// document is uploaded for OCR, exchanged for a signed URL, then processed.
// Page markdown is concatenated in ascending page order.
type MistralOCRBackend struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewMistralOCRBackend(apiKey string) (*MistralOCRBackend, error) {
	if apiKey == "" {
		return nil, &ConfigError{Backend: "mistral-ocr", Missing: "MISTRAL_API_KEY"}
	}
	return &MistralOCRBackend{
		apiKey:     apiKey,
		baseURL:    mistralBaseURL,
		httpClient: &http.Client{},
	}, nil
}

var _ TextExtractor = (*MistralOCRBackend)(nil)

func (m *MistralOCRBackend) ExtractText(ctx context.Context, document []byte) (*TextResult, error) {
	fileID, err := m.uploadFile(ctx, document)
	if err != nil {
		return nil, err
	}

	signedURL, err := m.signedURL(ctx, fileID)
	if err != nil {
		return nil, err
	}

	// Timing covers only the OCR processing call, not the upload round trips.
	start := time.Now()
	pagesResult, err := m.process(ctx, signedURL)
	if err != nil {
		return nil, err
	}
	end := time.Now()

	pages := pagesResult.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Markdown)
	}
	cleaned := utils.CleanMarkdown(strings.Join(parts, "\n\n"))
	if strings.TrimSpace(cleaned) == "" {
		return nil, &BackendError{Backend: "mistral-ocr", Message: "empty OCR result"}
	}
	// OCR markdown wraps labels in emphasis and heading markers; flatten to
	// plain text so downstream pattern matching sees label and value adjacent.
	text := utils.StripMarkdown(cleaned)

	return &TextResult{
		Text: text,
		Timing: models.Timing{
			Start:      start.UnixMilli(),
			End:        end.UnixMilli(),
			DurationMS: end.Sub(start).Milliseconds(),
		},
	}, nil
}

func (m *MistralOCRBackend) uploadFile(ctx context.Context, document []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("purpose", "ocr"); err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload form construction failed", Err: err}
	}
	part, err := writer.CreateFormFile("file", "document.pdf")
	if err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload form construction failed", Err: err}
	}
	if _, err := part.Write(document); err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload form construction failed", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload form construction failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/files", &buf)
	if err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload request construction failed", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	var fileRes mistralFileResponse
	if err := m.do(req, &fileRes); err != nil {
		return "", err
	}
	if fileRes.ID == "" {
		return "", &BackendError{Backend: "mistral-ocr", Message: "upload returned no file id"}
	}
	return fileRes.ID, nil
}

func (m *MistralOCRBackend) signedURL(ctx context.Context, fileID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/files/"+fileID+"/url", nil)
	if err != nil {
		return "", &BackendError{Backend: "mistral-ocr", Message: "signed URL request construction failed", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	var urlRes mistralSignedURLResponse
	if err := m.do(req, &urlRes); err != nil {
		return "", err
	}
	if urlRes.URL == "" {
		return "", &BackendError{Backend: "mistral-ocr", Message: "signed URL response was empty"}
	}
	return urlRes.URL, nil
}

func (m *MistralOCRBackend) process(ctx context.Context, signedURL string) (*mistralOCRResponse, error) {
	ocrReq := mistralOCRRequest{Model: mistralOCRModel}
	ocrReq.Document.Type = "document_url"
	ocrReq.Document.DocumentURL = signedURL

	payload, err := json.Marshal(ocrReq)
	if err != nil {
		return nil, &BackendError{Backend: "mistral-ocr", Message: "OCR request encoding failed", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/ocr", bytes.NewReader(payload))
	if err != nil {
		return nil, &BackendError{Backend: "mistral-ocr", Message: "OCR request construction failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	var ocrRes mistralOCRResponse
	if err := m.do(req, &ocrRes); err != nil {
		return nil, err
	}
	return &ocrRes, nil
}

func (m *MistralOCRBackend) do(req *http.Request, out interface{}) error {
	res, err := m.httpClient.Do(req)
	if err != nil {
		return &BackendError{Backend: "mistral-ocr", Message: "request failed", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &BackendError{Backend: "mistral-ocr", Message: "response read failed", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return &BackendError{Backend: "mistral-ocr", Message: fmt.Sprintf("status=%d body=%s", res.StatusCode, truncate(string(body), 200))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &BackendError{Backend: "mistral-ocr", Message: "response decoding failed", Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
