package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finextract/pkg/core/schema"
	"finextract/pkg/models"
)

const openAISystemPrompt = `You are a financial analyst specializing in quarterly financial statements.
Your primary task is to extract and structure financial metrics from company documents.
You must be precise and methodical in your analysis.
You understand financial reporting standards and number notation (lakhs, crores).`

const openAIUserPrompt = `You are analyzing a company's quarterly financial statement. Extract both the current quarter and its year-over-year comparison data.

Extract financial metrics for both the latest quarter and its year-over-year (YoY) comparison from the attached document.
If any information is not found, return null for that field.

Follow these extraction rules:
1. Period identification: month ranges (Jan-Mar, January-March), date ranges (1st Jan - 31st Mar), three month period references; identify both current and previous year periods.
2. Value extraction: numbers in lakhs, crores, or millions notation; handle commas and decimals; use negative numbers for losses; null when not found.
3. revenueUnit is one of 'Lakhs', 'Crores', 'Millions'.

Return ONLY JSON matching the response schema.`

type openAIRequest struct {
	Model          string               `json:"model"`
	Temperature    float64              `json:"temperature"`
	Messages       []openAIMessage      `json:"messages"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIContentPart struct {
	Type string      `json:"type"`
	Text string      `json:"text,omitempty"`
	File *openAIFile `json:"file,omitempty"`
}

type openAIFile struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIBackend is a structured extractor backed by the OpenAI chat
// completions API with JSON-object output. The PDF travels as a base64 data
// URL file part.
type OpenAIBackend struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIBackend(apiKey string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, &ConfigError{Backend: "gpt-4", Missing: "OPENAI_API_KEY"}
	}
	return &OpenAIBackend{
		apiKey:     apiKey,
		model:      "gpt-4.1-mini",
		baseURL:    "https://api.openai.com/v1/chat/completions",
		httpClient: &http.Client{},
	}, nil
}

var _ StructuredExtractor = (*OpenAIBackend)(nil)

func (o *OpenAIBackend) ExtractStatement(ctx context.Context, document []byte) (*StatementResult, error) {
	fileData := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(document)

	reqBody := openAIRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openAIMessage{
			{Role: "system", Content: []openAIContentPart{{Type: "text", Text: openAISystemPrompt}}},
			{
				Role: "user",
				Content: []openAIContentPart{
					{Type: "file", File: &openAIFile{Filename: "document.pdf", FileData: fileData}},
					{Type: "text", Text: openAIUserPrompt},
				},
			},
		},
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &BackendError{Backend: "gpt-4", Message: "request encoding failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &BackendError{Backend: "gpt-4", Message: "request construction failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	start := time.Now()
	res, err := o.httpClient.Do(req)
	end := time.Now()
	if err != nil {
		return nil, &BackendError{Backend: "gpt-4", Message: "api call failed", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &BackendError{Backend: "gpt-4", Message: "response read failed", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: "gpt-4", Message: fmt.Sprintf("status=%d body=%s", res.StatusCode, body)}
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &BackendError{Backend: "gpt-4", Message: "response decoding failed", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &BackendError{Backend: "gpt-4", Message: "no choices in response"}
	}

	record, err := schema.ParseStatement("gpt-4", parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &StatementResult{
		Record: *record,
		Timing: models.Timing{
			Start:      start.UnixMilli(),
			End:        end.UnixMilli(),
			DurationMS: end.Sub(start).Milliseconds(),
		},
	}, nil
}
