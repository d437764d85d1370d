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

const anthropicSystemPrompt = `You are a financial analyst specializing in quarterly financial statements.
Your primary task is to extract and structure financial metrics from company documents.
You must be precise and methodical in your analysis.
You understand financial reporting standards and number notation (lakhs, crores).`

const anthropicUserPrompt = `<context>
You are analyzing a company's quarterly financial statement. Extract both the current quarter and its year-over-year comparison data.
</context>

<task>
Extract financial metrics for both the latest quarter and its year-over-year (YoY) comparison from the attached document.
If any information is not found, return null for that field.
</task>

<output_format>
{
    "currentQuarter": {
        "revenueFromOps": "number or null",
        "otherIncome": "number or null",
        "depreciation": "number or null",
        "financeCosts": "number or null",
        "totalExpenses": "number or null",
        "profitLossBeforeExceptionalItemsAndTax": "number or null",
        "exceptionalItems": "number or null",
        "shareOfPLOfAssociates": "number or null",
        "profitLossBeforeTax": "number or null",
        "profitLossAfterTaxFromOrdinaryActivities": "number or null",
        "priorYearAdjustments": "number or null",
        "extraOrdinaryItems": "number or null",
        "profitLossForThePeriod": "number or null",
        "period": "string (e.g., 'Jan-Mar 2024')"
    },
    "previousYearQuarter": { same fields as currentQuarter },
    "revenueUnit": "one of 'Lakhs', 'Crores', 'Millions'"
}
</output_format>

<extraction_rules>
1. Period identification: month ranges (Jan-Mar, January-March), date ranges (1st Jan - 31st Mar), three month period references; identify both current and previous year periods.
2. Value extraction: numbers in lakhs, crores, or millions notation; handle commas and decimals; use negative numbers for losses; null when not found.
3. Return ONLY a valid JSON object. No additional text, no markdown formatting.
</extraction_rules>`

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string                 `json:"role"`
	Content []anthropicContentPart `json:"content"`
}

type anthropicContentPart struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicBackend is a structured extractor backed by the Anthropic
// Messages API. The PDF travels as a base64 document block.
type AnthropicBackend struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAnthropicBackend(apiKey string) (*AnthropicBackend, error) {
	if apiKey == "" {
		return nil, &ConfigError{Backend: "claude", Missing: "ANTHROPIC_API_KEY"}
	}
	return &AnthropicBackend{
		apiKey:     apiKey,
		model:      "claude-3-7-sonnet-latest",
		baseURL:    "https://api.anthropic.com/v1/messages",
		httpClient: &http.Client{},
	}, nil
}

var _ StructuredExtractor = (*AnthropicBackend)(nil)

func (a *AnthropicBackend) ExtractStatement(ctx context.Context, document []byte) (*StatementResult, error) {
	reqBody := anthropicRequest{
		Model:       a.model,
		MaxTokens:   4000,
		System:      anthropicSystemPrompt,
		Temperature: 0.1,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContentPart{
					{
						Type: "document",
						Source: &anthropicSource{
							Type:      "base64",
							MediaType: "application/pdf",
							Data:      base64.StdEncoding.EncodeToString(document),
						},
					},
					{Type: "text", Text: anthropicUserPrompt},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &BackendError{Backend: "claude", Message: "request encoding failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &BackendError{Backend: "claude", Message: "request construction failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	res, err := a.httpClient.Do(req)
	end := time.Now()
	if err != nil {
		return nil, &BackendError{Backend: "claude", Message: "api call failed", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &BackendError{Backend: "claude", Message: "response read failed", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: "claude", Message: fmt.Sprintf("status=%d body=%s", res.StatusCode, body)}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &BackendError{Backend: "claude", Message: "response decoding failed", Err: err}
	}
	if parsed.Error != nil {
		return nil, &BackendError{Backend: "claude", Message: parsed.Error.Message}
	}
	if len(parsed.Content) == 0 {
		return nil, &BackendError{Backend: "claude", Message: "empty response content"}
	}

	record, err := schema.ParseStatement("claude", parsed.Content[0].Text)
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
