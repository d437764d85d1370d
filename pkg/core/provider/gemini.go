package provider

import (
	"context"
	"time"

	"google.golang.org/genai"

	"finextract/pkg/core/schema"
	"finextract/pkg/models"
)

const geminiSystemInstruction = `You are a specialized financial data extraction expert, trained to analyze quarterly financial statements with precision. Your purpose is to transform unstructured financial text into structured, machine-readable data.
Your capabilities include:
1. Identifying and distinguishing between current quarter and year-over-year comparison data
2. Recognizing financial metrics across different terminology variations and formats
3. Handling complex numerical notations (lakhs, crores, millions) and negative value representations
4. Understanding the contextual relationships between financial line items
5. Extracting period information from various date formats and references
Extract data with accounting-level accuracy, maintaining the integrity of financial relationships. When information is genuinely missing, return null rather than attempting to derive values.
Notes:
1) if Profit/Loss for the Period is not explicitly stated, calculate it as Profit/Loss After Tax from Ordinary Activities + Extraordinary Items (if any)
2) Extraordinary Items include discontinued operations after tax
3) revenueUnit is the magnitude convention the statement reports in: Lakhs, Crores or Millions`

const geminiUserPrompt = `You are analyzing a company's quarterly financial statement. Extract both the current quarter and its year-over-year comparison data.`

// GeminiBackend is a structured extractor backed by the Gemini API. The
// model receives the PDF inline together with a rigid response schema, so
// the payload comes back already shaped for the canonical record.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds the shared Gemini API client. The client is created
// once at startup and is safe for concurrent use.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, &ConfigError{Backend: "gemini", Missing: "GEMINI_API_KEY"}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &BackendError{Backend: "gemini", Message: "client construction failed", Err: err}
	}
	return client, nil
}

// NewGeminiBackend binds the shared client to one model id (e.g.
// "gemini-2.0-flash").
func NewGeminiBackend(client *genai.Client, model string) *GeminiBackend {
	return &GeminiBackend{client: client, model: model}
}

var _ StructuredExtractor = (*GeminiBackend)(nil)

func (g *GeminiBackend) ExtractStatement(ctx context.Context, document []byte) (*StatementResult, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: geminiUserPrompt},
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: document}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0)),
		TopP:            genai.Ptr(float32(0.2)),
		MaxOutputTokens: 2048,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: geminiSystemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   statementResponseSchema(),
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	end := time.Now()
	if err != nil {
		return nil, &BackendError{Backend: g.model, Message: "generation failed", Err: err}
	}

	text := result.Text()
	if text == "" {
		return nil, &BackendError{Backend: g.model, Message: "empty response"}
	}

	record, err := schema.ParseStatement(g.model, text)
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

func statementResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"currentQuarter":      quarterSchema(),
			"previousYearQuarter": quarterSchema(),
			"revenueUnit": {
				Type: genai.TypeString,
				Enum: []string{"Lakhs", "Crores", "Millions"},
			},
		},
		Required: []string{"currentQuarter", "previousYearQuarter", "revenueUnit"},
	}
}

func quarterSchema() *genai.Schema {
	metrics := []string{
		"revenueFromOps",
		"otherIncome",
		"depreciation",
		"financeCosts",
		"totalExpenses",
		"profitLossBeforeExceptionalItemsAndTax",
		"exceptionalItems",
		"shareOfPLOfAssociates",
		"profitLossBeforeTax",
		"profitLossAfterTaxFromOrdinaryActivities",
		"priorYearAdjustments",
		"extraOrdinaryItems",
		"profitLossForThePeriod",
	}

	props := make(map[string]*genai.Schema, len(metrics)+1)
	for _, name := range metrics {
		props[name] = &genai.Schema{Type: genai.TypeNumber, Nullable: genai.Ptr(true)}
	}
	props["period"] = &genai.Schema{Type: genai.TypeString}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   append(append([]string{}, metrics...), "period"),
	}
}
