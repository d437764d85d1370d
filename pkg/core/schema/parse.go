// Package schema turns backend output, structured JSON or pattern-extracted
// field maps, into the canonical FinancialStatementRecord.
package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"finextract/pkg/core/utils"
	"finextract/pkg/models"
)

// ParseError means a structured backend returned a payload that is not valid
// JSON or does not satisfy the canonical schema. Raw keeps the offending
// payload for diagnosis; it is never silently coerced to an empty record.
type ParseError struct {
	Backend string
	Raw     string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s returned an unusable statement payload: %v", e.Backend, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const statementSchemaJSON = `{
  "type": "object",
  "required": ["currentQuarter", "previousYearQuarter", "revenueUnit"],
  "properties": {
    "currentQuarter": {"$ref": "#/$defs/quarter"},
    "previousYearQuarter": {"$ref": "#/$defs/quarter"},
    "revenueUnit": {"type": "string", "enum": ["Lakhs", "Crores", "Millions"]}
  },
  "$defs": {
    "quarter": {
      "type": "object",
      "required": ["period"],
      "properties": {
        "revenueFromOps": {"type": ["number", "string", "null"]},
        "otherIncome": {"type": ["number", "string", "null"]},
        "depreciation": {"type": ["number", "string", "null"]},
        "financeCosts": {"type": ["number", "string", "null"]},
        "totalExpenses": {"type": ["number", "string", "null"]},
        "profitLossBeforeExceptionalItemsAndTax": {"type": ["number", "string", "null"]},
        "exceptionalItems": {"type": ["number", "string", "null"]},
        "shareOfPLOfAssociates": {"type": ["number", "string", "null"]},
        "profitLossBeforeTax": {"type": ["number", "string", "null"]},
        "profitLossAfterTaxFromOrdinaryActivities": {"type": ["number", "string", "null"]},
        "priorYearAdjustments": {"type": ["number", "string", "null"]},
        "extraOrdinaryItems": {"type": ["number", "string", "null"]},
        "profitLossForThePeriod": {"type": ["number", "string", "null"]},
        "period": {"type": "string", "minLength": 1}
      }
    }
  }
}`

var statementSchema = jsonschema.MustCompileString("statement.json", statementSchemaJSON)

// ParseStatement decodes a structured backend payload into the canonical
// record. The payload is stripped of code fences and surrounding prose,
// decoded leniently (repair, then hjson), normalized for known key synonyms,
// validated against the canonical schema, and only then coerced.
func ParseStatement(backend, raw string) (*models.FinancialStatementRecord, error) {
	cleaned := utils.StripJSONWrapping(raw)

	payload, err := utils.DecodeLenient(cleaned)
	if err != nil {
		return nil, &ParseError{Backend: backend, Raw: raw, Err: err}
	}

	normalizePayload(payload)

	if err := statementSchema.Validate(payload); err != nil {
		return nil, &ParseError{Backend: backend, Raw: raw, Err: err}
	}

	record := coerceStatement(payload)
	return record, nil
}

// normalizePayload renames key synonyms backends are known to emit and fixes
// unit casing, so one schema covers every structured backend.
func normalizePayload(m map[string]interface{}) {
	rename(m, "Revenue-Format", "revenueUnit")
	rename(m, "revenue_format", "revenueUnit")

	if unit, ok := m["revenueUnit"].(string); ok {
		m["revenueUnit"] = string(NormalizeUnit(unit))
	}

	for _, key := range []string{"currentQuarter", "previousYearQuarter"} {
		quarter, ok := m[key].(map[string]interface{})
		if !ok {
			continue
		}
		// Prompt-decorated keys like
		// "extraOrdinaryItems (discontinued operations after tax also included)"
		// collapse to their base name.
		for k, v := range quarter {
			if idx := strings.IndexAny(k, "(["); idx > 0 {
				base := strings.TrimSpace(k[:idx])
				if _, exists := quarter[base]; !exists {
					quarter[base] = v
				}
				delete(quarter, k)
			}
		}
	}
}

func rename(m map[string]interface{}, from, to string) {
	if v, ok := m[from]; ok {
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
	}
}

// NormalizeUnit maps the unit spellings seen in statements onto the three
// canonical reporting units. Unknown spellings come back empty.
func NormalizeUnit(raw string) models.RevenueUnit {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lakh", "lakhs", "lac", "lacs":
		return models.UnitLakhs
	case "crore", "crores":
		return models.UnitCrores
	case "million", "millions":
		return models.UnitMillions
	}
	return ""
}
