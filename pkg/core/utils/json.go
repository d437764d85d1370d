package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripJSONWrapping removes non-JSON dressing that document-intelligence
// backends put around their payloads: markdown code fences and any prose
// before the first brace or after the last one.
func StripJSONWrapping(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexAny(cleaned, "{[")
	if start > 0 {
		cleaned = cleaned[start:]
	}
	end := strings.LastIndexAny(cleaned, "}]")
	if end >= 0 && end < len(cleaned)-1 {
		cleaned = cleaned[:end+1]
	}
	return cleaned
}

// RepairJSON attempts to fix common JSON errors in backend output: missing
// quotes around keys, single quotes, unclosed brackets, trailing commas.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// DecodeLenient tries multiple parsing strategies to get a generic JSON value
// out of a backend payload. Order of attempts:
// 1. Standard JSON parse
// 2. JSON repair
// 3. Hjson (most lenient)
// The input is expected to be pre-cleaned with StripJSONWrapping.
func DecodeLenient(input string) (map[string]interface{}, error) {
	var out map[string]interface{}

	if err := json.Unmarshal([]byte(input), &out); err == nil {
		return out, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), &out); err == nil {
			return out, nil
		}
	}

	if err := hjson.Unmarshal([]byte(input), &out); err == nil {
		return out, nil
	}

	return nil, fmt.Errorf("payload is not valid JSON after repair and hjson fallback")
}
