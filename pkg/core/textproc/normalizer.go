package textproc

import (
	"regexp"
	"strings"
)

var (
	// Standalone numeric token occupying a whole line: digits, optional comma
	// grouping, optional fractional part.
	standaloneNumber = regexp.MustCompile(`(?m)^\s*\d{1,3}(?:,\d{3})*(?:\.(\d+))?\s*$`)

	// A number whose separators are ambiguous: digits joined by one or more
	// "." or "," groups, e.g. "12.345.67" or "1,234,56".
	ambiguousNumber = regexp.MustCompile(`\b\d+(?:[.,]\d+)+\b`)
)

// MajorityDecimalCount returns the most common fractional-digit length among
// standalone numeric tokens in the text (0 when a token has no fractional
// part). Ties resolve to the length seen first while scanning top to bottom;
// the result is deterministic for a given input. Returns 0 when no numeric
// tokens are found.
func MajorityDecimalCount(text string) int {
	matches := standaloneNumber.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0
	}

	counts := make(map[int]int)
	var order []int
	for _, m := range matches {
		n := len(m[1])
		if _, seen := counts[n]; !seen {
			order = append(order, n)
		}
		counts[n]++
	}

	best := order[0]
	for _, n := range order[1:] {
		if counts[n] > counts[best] {
			best = n
		}
	}
	return best
}

// RepairNumber disambiguates locale-ambiguous numbers in the text. Any token
// of the form "digits (separator digits)+" is rewritten so that every group
// except the last becomes a comma-joined thousands group, and the last group
// becomes a fractional part of exactly decimalPlaces digits (truncated or
// zero-padded). With decimalPlaces 0 every separator becomes a grouping
// comma. Well-formed numbers pass through unchanged, so the repair is
// idempotent for a fixed decimalPlaces.
func RepairNumber(text string, decimalPlaces int) string {
	return ambiguousNumber.ReplaceAllStringFunc(text, func(match string) string {
		parts := strings.FieldsFunc(match, func(r rune) bool {
			return r == '.' || r == ','
		})
		if decimalPlaces <= 0 {
			return strings.Join(parts, ",")
		}

		frac := parts[len(parts)-1]
		if len(frac) > decimalPlaces {
			frac = frac[:decimalPlaces]
		}
		for len(frac) < decimalPlaces {
			frac += "0"
		}
		return strings.Join(parts[:len(parts)-1], ",") + "." + frac
	})
}
