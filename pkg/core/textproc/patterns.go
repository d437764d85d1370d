package textproc

import "regexp"

// Stable field identifiers shared between the extractor and the coercion
// layer.
const (
	FieldRevenue         = "Revenue from operations"
	FieldOtherIncome     = "Other Income"
	FieldFinanceCosts    = "Finance Costs"
	FieldDepreciation    = "Depreciation"
	FieldTotalExpenses   = "Total Expenses"
	FieldProfitBeforeTax = "Profit before tax"
	FieldProfitAfterTax  = "Profit after tax"
	FieldUnits           = "Financial Units"
)

// A monetary value as it appears in statements: optional parentheses for
// negatives, comma grouping, optional decimals.
const valuePat = `(\(?-?\d[\d,]*(?:\.\d+)?\)?)`

// Filler between a label and its value: footnote markers like "[1]" or
// "(a)", colons, dashes, table pipes, arbitrary whitespace including line
// breaks. Parenthesized footnotes are kept short and alphanumeric so a
// parenthesized negative value is never swallowed.
const sepPat = `(?:\s*(?:\[[^\]\n]{1,12}\]|\(\s*[a-z0-9]{1,4}\s*\)))*[\s:\-|]*`

// FieldPattern is one entry of the declarative extraction battery. Reject,
// when set, disqualifies a candidate match whose full matched text also
// matches it; Extract then moves on to the next candidate.
type FieldPattern struct {
	Name    string
	Pattern *regexp.Regexp
	Reject  *regexp.Regexp
	Group   int
}

// Patterns is the fixed, ordered battery applied by Extract. Each pattern is
// matched independently against the full text, so the outcome does not depend
// on battery order. Keyword spellings tolerate common OCR substitutions
// ("revnu", "reveneu", "finanse"). The profit patterns anchor to the line's
// trailing number so mid-sentence figures are not captured, and they are
// phrased so "profit before associates / discontinued operations /
// joint-venture" lines stay out of reach.
var Patterns = []FieldPattern{
	{
		Name:    FieldRevenue,
		Pattern: regexp.MustCompile(`(?is)\brev(?:enue|eneu|enu|nue|nu)\s+from\s+operations?` + sepPat + valuePat),
		Group:   1,
	},
	{
		Name:    FieldOtherIncome,
		Pattern: regexp.MustCompile(`(?is)\bother\s+income\b` + sepPat + valuePat),
		Group:   1,
	},
	{
		Name:    FieldFinanceCosts,
		Pattern: regexp.MustCompile(`(?is)\bfinan[cs]e\s+costs?\b` + sepPat + valuePat),
		Group:   1,
	},
	{
		Name: FieldDepreciation,
		Pattern: regexp.MustCompile(`(?is)\bdepreci[ao]tion\b` +
			`(?:[\s,&]*(?:and\s+)?amorti[sz]ation(?:\s+expenses?)?)?` +
			`(?:[\s,&]*(?:and\s+)?impairment(?:\s+expenses?)?)?` + sepPat + valuePat),
		Group: 1,
	},
	{
		Name:    FieldTotalExpenses,
		Pattern: regexp.MustCompile(`(?is)\btotal\s+expen[sc]es?\b` + sepPat + valuePat),
		Group:   1,
	},
	{
		Name:    FieldProfitBeforeTax,
		Pattern: regexp.MustCompile(`(?im)^[^\n]*?\bprofit\b[^\n]*?\bbefore\s+tax(?:ation)?\b[^\n]*?` + valuePat + `\s*$`),
		Group:   1,
	},
	{
		Name: FieldProfitAfterTax,
		Pattern: regexp.MustCompile(`(?im)^[^\n]*?\bprofit\b[^\n]*?` +
			`\b(?:after\s+tax(?:ation)?|for\s+the\s+(?:period|quarter|year))\b[^\n]*?` + valuePat + `\s*$`),
		// "Profit before tax for the period" style lines reach the
		// for-the-period branch; any "before" on the line disqualifies it.
		Reject: regexp.MustCompile(`(?i)\bbefore\b`),
		Group:  1,
	},
	{
		Name:    FieldUnits,
		Pattern: regexp.MustCompile(`(?i)\b(lakhs?|lacs?|millions?|crores?)\b`),
		Group:   1,
	},
}
