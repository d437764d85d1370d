package schema

import (
	"strconv"
	"strings"

	"finextract/pkg/core/textproc"
	"finextract/pkg/models"
)

// coerceStatement maps a validated structured payload onto the canonical
// record. Values delivered as text lose their thousands separators, numeric
// strings become numbers, and profitLossForThePeriod is derived from
// after-tax profit plus extraordinary items when the backend left it out.
func coerceStatement(m map[string]interface{}) *models.FinancialStatementRecord {
	record := &models.FinancialStatementRecord{
		RevenueUnit: models.RevenueUnit(stringAt(m, "revenueUnit")),
	}
	if q, ok := m["currentQuarter"].(map[string]interface{}); ok {
		record.CurrentQuarter = coerceQuarter(q)
	}
	if q, ok := m["previousYearQuarter"].(map[string]interface{}); ok {
		record.PreviousYearQuarter = coerceQuarter(q)
	}
	return record
}

func coerceQuarter(q map[string]interface{}) models.FinancialQuarterRecord {
	rec := models.FinancialQuarterRecord{
		RevenueFromOps:                           numberAt(q, "revenueFromOps"),
		OtherIncome:                              numberAt(q, "otherIncome"),
		Depreciation:                             numberAt(q, "depreciation"),
		FinanceCosts:                             numberAt(q, "financeCosts"),
		TotalExpenses:                            numberAt(q, "totalExpenses"),
		ProfitLossBeforeExceptionalItemsAndTax:   numberAt(q, "profitLossBeforeExceptionalItemsAndTax"),
		ExceptionalItems:                         numberAt(q, "exceptionalItems"),
		ShareOfPLOfAssociates:                    numberAt(q, "shareOfPLOfAssociates"),
		ProfitLossBeforeTax:                      numberAt(q, "profitLossBeforeTax"),
		ProfitLossAfterTaxFromOrdinaryActivities: numberAt(q, "profitLossAfterTaxFromOrdinaryActivities"),
		PriorYearAdjustments:                     numberAt(q, "priorYearAdjustments"),
		ExtraOrdinaryItems:                       numberAt(q, "extraOrdinaryItems"),
		ProfitLossForThePeriod:                   numberAt(q, "profitLossForThePeriod"),
		Period:                                   stringAt(q, "period"),
	}

	if rec.ProfitLossForThePeriod == nil &&
		rec.ProfitLossAfterTaxFromOrdinaryActivities != nil &&
		rec.ExtraOrdinaryItems != nil {
		derived := *rec.ProfitLossAfterTaxFromOrdinaryActivities + *rec.ExtraOrdinaryItems
		rec.ProfitLossForThePeriod = &derived
	}
	return rec
}

func stringAt(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func numberAt(m map[string]interface{}, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		return ParseAmount(v)
	}
	return nil
}

// ParseAmount converts a captured statement figure to a number. Thousands
// separators and currency markers are stripped; parentheses denote a
// negative value. Nil means the text is not a number.
func ParseAmount(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	replacer := strings.NewReplacer(",", "", " ", "", "₹", "", "Rs.", "", "Rs", "", "INR", "")
	s = strings.TrimSpace(replacer.Replace(s))

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if negative {
		f = -f
	}
	return &f
}

// FromFieldMap builds one quarter record from a pattern-extraction result.
// Only fields the battery covers get populated; everything else stays nil.
func FromFieldMap(fields models.FieldMap, period string) models.FinancialQuarterRecord {
	fromField := func(name string) *float64 {
		if raw, ok := fields[name]; ok && raw != nil {
			return ParseAmount(*raw)
		}
		return nil
	}

	return models.FinancialQuarterRecord{
		RevenueFromOps:                           fromField(textproc.FieldRevenue),
		OtherIncome:                              fromField(textproc.FieldOtherIncome),
		FinanceCosts:                             fromField(textproc.FieldFinanceCosts),
		Depreciation:                             fromField(textproc.FieldDepreciation),
		TotalExpenses:                            fromField(textproc.FieldTotalExpenses),
		ProfitLossBeforeTax:                      fromField(textproc.FieldProfitBeforeTax),
		ProfitLossAfterTaxFromOrdinaryActivities: fromField(textproc.FieldProfitAfterTax),
		Period:                                   period,
	}
}

// AssembleFromText tries to build a full statement record out of OCR text
// containing the current quarter followed by its year-over-year comparison.
// ok is false when the text does not expose two period-labelled sections.
func AssembleFromText(text string) (*models.FinancialStatementRecord, bool) {
	blocks := textproc.SplitQuarterBlocks(text)
	if len(blocks) < 2 || blocks[0].Period == "" || blocks[1].Period == "" {
		return nil, false
	}

	unit := models.RevenueUnit("")
	if raw := textproc.Extract(text)[textproc.FieldUnits]; raw != nil {
		unit = NormalizeUnit(*raw)
	}

	return &models.FinancialStatementRecord{
		CurrentQuarter:      FromFieldMap(textproc.Extract(blocks[0].Text), blocks[0].Period),
		PreviousYearQuarter: FromFieldMap(textproc.Extract(blocks[1].Text), blocks[1].Period),
		RevenueUnit:         unit,
	}, true
}
