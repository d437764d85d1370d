package models

// RevenueUnit is the magnitude convention the source document reports in.
// Lakhs = 10^5, Millions = 10^6, Crores = 10^7.
type RevenueUnit string

const (
	UnitLakhs    RevenueUnit = "Lakhs"
	UnitCrores   RevenueUnit = "Crores"
	UnitMillions RevenueUnit = "Millions"
)

// Timing captures wall-clock bounds of a backend network call, in Unix
// milliseconds. Local file I/O is excluded.
type Timing struct {
	Start      int64 `json:"start"`
	End        int64 `json:"end"`
	DurationMS int64 `json:"duration"`
}

// FinancialQuarterRecord holds the standard line items for one reporting
// period. Nil means the value was not found in the source document, which is
// different from a reported zero.
type FinancialQuarterRecord struct {
	RevenueFromOps                           *float64 `json:"revenueFromOps"`
	OtherIncome                              *float64 `json:"otherIncome"`
	Depreciation                             *float64 `json:"depreciation"`
	FinanceCosts                             *float64 `json:"financeCosts"`
	TotalExpenses                            *float64 `json:"totalExpenses"`
	ProfitLossBeforeExceptionalItemsAndTax   *float64 `json:"profitLossBeforeExceptionalItemsAndTax"`
	ExceptionalItems                         *float64 `json:"exceptionalItems"`
	ShareOfPLOfAssociates                    *float64 `json:"shareOfPLOfAssociates"`
	ProfitLossBeforeTax                      *float64 `json:"profitLossBeforeTax"`
	ProfitLossAfterTaxFromOrdinaryActivities *float64 `json:"profitLossAfterTaxFromOrdinaryActivities"`
	PriorYearAdjustments                     *float64 `json:"priorYearAdjustments"`
	ExtraOrdinaryItems                       *float64 `json:"extraOrdinaryItems"`
	ProfitLossForThePeriod                   *float64 `json:"profitLossForThePeriod"`
	Period                                   string   `json:"period"`
}

// FinancialStatementRecord is the canonical per-statement shape: the latest
// quarter plus its year-over-year comparison, both expressed in RevenueUnit.
type FinancialStatementRecord struct {
	CurrentQuarter      FinancialQuarterRecord `json:"currentQuarter"`
	PreviousYearQuarter FinancialQuarterRecord `json:"previousYearQuarter"`
	RevenueUnit         RevenueUnit            `json:"revenueUnit"`
}

// FieldMap maps metric labels to raw captured text. Nil means the pattern did
// not match anywhere in the text.
type FieldMap map[string]*string

// Float is a convenience for building nullable numeric fields.
func Float(v float64) *float64 {
	return &v
}
