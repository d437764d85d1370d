// Package report turns a parsed financial statement into a human-readable
// quarterly summary with year-over-year growth figures.
package report

import (
	"fmt"
	"strings"

	"finextract/pkg/models"
)

// Growth formats the year-over-year percentage change between two values.
// Returns "N/A" when either value is missing or the base period is zero.
func Growth(current, previous *float64) string {
	if current == nil || previous == nil || *previous == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", (*current-*previous)/(*previous)*100)
}

// toCrores converts a reported value into crores based on the statement's
// reporting unit. Crores pass through unchanged.
func toCrores(v *float64, unit models.RevenueUnit) *float64 {
	if v == nil {
		return nil
	}
	switch unit {
	case models.UnitLakhs:
		return models.Float(*v / 100)
	case models.UnitMillions:
		return models.Float(*v / 10)
	default:
		return models.Float(*v)
	}
}

func amount(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// hasItemizedIncome reports whether the quarter carries income components
// beyond plain other income that warrant an itemized breakdown.
func hasItemizedIncome(q models.FinancialQuarterRecord) bool {
	return q.ExceptionalItems != nil || q.ShareOfPLOfAssociates != nil || q.ExtraOrdinaryItems != nil
}

func sumIncome(q models.FinancialQuarterRecord) *float64 {
	var total float64
	seen := false
	for _, v := range []*float64{q.OtherIncome, q.ExceptionalItems, q.ShareOfPLOfAssociates, q.ExtraOrdinaryItems} {
		if v != nil {
			total += *v
			seen = true
		}
	}
	if !seen {
		return nil
	}
	return models.Float(total)
}

// Summarize renders a Markdown report for the statement: revenue, income,
// expenses and profitability with growth against the prior-year quarter,
// all figures normalized to crores. processingTimeMS is the end-to-end
// extraction duration shown in the footer.
func Summarize(record *models.FinancialStatementRecord, processingTimeMS int64) string {
	curr := record.CurrentQuarter
	prev := record.PreviousYearQuarter
	unit := record.RevenueUnit

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Quarterly Results: %s*\n", curr.Period))
	sb.WriteString(fmt.Sprintf("_vs %s (all figures in ₹ crores)_\n\n", prev.Period))

	revenue := toCrores(curr.RevenueFromOps, unit)
	prevRevenue := toCrores(prev.RevenueFromOps, unit)
	sb.WriteString("💰 *Revenue*\n")
	sb.WriteString(fmt.Sprintf("Revenue from operations: %s (%s%%)\n\n", amount(revenue), Growth(revenue, prevRevenue)))

	sb.WriteString("➕ *Other Income*\n")
	if hasItemizedIncome(curr) {
		if curr.OtherIncome != nil {
			sb.WriteString(fmt.Sprintf("Other income: %s\n", amount(toCrores(curr.OtherIncome, unit))))
		}
		if curr.ExceptionalItems != nil {
			sb.WriteString(fmt.Sprintf("Exceptional items: %s\n", amount(toCrores(curr.ExceptionalItems, unit))))
		}
		if curr.ShareOfPLOfAssociates != nil {
			sb.WriteString(fmt.Sprintf("Share of P/L of associates: %s\n", amount(toCrores(curr.ShareOfPLOfAssociates, unit))))
		}
		if curr.ExtraOrdinaryItems != nil {
			sb.WriteString(fmt.Sprintf("Extraordinary items: %s\n", amount(toCrores(curr.ExtraOrdinaryItems, unit))))
		}
		total := toCrores(sumIncome(curr), unit)
		prevTotal := toCrores(sumIncome(prev), unit)
		sb.WriteString(fmt.Sprintf("Total: %s (%s%%)\n\n", amount(total), Growth(total, prevTotal)))
	} else {
		income := toCrores(curr.OtherIncome, unit)
		prevIncome := toCrores(prev.OtherIncome, unit)
		sb.WriteString(fmt.Sprintf("Other income: %s (%s%%)\n\n", amount(income), Growth(income, prevIncome)))
	}

	sb.WriteString("📉 *Expenses*\n")
	sb.WriteString(fmt.Sprintf("Finance costs: %s (%s%%)\n",
		amount(toCrores(curr.FinanceCosts, unit)), Growth(toCrores(curr.FinanceCosts, unit), toCrores(prev.FinanceCosts, unit))))
	sb.WriteString(fmt.Sprintf("Depreciation: %s (%s%%)\n",
		amount(toCrores(curr.Depreciation, unit)), Growth(toCrores(curr.Depreciation, unit), toCrores(prev.Depreciation, unit))))
	sb.WriteString(fmt.Sprintf("Total expenses: %s (%s%%)\n\n",
		amount(toCrores(curr.TotalExpenses, unit)), Growth(toCrores(curr.TotalExpenses, unit), toCrores(prev.TotalExpenses, unit))))

	sb.WriteString("📈 *Profitability*\n")
	sb.WriteString(fmt.Sprintf("Profit before tax: %s (%s%%)\n",
		amount(toCrores(curr.ProfitLossBeforeTax, unit)), Growth(toCrores(curr.ProfitLossBeforeTax, unit), toCrores(prev.ProfitLossBeforeTax, unit))))
	sb.WriteString(fmt.Sprintf("Profit for the period: %s (%s%%)\n\n",
		amount(toCrores(curr.ProfitLossForThePeriod, unit)), Growth(toCrores(curr.ProfitLossForThePeriod, unit), toCrores(prev.ProfitLossForThePeriod, unit))))

	sb.WriteString(fmt.Sprintf("⏱ _Processed in %.2fs_", float64(processingTimeMS)/1000))
	return sb.String()
}
