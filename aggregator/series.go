package aggregator

import (
	"sort"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// UndatedLabel buckets expenses that carry no date.
const UndatedLabel = "undated"

// PeriodAmount is the total spent in one calendar month ("YYYY-MM").
type PeriodAmount struct {
	PeriodLabel string
	Amount      decimal.Decimal
}

// MonthlySeries buckets expenses by the calendar month of their date, in
// chronological order. Undated expenses are kept in a trailing "undated"
// bucket so the series still sums to the input.
func MonthlySeries(expenses []finance.Expense) []PeriodAmount {
	sums := make(map[string]decimal.Decimal)
	var labels []string
	for _, e := range expenses {
		label := e.Date.MonthLabel()
		if label == "" {
			label = UndatedLabel
		}
		if _, ok := sums[label]; !ok {
			labels = append(labels, label)
		}
		sums[label] = sums[label].Add(e.Amount)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		if labels[i] == UndatedLabel || labels[j] == UndatedLabel {
			return labels[j] == UndatedLabel && labels[i] != UndatedLabel
		}
		return labels[i] < labels[j]
	})

	series := make([]PeriodAmount, 0, len(labels))
	for _, l := range labels {
		series = append(series, PeriodAmount{PeriodLabel: l, Amount: sums[l]})
	}
	return series
}

// MonthTotals returns the per-category totals for a single "YYYY-MM" month.
func MonthTotals(expenses []finance.Expense, month string) Totals {
	var inMonth []finance.Expense
	for _, e := range expenses {
		if e.Date.MonthLabel() == month {
			inMonth = append(inMonth, e)
		}
	}
	return CategoryTotals(inMonth)
}

// =============================================================================
// TREND
// =============================================================================

type SpendingTrend string

const (
	TrendInsufficientData SpendingTrend = "insufficient_data"
	TrendIncreasing       SpendingTrend = "increasing"
	TrendDecreasing       SpendingTrend = "decreasing"
	TrendStable           SpendingTrend = "stable"
)

// SpendingTrendOf compares the last two dated months of a series: more than 10% up
// is increasing, more than 10% down is decreasing.
func SpendingTrendOf(series []PeriodAmount) SpendingTrend {
	var dated []PeriodAmount
	for _, p := range series {
		if p.PeriodLabel != UndatedLabel {
			dated = append(dated, p)
		}
	}
	if len(dated) < 2 {
		return TrendInsufficientData
	}

	last := dated[len(dated)-1].Amount
	previous := dated[len(dated)-2].Amount

	switch {
	case last.GreaterThan(previous.Mul(decimal.RequireFromString("1.1"))):
		return TrendIncreasing
	case last.LessThan(previous.Mul(decimal.RequireFromString("0.9"))):
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// TrackingDays is the span in days between the earliest and latest dated
// expense.
func TrackingDays(expenses []finance.Expense) int {
	var earliest, latest finance.Day
	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || e.Date.Before(earliest) {
			earliest = e.Date
		}
		if latest.IsZero() || e.Date.After(latest) {
			latest = e.Date
		}
	}
	if earliest.IsZero() {
		return 0
	}
	return earliest.DaysUntil(latest)
}
