/*
Package aggregator folds expense records into category totals, budget
utilization, benchmark comparisons, monthly series and insights.

PURPOSE:
  Every figure here is derived from the records passed in and is recomputed
  on each call. Nothing is cached, nothing is persisted, and there is no
  error path: empty input yields empty aggregates.

INPUT CONTRACT:
  Expense amounts are validated positive decimals (the caller rejects
  anything else before it reaches a store). Category strings are used as
  given; an empty category is its own bucket.

KEY FUNCTIONS:
  CategoryTotals     - category -> sum (totals.go)
  BudgetUtilization  - budget rows with derived spent/remaining (budget.go)
  CompareToBenchmark - user vs reference amounts (benchmark.go)
  MonthlySeries      - per-month totals (series.go)
  Insights, Summarize - derived feedback (insights.go, summary.go)

SEE ALSO:
  - finance/types.go: record shapes
*/
package aggregator

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// CategoryAmount is one category's amount and its share of the total.
type CategoryAmount struct {
	Category   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Totals maps category -> summed amount and remembers the order in which
// categories first appeared, so display code can enumerate them stably.
type Totals struct {
	order []string
	sums  map[string]decimal.Decimal
}

// CategoryTotals sums expense amounts per category.
func CategoryTotals(expenses []finance.Expense) Totals {
	t := Totals{sums: make(map[string]decimal.Decimal)}
	for _, e := range expenses {
		sum, ok := t.sums[e.Category]
		if !ok {
			t.order = append(t.order, e.Category)
		}
		t.sums[e.Category] = sum.Add(e.Amount)
	}
	return t
}

// Get returns the exact-key total for a category (zero if absent).
func (t Totals) Get(category string) decimal.Decimal {
	return t.sums[category]
}

// GetFold sums every category whose label matches case-insensitively.
func (t Totals) GetFold(category string) decimal.Decimal {
	total := decimal.Zero
	for _, c := range t.order {
		if finance.SameCategory(c, category) {
			total = total.Add(t.sums[c])
		}
	}
	return total
}

func (t Totals) Len() int { return len(t.order) }

// Categories lists categories in first-occurrence order.
func (t Totals) Categories() []string {
	return append([]string(nil), t.order...)
}

// Sum is the grand total. Equal to the sum of every input amount.
func (t Totals) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, c := range t.order {
		total = total.Add(t.sums[c])
	}
	return total
}

// Map returns a copy of the totals keyed by category.
func (t Totals) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(t.sums))
	for k, v := range t.sums {
		m[k] = v
	}
	return m
}

// Ordered returns the totals in first-occurrence order with each
// category's percentage of the grand total.
func (t Totals) Ordered() []CategoryAmount {
	total := t.Sum()
	out := make([]CategoryAmount, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, CategoryAmount{
			Category:   c,
			Amount:     t.sums[c],
			Percentage: finance.Percent(t.sums[c], total),
		})
	}
	return out
}

// Top returns the category with the largest total; the earliest category
// wins ties. ok is false when there are no totals.
func (t Totals) Top() (top CategoryAmount, ok bool) {
	for _, ca := range t.Ordered() {
		if !ok || ca.Amount.GreaterThan(top.Amount) {
			top, ok = ca, true
		}
	}
	return top, ok
}
