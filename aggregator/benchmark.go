package aggregator

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BENCHMARKS - Fixed reference amounts, never persisted per user
// =============================================================================

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// BenchmarkEntry is the reference spending for one category.
type BenchmarkEntry struct {
	Category string
	Average  decimal.Decimal
	Color    string // display hint for charts
}

// Benchmark is an ordered set of reference amounts.
type Benchmark struct {
	Name    string
	Entries []BenchmarkEntry
}

// DefaultColor is used for categories without a configured color.
const DefaultColor = "#6b7280"

// NationalBenchmark returns the built-in national averages.
func NationalBenchmark() Benchmark {
	entry := func(cat string, avg int64, color string) BenchmarkEntry {
		return BenchmarkEntry{Category: cat, Average: decimal.NewFromInt(avg), Color: color}
	}
	return Benchmark{
		Name: "national",
		Entries: []BenchmarkEntry{
			entry("Housing", 1800, "#27ae60"),
			entry("Food", 750, "#3b82f6"),
			entry("Transportation", 400, "#f59e0b"),
			entry("Entertainment", 350, "#8b5cf6"),
			entry("Utilities", 220, "#ef4444"),
			entry("Healthcare", 300, "#10b981"),
			entry("Shopping", 400, "#f97316"),
			entry("Other", 200, DefaultColor),
		},
	}
}

// Comparison is one category's spending against its reference amount.
type Comparison struct {
	Category  string
	User      decimal.Decimal
	Average   decimal.Decimal
	Trend     Trend
	ChangePct decimal.Decimal
	Color     string
}

// Compare computes a single comparison row. With a zero average the change
// is 0 and the trend is "up" only if the user spent anything at all.
func Compare(category string, user, average decimal.Decimal) Comparison {
	c := Comparison{Category: category, User: user, Average: average, Trend: TrendDown, ChangePct: decimal.Zero}
	if user.GreaterThan(average) {
		c.Trend = TrendUp
	}
	if !average.IsZero() {
		c.ChangePct = user.Sub(average).Div(average).Mul(decimal.NewFromInt(100))
	}
	return c
}

// CompareToBenchmark compares the user's totals to every benchmark category,
// in benchmark order. User amounts are looked up case-insensitively.
func CompareToBenchmark(totals Totals, benchmark Benchmark) []Comparison {
	rows := make([]Comparison, 0, len(benchmark.Entries))
	for _, e := range benchmark.Entries {
		c := Compare(e.Category, totals.GetFold(e.Category), e.Average)
		c.Color = e.Color
		if c.Color == "" {
			c.Color = DefaultColor
		}
		rows = append(rows, c)
	}
	return rows
}

// ColorFor returns the benchmark color for a category.
func (b Benchmark) ColorFor(category string) string {
	for _, e := range b.Entries {
		if finance.SameCategory(e.Category, category) && e.Color != "" {
			return e.Color
		}
	}
	return DefaultColor
}
