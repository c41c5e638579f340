/*
Package simulator projects monthly cash flow over a horizon and decides
whether a monthly savings goal is reachable.

PURPOSE:
  Given an income, a breakdown of monthly expenses by category, a monthly
  savings goal and a number of months, Simulate derives what is left each
  month and what that adds up to. Recommend turns the same inputs into an
  ordered list of suggestions.

  Both are pure: no I/O, no shared state, no logging. Invalid input is the
  only failure and is returned as *finance.InvalidInputError.

KEY FUNCTIONS:
  ParseInput - raw request values -> validated Input (input.go)
  Simulate   - Input -> Result (simulate.go)
  Recommend  - income, breakdown, goal -> []string (recommend.go)

SEE ALSO:
  - finance/errors.go: InvalidInputError
*/
package simulator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BREAKDOWN
// =============================================================================

// Line is one category's monthly amount.
type Line struct {
	Category string
	Amount   decimal.Decimal
}

// Breakdown is an ordered list of monthly expenses by category.
type Breakdown []Line

// NewBreakdown builds a breakdown from a mapping, ordered by category so the
// result is the same on every call.
func NewBreakdown(m map[string]decimal.Decimal) Breakdown {
	b := make(Breakdown, 0, len(m))
	for c, a := range m {
		b = append(b, Line{Category: c, Amount: a})
	}
	sort.Slice(b, func(i, j int) bool { return b[i].Category < b[j].Category })
	return b
}

// Total sums every line. An empty breakdown totals zero.
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b {
		total = total.Add(l.Amount)
	}
	return total
}

// Get returns the amount for a category, matched case-insensitively.
func (b Breakdown) Get(category string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range b {
		if finance.SameCategory(l.Category, category) {
			total = total.Add(l.Amount)
		}
	}
	return total
}

// =============================================================================
// INPUT
// =============================================================================

// Input is a validated simulation request.
type Input struct {
	Income      decimal.Decimal
	Expenses    Breakdown
	SavingsGoal decimal.Decimal // per month
	Months      int
}

// RawInput carries request values as text, exactly as they arrived. Empty
// strings mean "missing".
type RawInput struct {
	Income      string
	Expenses    map[string]string
	SavingsGoal string
	Months      string
}

// ParseInput converts and validates raw values.
func ParseInput(raw RawInput) (Input, error) {
	income, err := parseAmount("income", raw.Income)
	if err != nil {
		return Input{}, err
	}
	goal, err := parseAmount("savingsGoal", raw.SavingsGoal)
	if err != nil {
		return Input{}, err
	}
	months, err := parseMonths(raw.Months)
	if err != nil {
		return Input{}, err
	}

	amounts := make(map[string]decimal.Decimal, len(raw.Expenses))
	for category, value := range raw.Expenses {
		a, err := parseAmount("expenses."+category, value)
		if err != nil {
			return Input{}, err
		}
		amounts[category] = a
	}

	in := Input{Income: income, Expenses: NewBreakdown(amounts), SavingsGoal: goal, Months: months}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// MaxMonths bounds the horizon; Simulate allocates one projection point per month.
const MaxMonths = 1200

// Validate checks the ranges of an already-typed input: income and expenses
// must not be negative, the savings goal must be positive and the horizon
// between one and MaxMonths months.
func (in Input) Validate() error {
	if in.Income.IsNegative() {
		return &finance.InvalidInputError{Field: "income", Value: in.Income.String(), Reason: "must not be negative"}
	}
	if !in.SavingsGoal.IsPositive() {
		return &finance.InvalidInputError{Field: "savingsGoal", Value: in.SavingsGoal.String(), Reason: "must be greater than zero"}
	}
	if in.Months <= 0 {
		return &finance.InvalidInputError{Field: "months", Value: strconv.Itoa(in.Months), Reason: "must be greater than zero"}
	}
	if in.Months > MaxMonths {
		return &finance.InvalidInputError{Field: "months", Value: strconv.Itoa(in.Months), Reason: "must be at most " + strconv.Itoa(MaxMonths)}
	}
	for _, l := range in.Expenses {
		if l.Amount.IsNegative() {
			return &finance.InvalidInputError{Field: "expenses." + l.Category, Value: l.Amount.String(), Reason: "must not be negative"}
		}
	}
	return nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, finance.Missing(field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &finance.InvalidInputError{Field: field, Value: value, Reason: "must be a number"}
	}
	return d, nil
}

func parseMonths(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, finance.Missing("months")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &finance.InvalidInputError{Field: "months", Value: value, Reason: "must be a whole number"}
	}
	return n, nil
}
