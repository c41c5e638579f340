package aggregator

import (
	"fmt"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// USER SEGMENT
// =============================================================================

type Segment string

const (
	SegmentNewUser        Segment = "new_user"
	SegmentExpenseTracker Segment = "expense_tracker"
	SegmentActiveBudgeter Segment = "active_budgeter"
	SegmentAdvancedUser   Segment = "advanced_user"
	SegmentRegularUser    Segment = "regular_user"
)

// UserSegment classifies a user. Rules are checked in order, first match wins.
func UserSegment(totals Totals, budgetCount, expenseCount int) Segment {
	switch {
	case expenseCount < 5:
		return SegmentNewUser
	case budgetCount == 0:
		return SegmentExpenseTracker
	case totals.Sum().GreaterThan(decimal.NewFromInt(3000)):
		return SegmentActiveBudgeter
	case budgetCount > 3 && expenseCount > 50:
		return SegmentAdvancedUser
	default:
		return SegmentRegularUser
	}
}

// =============================================================================
// INSIGHTS
// =============================================================================

type InsightType string

const (
	InsightSpendingPattern    InsightType = "spending_pattern"
	InsightBudgetAlert        InsightType = "budget_alert"
	InsightBudgetSuccess      InsightType = "budget_success"
	InsightSavingsOpportunity InsightType = "savings_opportunity"
)

type Insight struct {
	Type        InsightType
	Title       string
	Description string
	Actionable  bool
	Suggestion  string
}

// Insights derives personalised feedback in a fixed order: spending pattern,
// budget status, savings opportunity.
func Insights(expenses []finance.Expense, budgets []finance.Budget) []Insight {
	var out []Insight
	totals := CategoryTotals(expenses)

	if top, ok := totals.Top(); ok && top.Amount.IsPositive() {
		out = append(out, Insight{
			Type:        InsightSpendingPattern,
			Title:       "Your Top Spending Category",
			Description: fmt.Sprintf("You spend most on %s (%s%% of total)", top.Category, top.Percentage.StringFixed(1)),
			Actionable:  true,
			Suggestion:  fmt.Sprintf("Consider setting a specific budget for %s to better control this expense.", top.Category),
		})
	}

	if len(budgets) > 0 {
		over := OverBudget(BudgetUtilization(budgets, expenses))
		if len(over) > 0 {
			out = append(out, Insight{
				Type:        InsightBudgetAlert,
				Title:       "Budget Overrun Alert",
				Description: fmt.Sprintf("You're over budget in %d categories", len(over)),
				Actionable:  true,
				Suggestion:  "Review these categories and consider adjusting spending or increasing the budget limits.",
			})
		} else {
			out = append(out, Insight{
				Type:        InsightBudgetSuccess,
				Title:       "Great Budget Management!",
				Description: "You're staying within all your set budgets",
				Actionable:  false,
				Suggestion:  "Keep up the good work! Consider setting more detailed budgets for better tracking.",
			})
		}
	}

	if len(expenses) > 10 {
		out = append(out, Insight{
			Type:        InsightSavingsOpportunity,
			Title:       "Potential Monthly Savings",
			Description: "If you reduce daily spending by $5, you could save $150/month",
			Actionable:  true,
			Suggestion:  "Look for small cuts in discretionary spending like dining out or subscriptions.",
		})
	}

	return out
}
