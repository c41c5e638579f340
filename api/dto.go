/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain records (decimal amounts, Day dates) from the wire contract the
  React client reads: camelCase keys, amounts as numbers rounded to cents,
  dates as "YYYY-MM-DD".

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Expenses:     ExpenseDTO, ExpenseRequest, ExpenseSummaryResponse
  Budgets:      BudgetDTO, BudgetRequest, SimulateRequest, SimulateResponse
  Goals:        SavingsGoalDTO, SavingsGoalRequest, AddFundsRequest
  Achievements: AchievementDTO, UserStatsDTO, CheckAchievementsResponse
  User data:    FinancialSummaryDTO, InsightDTO
  Scenarios:    ScenarioDTO, LoadScenarioRequest

NUMBERS IN REQUESTS:
  Request amounts use Number, which accepts both 12.5 and "12.5". The
  client sends form values as strings; both forms parse to the same
  decimal. An absent or null value is the empty Number, i.e. "missing".

SEE ALSO:
  - handlers.go: Uses these types
  - factory/benchmark.go: BenchmarkJSON
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shashwat106/the-financial-blueprint/achievements"
	"github.com/shashwat106/the-financial-blueprint/aggregator"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shashwat106/the-financial-blueprint/simulator"
	"github.com/shopspring/decimal"
)

// =============================================================================
// NUMBER - Accepts JSON numbers and numeric strings
// =============================================================================

// Number is a request value kept as text until a handler parses it.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected a number, got %s", data)
		}
		*n = Number(num.String())
	}
	return nil
}

// IsSet reports whether a value was supplied.
func (n Number) IsSet() bool { return n != "" }

// Decimal parses the value, naming field in the error.
func (n Number) Decimal(field string) (decimal.Decimal, error) {
	if !n.IsSet() {
		return decimal.Zero, finance.Missing(field)
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, &finance.InvalidInputError{Field: field, Value: string(n), Reason: "must be a number"}
	}
	return d, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

type ExpenseDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExpenseRequest is the body of both create and update. On update, absent
// fields are left unchanged.
type ExpenseRequest struct {
	Amount      Number  `json:"amount"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

type CategoryComparisonDTO struct {
	Category  string  `json:"category"`
	User      float64 `json:"user"`
	Average   float64 `json:"average"`
	Trend     string  `json:"trend"`
	ChangePct float64 `json:"change"`
	Color     string  `json:"color"`
}

type ExpenseSummaryResponse struct {
	CategoryTotals map[string]float64      `json:"categoryTotals"`
	Comparison     []CategoryComparisonDTO `json:"comparison"`
	TotalSpent     float64                 `json:"totalSpent"`
	ExpenseCount   int                     `json:"expenseCount"`
	Benchmark      string                  `json:"benchmark"`
}

// =============================================================================
// BUDGETS
// =============================================================================

// BudgetDTO carries the stored budget plus its derived spending.
type BudgetDTO struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Category       string    `json:"category"`
	Limit          float64   `json:"limit"`
	Period         string    `json:"period"`
	CreatedAt      time.Time `json:"createdAt"`
	Spent          float64   `json:"spent"`
	Remaining      float64   `json:"remaining"`
	PercentageUsed float64   `json:"percentageUsed"`
}

type BudgetRequest struct {
	Category *string `json:"category"`
	Limit    Number  `json:"limit"`
	Period   *string `json:"period"`
}

// SimulateRequest mirrors simulator.RawInput. Timeframe is in months.
type SimulateRequest struct {
	Income      Number            `json:"income"`
	Expenses    map[string]Number `json:"expenses"`
	SavingsGoal Number            `json:"savingsGoal"`
	Timeframe   Number            `json:"timeframe"`
}

func (r SimulateRequest) Raw() simulator.RawInput {
	raw := simulator.RawInput{
		Income:      string(r.Income),
		SavingsGoal: string(r.SavingsGoal),
		Months:      string(r.Timeframe),
		Expenses:    make(map[string]string, len(r.Expenses)),
	}
	for category, v := range r.Expenses {
		raw.Expenses[category] = string(v)
	}
	return raw
}

type ProjectionPointDTO struct {
	Month int     `json:"month"`
	Saved float64 `json:"saved"`
	Goal  float64 `json:"goal"`
}

type SimulationDTO struct {
	MonthlyIncome        float64              `json:"monthlyIncome"`
	MonthlyExpenses      float64              `json:"monthlyExpenses"`
	MonthlyRemaining     float64              `json:"monthlyRemaining"`
	MonthlySavingsGoal   float64              `json:"monthlySavingsGoal"`
	CanReachGoal         bool                 `json:"canReachGoal"`
	ActualMonthlySavings float64              `json:"actualMonthlySavings"`
	TotalSaved           float64              `json:"totalSaved"`
	GoalAmount           float64              `json:"goalAmount"`
	Shortfall            float64              `json:"shortfall"`
	Months               int                  `json:"months"`
	Projection           []ProjectionPointDTO `json:"projection"`
}

type CategoryShareDTO struct {
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	PercentOfIncome float64 `json:"percentOfIncome"`
}

type SimulateResponse struct {
	Simulation        SimulationDTO      `json:"simulation"`
	Recommendations   []string           `json:"recommendations"`
	CategoryBreakdown []CategoryShareDTO `json:"categoryBreakdown"`
}

// =============================================================================
// SAVINGS GOALS
// =============================================================================

type SavingsGoalDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Deadline      string    `json:"deadline"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Progress    float64 `json:"progress"`
	Remaining   float64 `json:"remaining"`
	DaysLeft    int     `json:"daysLeft"`
	IsCompleted bool    `json:"isCompleted"`
}

type SavingsGoalRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	TargetAmount  Number  `json:"targetAmount"`
	CurrentAmount Number  `json:"currentAmount"`
	Deadline      *string `json:"deadline"`
	Category      *string `json:"category"`
	Priority      *string `json:"priority"`
}

type AddFundsRequest struct {
	Amount Number `json:"amount"`
}

type AddFundsResponse struct {
	Message   string  `json:"message"`
	NewAmount float64 `json:"newAmount"`
}

// =============================================================================
// ACHIEVEMENTS
// =============================================================================

type AchievementDTO struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	AchievementType string    `json:"achievementType"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	Rarity          string    `json:"rarity"`
	UnlockedAt      time.Time `json:"unlockedAt"`
}

type UserStatsDTO struct {
	UserID           string  `json:"userId"`
	TotalExpenses    float64 `json:"totalExpenses"`
	TotalSavings     float64 `json:"totalSavings"`
	GoalsCompleted   int     `json:"goalsCompleted"`
	BudgetsCreated   int     `json:"budgetsCreated"`
	ExpenseCount     int     `json:"expenseCount"`
	GoalCount        int     `json:"goalCount"`
	SavingsRate      float64 `json:"savingsRate"`
	AchievementCount int     `json:"achievementCount"`
}

type CheckAchievementsResponse struct {
	NewAchievements []AchievementDTO `json:"newAchievements"`
	Message         string           `json:"message"`
}

// =============================================================================
// USER DATA
// =============================================================================

type BudgetUtilizationDTO struct {
	Category        string  `json:"category"`
	Budgeted        float64 `json:"budgeted"`
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`
	UtilizationRate float64 `json:"utilizationRate"`
	IsOverBudget    bool    `json:"isOverBudget"`
}

type CategoryAmountDTO struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type SpendingPatternsDTO struct {
	AverageDailySpending  float64           `json:"averageDailySpending"`
	MostExpensiveCategory CategoryAmountDTO `json:"mostExpensiveCategory"`
	SpendingTrend         string            `json:"spendingTrend"`
}

type DataCompletenessDTO struct {
	HasExpenses  bool `json:"hasExpenses"`
	HasBudgets   bool `json:"hasBudgets"`
	ExpenseCount int  `json:"expenseCount"`
	BudgetCount  int  `json:"budgetCount"`
	TrackingDays int  `json:"trackingDays"`
}

type FinancialSummaryDTO struct {
	UserID               string                 `json:"userId"`
	CurrentMonthSpending map[string]float64     `json:"currentMonthSpending"`
	CategoryTotals       map[string]float64     `json:"categoryTotals"`
	BudgetUtilization    []BudgetUtilizationDTO `json:"budgetUtilization"`
	SpendingPatterns     SpendingPatternsDTO    `json:"spendingPatterns"`
	UserSegment          string                 `json:"userSegment"`
	DataCompleteness     DataCompletenessDTO    `json:"dataCompleteness"`
}

type InsightDTO struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Actionable  bool   `json:"actionable"`
	Suggestion  string `json:"suggestion"`
}

type InsightsResponse struct {
	Insights    []InsightDTO `json:"insights"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// =============================================================================
// SCENARIOS & MISC
// =============================================================================

// ScenarioDTO represents a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toExpenseDTO(e finance.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		UserID:      string(e.UserID),
		Amount:      finance.Cents(e.Amount),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
		CreatedAt:   e.CreatedAt,
	}
}

func toBudgetDTO(u aggregator.Utilization) BudgetDTO {
	b := u.Budget
	return BudgetDTO{
		ID:             b.ID,
		UserID:         string(b.UserID),
		Category:       b.Category,
		Limit:          finance.Cents(b.Limit),
		Period:         string(b.Period),
		CreatedAt:      b.CreatedAt,
		Spent:          finance.Cents(u.Spent),
		Remaining:      finance.Cents(u.Remaining),
		PercentageUsed: finance.Cents(u.UtilizationRate),
	}
}

func toSavingsGoalDTO(g finance.SavingsGoal, asOf finance.Day) SavingsGoalDTO {
	p := g.Progress(asOf)
	return SavingsGoalDTO{
		ID:            g.ID,
		UserID:        string(g.UserID),
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  finance.Cents(g.TargetAmount),
		CurrentAmount: finance.Cents(g.CurrentAmount),
		Deadline:      g.Deadline.String(),
		Category:      g.Category,
		Priority:      string(g.Priority),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
		Progress:      finance.Cents(p.Progress),
		Remaining:     finance.Cents(p.Remaining),
		DaysLeft:      p.DaysLeft,
		IsCompleted:   p.IsCompleted,
	}
}

func toAchievementDTO(a finance.Achievement) AchievementDTO {
	return AchievementDTO{
		ID:              a.ID,
		UserID:          string(a.UserID),
		AchievementType: a.Type,
		Title:           a.Title,
		Description:     a.Description,
		Icon:            a.Icon,
		Rarity:          string(a.Rarity),
		UnlockedAt:      a.UnlockedAt,
	}
}

func toAchievementDTOs(list []finance.Achievement) []AchievementDTO {
	dtos := make([]AchievementDTO, len(list))
	for i, a := range list {
		dtos[i] = toAchievementDTO(a)
	}
	return dtos
}

func toUserStatsDTO(userID finance.UserID, stats finance.UserStats, counts finance.DerivedCounts, unlocked int) UserStatsDTO {
	return UserStatsDTO{
		UserID:           string(userID),
		TotalExpenses:    finance.Cents(stats.TotalExpenses),
		TotalSavings:     finance.Cents(stats.TotalSavings),
		GoalsCompleted:   stats.GoalsCompleted,
		BudgetsCreated:   stats.BudgetsCreated,
		ExpenseCount:     counts.ExpenseCount,
		GoalCount:        counts.GoalCount,
		SavingsRate:      finance.Cents(achievements.SavingsRate(stats.TotalExpenses)),
		AchievementCount: unlocked,
	}
}

func totalsMap(t aggregator.Totals) map[string]float64 {
	m := make(map[string]float64, t.Len())
	for _, c := range t.Ordered() {
		m[c.Category] = finance.Cents(c.Amount)
	}
	return m
}

func toExpenseSummaryResponse(s aggregator.ExpenseSummary, benchmark string) ExpenseSummaryResponse {
	rows := make([]CategoryComparisonDTO, len(s.Comparison))
	for i, c := range s.Comparison {
		rows[i] = CategoryComparisonDTO{
			Category:  c.Category,
			User:      finance.Cents(c.User),
			Average:   finance.Cents(c.Average),
			Trend:     string(c.Trend),
			ChangePct: finance.Cents(c.ChangePct),
			Color:     c.Color,
		}
	}
	return ExpenseSummaryResponse{
		CategoryTotals: totalsMap(s.CategoryTotals),
		Comparison:     rows,
		TotalSpent:     finance.Cents(s.TotalSpent),
		ExpenseCount:   s.ExpenseCount,
		Benchmark:      benchmark,
	}
}

func toSimulateResponse(r simulator.Result, recommendations []string) SimulateResponse {
	projection := make([]ProjectionPointDTO, len(r.Projection))
	for i, p := range r.Projection {
		projection[i] = ProjectionPointDTO{Month: p.Month, Saved: finance.Cents(p.Saved), Goal: finance.Cents(p.Goal)}
	}
	shares := make([]CategoryShareDTO, len(r.Breakdown))
	for i, s := range r.Breakdown {
		shares[i] = CategoryShareDTO{Category: s.Category, Amount: finance.Cents(s.Amount), PercentOfIncome: finance.Cents(s.PercentOfIncome)}
	}
	return SimulateResponse{
		Simulation: SimulationDTO{
			MonthlyIncome:        finance.Cents(r.MonthlyIncome),
			MonthlyExpenses:      finance.Cents(r.MonthlyExpenses),
			MonthlyRemaining:     finance.Cents(r.MonthlyRemaining),
			MonthlySavingsGoal:   finance.Cents(r.MonthlySavingsGoal),
			CanReachGoal:         r.CanReachGoal,
			ActualMonthlySavings: finance.Cents(r.ActualMonthlySavings),
			TotalSaved:           finance.Cents(r.TotalSaved),
			GoalAmount:           finance.Cents(r.GoalAmount),
			Shortfall:            finance.Cents(r.Shortfall),
			Months:               r.Months,
			Projection:           projection,
		},
		Recommendations:   recommendations,
		CategoryBreakdown: shares,
	}
}

func toFinancialSummaryDTO(s aggregator.FinancialSummary) FinancialSummaryDTO {
	rows := make([]BudgetUtilizationDTO, len(s.BudgetUtilization))
	for i, u := range s.BudgetUtilization {
		rows[i] = BudgetUtilizationDTO{
			Category:        u.Category,
			Budgeted:        finance.Cents(u.Budgeted),
			Spent:           finance.Cents(u.Spent),
			Remaining:       finance.Cents(u.Remaining),
			UtilizationRate: finance.Cents(u.UtilizationRate),
			IsOverBudget:    u.IsOverBudget,
		}
	}
	top := s.Patterns.MostExpensiveCategory
	return FinancialSummaryDTO{
		UserID:               string(s.UserID),
		CurrentMonthSpending: totalsMap(s.CurrentMonthSpending),
		CategoryTotals:       totalsMap(s.CategoryTotals),
		BudgetUtilization:    rows,
		SpendingPatterns: SpendingPatternsDTO{
			AverageDailySpending:  finance.Cents(s.Patterns.AverageDailySpending),
			MostExpensiveCategory: CategoryAmountDTO{Category: top.Category, Amount: finance.Cents(top.Amount)},
			SpendingTrend:         string(s.Patterns.Trend),
		},
		UserSegment: string(s.Segment),
		DataCompleteness: DataCompletenessDTO{
			HasExpenses:  s.Completeness.HasExpenses,
			HasBudgets:   s.Completeness.HasBudgets,
			ExpenseCount: s.Completeness.ExpenseCount,
			BudgetCount:  s.Completeness.BudgetCount,
			TrackingDays: s.Completeness.TrackingDays,
		},
	}
}

func toInsightDTOs(list []aggregator.Insight) []InsightDTO {
	dtos := make([]InsightDTO, len(list))
	for i, in := range list {
		dtos[i] = InsightDTO{
			Type:        string(in.Type),
			Title:       in.Title,
			Description: in.Description,
			Actionable:  in.Actionable,
			Suggestion:  in.Suggestion,
		}
	}
	return dtos
}
