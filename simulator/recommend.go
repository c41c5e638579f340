package simulator

import "github.com/shopspring/decimal"

// Recommendation messages, in the order Recommend may emit them.
const (
	MsgShortfall     = "Your current expenses exceed your savings goal. Consider reducing spending."
	MsgHousing       = "Housing costs are above 30% of income. Consider downsizing or finding roommates."
	MsgEntertainment = "Entertainment spending is high. Try free activities or set a stricter limit."
	MsgFood          = "Food costs are above 15% of income. Consider meal planning and cooking at home more."
	MsgOnTrack       = "Great! You're on track to meet your savings goal."
	MsgSurplus       = "You have room to increase your savings goal or invest the extra money."
)

// categoryRule fires when a category's monthly amount exceeds a share of
// income.
type categoryRule struct {
	category string
	share    decimal.Decimal
	message  string
}

var categoryRules = []categoryRule{
	{category: "housing", share: decimal.RequireFromString("0.30"), message: MsgHousing},
	{category: "entertainment", share: decimal.RequireFromString("0.10"), message: MsgEntertainment},
	{category: "food", share: decimal.RequireFromString("0.15"), message: MsgFood},
}

var surplusFactor = decimal.RequireFromString("1.5")

// Recommend returns suggestions in a fixed order. When the remainder falls
// short of the goal the shortfall warning comes first, followed by one
// message per category over its threshold (housing, entertainment, food).
// Otherwise the on-track message is returned, plus a surplus suggestion when
// the remainder exceeds 1.5x the goal.
func Recommend(income decimal.Decimal, expenses Breakdown, savingsGoal decimal.Decimal) []string {
	remaining := income.Sub(expenses.Total())

	if remaining.LessThan(savingsGoal) {
		out := []string{MsgShortfall}
		for _, rule := range categoryRules {
			if expenses.Get(rule.category).GreaterThan(income.Mul(rule.share)) {
				out = append(out, rule.message)
			}
		}
		return out
	}

	out := []string{MsgOnTrack}
	if remaining.GreaterThan(savingsGoal.Mul(surplusFactor)) {
		out = append(out, MsgSurplus)
	}
	return out
}
