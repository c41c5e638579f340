package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shashwat106/the-financial-blueprint/simulator"
)

var (
	flagIncome      string
	flagSavingsGoal string
	flagMonths      string
	flagExpenses    map[string]string
	flagProjection  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project monthly savings against a goal",
	Example: `  server simulate --income 5000 --savings-goal 500 --months 12 \
      --expense housing=1500,food=600 --expense entertainment=250`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagIncome, "income", "", "Monthly income")
	simulateCmd.Flags().StringVar(&flagSavingsGoal, "savings-goal", "", "Monthly savings goal")
	simulateCmd.Flags().StringVar(&flagMonths, "months", "12", "Horizon in whole months")
	simulateCmd.Flags().StringToStringVarP(&flagExpenses, "expense", "e", nil, "Monthly expense as category=amount (repeatable)")
	simulateCmd.Flags().BoolVar(&flagProjection, "projection", false, "Print the month-by-month projection")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	in, err := simulator.ParseInput(simulator.RawInput{
		Income:      flagIncome,
		Expenses:    flagExpenses,
		SavingsGoal: flagSavingsGoal,
		Months:      flagMonths,
	})
	if err != nil {
		return err
	}

	result, err := simulator.Simulate(in)
	if err != nil {
		return err
	}
	recommendations := simulator.Recommend(in.Income, in.Expenses, in.SavingsGoal)

	return printSimulation(cmd.OutOrStdout(), result, recommendations, flagProjection)
}

func printSimulation(out io.Writer, r simulator.Result, recommendations []string, projection bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Monthly income\t%s\t\n", money(r.MonthlyIncome))
	fmt.Fprintf(tw, "Monthly expenses\t%s\t\n", money(r.MonthlyExpenses))
	fmt.Fprintf(tw, "Monthly remaining\t%s\t\n", money(r.MonthlyRemaining))
	fmt.Fprintf(tw, "Monthly savings goal\t%s\t\n", money(r.MonthlySavingsGoal))
	fmt.Fprintf(tw, "Saved over %d months\t%s\t\n", r.Months, money(r.TotalSaved))
	fmt.Fprintf(tw, "Goal over %d months\t%s\t\n", r.Months, money(r.GoalAmount))
	if r.HasShortfall() {
		fmt.Fprintf(tw, "Shortfall\t%s\t\n", money(r.Shortfall))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Breakdown) > 0 {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT\t% OF INCOME")
		for _, s := range r.Breakdown {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Category, money(s.Amount), s.PercentOfIncome.StringFixed(1))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if projection {
		fmt.Fprintln(out)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MONTH\tSAVED\tGOAL")
		for _, p := range r.Projection {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", p.Month, money(p.Saved), money(p.Goal))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	verdict := "Goal reachable"
	if !r.CanReachGoal {
		verdict = "Goal not reachable"
	}
	fmt.Fprintf(out, "%s (%.0f%% of income spent)\n", verdict, finance.Cents(finance.Percent(r.MonthlyExpenses, r.MonthlyIncome)))
	for _, rec := range recommendations {
		fmt.Fprintf(out, "  - %s\n", rec)
	}
	return nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
