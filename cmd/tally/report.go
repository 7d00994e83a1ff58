package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/report"
	"github.com/tallyhq/tally/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate financial reports",
		Long:  `Generate monthly, yearly, cash-flow, and statistics reports from recorded transactions.`,
	}

	cmd.AddCommand(monthlyReportCmd())
	cmd.AddCommand(yearlyReportCmd())
	cmd.AddCommand(cashflowReportCmd())
	cmd.AddCommand(statsReportCmd())

	return cmd
}

func monthlyReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly [period]",
		Short: "Monthly summary with category breakdowns and budget status",
		Long: `Render the monthly summary for a period. Defaults to the current month.

Example:
  tally report monthly 2024-03`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			period := model.PeriodOf(today())
			if len(args) == 1 {
				var err error
				if period, err = model.ParsePeriod(args[0]); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			transactions, budgets, categories, err := loadReportData(cmd, store)
			if err != nil {
				return err
			}

			cfg, err := loadReportConfig(ctx, store)
			if err != nil {
				return err
			}

			fmt.Print(report.NewFormatter(cfg).MonthlySummary(transactions, budgets, categories, period))
			return nil
		},
	}
}

func yearlyReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yearly [year]",
		Short: "Yearly summary with month-by-month breakdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			year := today().Year()
			if len(args) == 1 {
				var err error
				if year, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			transactions, _, categories, err := loadReportData(cmd, store)
			if err != nil {
				return err
			}

			cfg, err := loadReportConfig(ctx, store)
			if err != nil {
				return err
			}

			fmt.Print(report.NewFormatter(cfg).YearlySummary(transactions, categories, year))
			return nil
		},
	}
}

func cashflowReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cashflow <from> <to>",
		Short: "Chronological transaction ledger with running balance",
		Long: `Render every transaction between two dates with a running balance.

Example:
  tally report cashflow 2024-03-01 2024-03-31`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			start, err := parseDate(args[0])
			if err != nil {
				return err
			}
			end, err := parseDate(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			transactions, _, categories, err := loadReportData(cmd, store)
			if err != nil {
				return err
			}

			cfg, err := loadReportConfig(ctx, store)
			if err != nil {
				return err
			}

			fmt.Print(report.NewFormatter(cfg).CashFlow(transactions, categories, start, end))
			return nil
		},
	}
}

func statsReportCmd() *cobra.Command {
	var monthsBack int

	cmd := &cobra.Command{
		Use:   "stats <from> <to>",
		Short: "Spending statistics for a date range",
		Long: `Show derived statistics for a range: average daily and monthly expenses,
the share of spending flagged essential, and projected monthly savings based
on recent history.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			start, err := parseDate(args[0])
			if err != nil {
				return err
			}
			end, err := parseDate(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			transactions, err := store.ListTransactions(ctx, service.TransactionFilter{})
			if err != nil {
				return err
			}

			cfg, err := loadReportConfig(ctx, store)
			if err != nil {
				return err
			}
			f := report.NewFormatter(cfg)

			fmt.Print(f.Statistics(transactions, start, end, monthsBack, today()))
			return nil
		},
	}

	cmd.Flags().IntVar(&monthsBack, "projection-months", 3, "trailing months used for the savings projection")

	return cmd
}

// loadReportData fetches the three inputs every report needs in one place.
func loadReportData(cmd *cobra.Command, store service.Storage) ([]model.Transaction, []model.Budget, []model.Category, error) {
	ctx := cmd.Context()

	transactions, err := store.ListTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, nil, nil, err
	}
	budgets, err := store.GetAllBudgets(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return transactions, budgets, categories, nil
}
