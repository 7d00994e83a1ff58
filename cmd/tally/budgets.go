package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/cli"
	"github.com/tallyhq/tally/internal/finance"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budgets",
		Long:  `Set, list, and delete per-category monthly budgets.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "set <period> <category> <amount>",
		Short: "Create a budget for a category and month",
		Long: `Create a budget. At most one budget may exist per period and category.

Example:
  tally budget set 2024-03 Food 400`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			period, err := model.ParsePeriod(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := resolveCategory(ctx, store, args[1])
			if err != nil {
				return err
			}

			budget := model.NewBudget(period, cat.ID, amount, notes)
			if err := store.CreateBudget(ctx, &budget); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget set: %s for %s in %s", amount, cat.Name, period)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var periodStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets with their status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var budgets []model.Budget
			if periodStr != "" {
				period, err := model.ParsePeriod(periodStr)
				if err != nil {
					return err
				}
				budgets, err = store.ListBudgets(ctx, period)
				if err != nil {
					return err
				}
				return printBudgetStatuses(cmd, store, budgets, period)
			}

			budgets, err = store.GetAllBudgets(ctx)
			if err != nil {
				return err
			}
			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets set. Use 'tally budget set' to create one."))
				return nil
			}

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}
			idx := finance.NewCategoryIndex(categories)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tPeriod\tCategory\tPlanned")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8), strings.Repeat("-", 7),
				strings.Repeat("-", 14), strings.Repeat("-", 10))
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					shortID(b.ID), b.Period, idx.Name(b.CategoryID), b.PlannedAmount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&periodStr, "period", "p", "", "show status for one period (YYYY-MM)")

	return cmd
}

// printBudgetStatuses shows budgets for one period with recomputed spending.
func printBudgetStatuses(cmd *cobra.Command, store service.Storage, budgets []model.Budget, period model.Period) error {
	ctx := cmd.Context()

	if len(budgets) == 0 {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No budgets set for %s.", period)))
		return nil
	}

	transactions, err := store.ListTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return err
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}
	idx := finance.NewCategoryIndex(categories)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tCategory\tPlanned\tSpent\tRemaining\t")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
		strings.Repeat("-", 8), strings.Repeat("-", 14), strings.Repeat("-", 10),
		strings.Repeat("-", 10), strings.Repeat("-", 10))

	for _, st := range finance.BudgetStatuses(transactions, budgets, period, idx) {
		flag := ""
		if st.OverBudget {
			flag = cli.OverBudgetStyle.Render("OVER")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(st.Budget.ID),
			st.CategoryName,
			st.Budget.PlannedAmount.StringFixed(2),
			st.ActualSpent.StringFixed(2),
			st.Remaining.StringFixed(2),
			flag)
	}
	return nil
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteBudget(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Budget deleted"))
			return nil
		},
	}
}
