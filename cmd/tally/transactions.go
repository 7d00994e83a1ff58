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

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, list, and delete income and expense transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType    string
		dateStr   string
		category  string
		notes     string
		source    string
		method    string
		essential bool
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Add a transaction",
		Long: `Record an income or expense transaction.

Examples:
  tally tx add 2500 "Paycheck" --type income --category Salary --date 2024-03-01
  tally tx add 42.50 "Groceries" --type expense --category Food --essential`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			description := args[1]

			date := today()
			if dateStr != "" {
				if date, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := resolveCategory(ctx, store, category)
			if err != nil {
				return err
			}

			var txn model.Transaction
			switch model.TransactionType(txType) {
			case model.TypeIncome:
				txn = model.NewIncome(amount, description, date, cat.ID, model.IncomeSource(source))
			case model.TypeExpense:
				txn = model.NewExpense(amount, description, date, cat.ID, model.PaymentMethod(method), essential)
			default:
				return fmt.Errorf("invalid type %q (want income or expense)", txType)
			}
			txn.Notes = notes

			if !cat.ApplicableTo(txn.Type) {
				return fmt.Errorf("category %q is not applicable to %s transactions", cat.Name, txn.Type)
			}

			if err := store.SaveTransaction(ctx, &txn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s (%s)", txn.Type, amount, description)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (default: Uncategorized)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	cmd.Flags().StringVar(&source, "source", string(model.SourceOther), "income source (salary, investment, business, other)")
	cmd.Flags().StringVar(&method, "method", string(model.PaymentOther), "payment method (cash, credit_card, debit_card, bank_transfer, other)")
	cmd.Flags().BoolVar(&essential, "essential", false, "mark the expense as essential")

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		fromStr  string
		toStr    string
		txType   string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := service.TransactionFilter{Limit: limit}
			if fromStr != "" {
				from, err := parseDate(fromStr)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := parseDate(toStr)
				if err != nil {
					return err
				}
				filter.EndDate = &to
			}
			if txType != "" {
				filter.Type = model.TransactionType(txType)
				if !filter.Type.Valid() {
					return fmt.Errorf("invalid type %q (want income or expense)", txType)
				}
			}
			if category != "" {
				cat, err := resolveCategory(ctx, store, category)
				if err != nil {
					return err
				}
				filter.CategoryID = cat.ID
			}

			txns, err := store.ListTransactions(ctx, filter)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}
			idx := finance.NewCategoryIndex(categories)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tDate\tType\tCategory\tAmount\tDescription")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8), strings.Repeat("-", 10), strings.Repeat("-", 7),
				strings.Repeat("-", 14), strings.Repeat("-", 10), strings.Repeat("-", 24))
			for _, t := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(t.ID),
					t.Date.Format("2006-01-02"),
					t.Type.DisplayName(),
					idx.Name(t.CategoryID),
					t.Amount.StringFixed(2),
					t.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category name")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum rows to show (0 = all)")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}

// shortID truncates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
