package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/finance"
	"github.com/tallyhq/tally/internal/model"
)

const divider = "======================================"

// topCategoryCount is how many expense categories the yearly ranking shows.
const topCategoryCount = 5

// Config selects currency and locale behavior for report text. Zero values
// fall back to USD, "Jan 2, 2006" ledger dates, and the "en" locale.
type Config struct {
	CurrencyCode string
	DateFormat   string
	Locale       string
}

// ConfigFromPreferences derives a report configuration from stored user
// preferences.
func ConfigFromPreferences(prefs model.UserPreferences) Config {
	return Config{
		CurrencyCode: prefs.CurrencyCode,
		DateFormat:   prefs.DateFormat,
		Locale:       prefs.Locale,
	}
}

// Formatter renders aggregation engine output as plain text. It holds no
// mutable state and is safe to reuse across reports.
type Formatter struct {
	money      moneyFormatter
	dateFormat string
}

// NewFormatter creates a formatter for the given configuration.
func NewFormatter(cfg Config) *Formatter {
	dateFormat := cfg.DateFormat
	if dateFormat == "" {
		dateFormat = "Jan 2, 2006"
	}
	return &Formatter{
		money:      newMoneyFormatter(cfg.CurrencyCode, cfg.Locale),
		dateFormat: dateFormat,
	}
}

// MonthlySummary renders totals, per-category breakdowns, and budget status
// for one period.
func (f *Formatter) MonthlySummary(transactions []model.Transaction, budgets []model.Budget, categories []model.Category, period model.Period) string {
	start, end := period.Start(), period.End()
	idx := finance.NewCategoryIndex(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Monthly Financial Summary for %s\n%s\n\n", start.Format("January 2006"), divider)

	income := finance.TotalIncome(transactions, start, end)
	expenses := finance.TotalExpenses(transactions, start, end)
	savings := income.Sub(expenses)
	rate := finance.SavingsRate(transactions, start, end) * 100

	b.WriteString("INCOME & EXPENSE SUMMARY:\n")
	fmt.Fprintf(&b, "Total Income: %s\n", f.money.Format(income))
	fmt.Fprintf(&b, "Total Expenses: %s\n", f.money.Format(expenses))
	fmt.Fprintf(&b, "Net Savings: %s\n", f.money.Format(savings))
	fmt.Fprintf(&b, "Savings Rate: %.2f%%\n\n", rate)

	b.WriteString("INCOME BREAKDOWN:\n")
	incomeByCategory := finance.GroupByCategory(transactions, start, end, model.TypeIncome, idx)
	if len(incomeByCategory) == 0 {
		b.WriteString("No income recorded for this period.\n\n")
	} else {
		f.writeBreakdown(&b, incomeByCategory, income)
		b.WriteString("\n")
	}

	b.WriteString("EXPENSE BREAKDOWN:\n")
	expensesByCategory := finance.GroupByCategory(transactions, start, end, model.TypeExpense, idx)
	if len(expensesByCategory) == 0 {
		b.WriteString("No expenses recorded for this period.\n\n")
	} else {
		f.writeBreakdown(&b, expensesByCategory, expenses)
		b.WriteString("\n")
	}

	b.WriteString("BUDGET STATUS:\n")
	statuses := finance.BudgetStatuses(transactions, budgets, period, idx)
	if len(statuses) == 0 {
		b.WriteString("No budgets set for this period.\n\n")
	} else {
		for _, st := range statuses {
			fmt.Fprintf(&b, "%s - Planned: %s, Spent: %s (%.1f%%)\n",
				st.CategoryName,
				f.money.Format(st.Budget.PlannedAmount),
				f.money.Format(st.ActualSpent),
				st.PercentSpent)
			if st.OverBudget {
				fmt.Fprintf(&b, "  ⚠️ Over budget by %s\n", f.money.Format(st.Remaining.Abs()))
			} else {
				fmt.Fprintf(&b, "  Remaining: %s\n", f.money.Format(st.Remaining))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// writeBreakdown prints category totals ranked by amount with their share of
// the overall total for that type. Percentage figures are omitted when the
// overall total is zero.
func (f *Formatter) writeBreakdown(b *strings.Builder, totals []finance.CategoryTotal, overall decimal.Decimal) {
	showPercent := !overall.IsZero()
	for _, ct := range finance.RankByAmount(totals, 0) {
		if showPercent {
			share := ct.Amount.Div(overall).InexactFloat64() * 100
			fmt.Fprintf(b, "%s: %s (%.1f%%)\n", ct.Name, f.money.Format(ct.Amount), share)
		} else {
			fmt.Fprintf(b, "%s: %s\n", ct.Name, f.money.Format(ct.Amount))
		}
	}
}

// YearlySummary renders yearly totals, a fixed 12-row month-by-month
// breakdown, and the top expense categories for a calendar year.
func (f *Formatter) YearlySummary(transactions []model.Transaction, categories []model.Category, year int) string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	idx := finance.NewCategoryIndex(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Yearly Financial Summary for %d\n%s\n\n", year, divider)

	income := finance.TotalIncome(transactions, start, end)
	expenses := finance.TotalExpenses(transactions, start, end)
	savings := income.Sub(expenses)
	rate := finance.SavingsRate(transactions, start, end) * 100

	b.WriteString("YEARLY SUMMARY:\n")
	fmt.Fprintf(&b, "Total Income: %s\n", f.money.Format(income))
	fmt.Fprintf(&b, "Total Expenses: %s\n", f.money.Format(expenses))
	fmt.Fprintf(&b, "Net Savings: %s\n", f.money.Format(savings))
	fmt.Fprintf(&b, "Savings Rate: %.2f%%\n\n", rate)

	b.WriteString("MONTHLY BREAKDOWN:\n")
	for _, flow := range finance.MonthlyBreakdown(transactions, year) {
		fmt.Fprintf(&b, "%s: Income = %s, Expenses = %s, Savings = %s\n",
			flow.Period.Start().Format("January"),
			f.money.Format(flow.Income),
			f.money.Format(flow.Expenses),
			f.money.Format(flow.Savings))
	}
	b.WriteString("\n")

	b.WriteString("TOP SPENDING CATEGORIES:\n")
	byCategory := finance.GroupByCategory(transactions, start, end, model.TypeExpense, idx)
	if len(byCategory) == 0 {
		b.WriteString("No expenses recorded for this year.\n")
	} else {
		showPercent := !expenses.IsZero()
		for _, ct := range finance.RankByAmount(byCategory, topCategoryCount) {
			if showPercent {
				share := ct.Amount.Div(expenses).InexactFloat64() * 100
				fmt.Fprintf(&b, "%s: %s (%.1f%%)\n", ct.Name, f.money.Format(ct.Amount), share)
			} else {
				fmt.Fprintf(&b, "%s: %s\n", ct.Name, f.money.Format(ct.Amount))
			}
		}
	}

	return b.String()
}

// Statistics renders derived spending figures for a date range: daily and
// monthly expense averages, the essential share of spending, and a savings
// projection over the trailing projectionMonths months ending today.
func (f *Formatter) Statistics(transactions []model.Transaction, start, end time.Time, projectionMonths int, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spending Statistics: %s to %s\n%s\n\n",
		start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), divider)

	fmt.Fprintf(&b, "Average Daily Expense: %s\n", f.money.Format(finance.AverageDailyExpense(transactions, start, end)))
	fmt.Fprintf(&b, "Average Monthly Expense: %s\n", f.money.Format(finance.AverageMonthlyExpense(transactions, start, end)))
	fmt.Fprintf(&b, "Essential Expense Ratio: %.1f%%\n", finance.EssentialExpenseRatio(transactions, start, end)*100)
	fmt.Fprintf(&b, "Projected Monthly Savings (last %d months): %s\n",
		projectionMonths,
		f.money.Format(finance.ProjectedMonthlySavings(transactions, projectionMonths, today)))

	return b.String()
}

// CashFlow renders every in-range transaction in chronological order with a
// running balance, bracketed by opening and closing balances.
func (f *Formatter) CashFlow(transactions []model.Transaction, categories []model.Category, start, end time.Time) string {
	idx := finance.NewCategoryIndex(categories)
	ledger := finance.BuildLedger(transactions, start, end)

	var b strings.Builder
	fmt.Fprintf(&b, "Cash Flow Report: %s to %s\n%s\n\n",
		start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"), divider)

	fmt.Fprintf(&b, "Opening Balance: %s\n\n", f.money.Format(ledger.OpeningBalance))
	b.WriteString("TRANSACTIONS:\n")
	fmt.Fprintf(&b, "%-12s %-10s %-20s %-30s %10s %15s\n",
		"Date", "Type", "Category", "Description", "Amount", "Balance")
	b.WriteString(strings.Repeat("-", 80))
	b.WriteString("\n")

	for _, row := range ledger.Rows {
		t := row.Transaction
		fmt.Fprintf(&b, "%-12s %-10s %-20s %-30s %10s %15s\n",
			t.Date.Format(f.dateFormat),
			t.Type.DisplayName(),
			idx.Name(t.CategoryID),
			t.Description,
			f.money.Format(t.Amount),
			f.money.Format(row.Balance))
	}

	fmt.Fprintf(&b, "\nClosing Balance: %s\n", f.money.Format(ledger.ClosingBalance))
	fmt.Fprintf(&b, "Net Change: %s\n", f.money.Format(ledger.NetChange))

	return b.String()
}
