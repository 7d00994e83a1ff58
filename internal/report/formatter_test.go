package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Salary", Type: model.CategoryTypeIncome},
		{ID: 2, Name: "Food", Type: model.CategoryTypeExpense},
		{ID: 3, Name: "Transport", Type: model.CategoryTypeExpense},
	}
}

func TestMonthlySummary(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})
	period := model.Period{Year: 2024, Month: time.March}

	txns := []model.Transaction{
		model.NewIncome(decimal.NewFromInt(100), "Paycheck", date(2024, 3, 1), 1, model.SourceSalary),
		model.NewExpense(decimal.NewFromInt(40), "Groceries", date(2024, 3, 10), 2, model.PaymentCash, false),
	}

	out := f.MonthlySummary(txns, nil, testCategories(), period)

	assert.Contains(t, out, "Monthly Financial Summary for March 2024")
	assert.Contains(t, out, "Total Income: $100.00")
	assert.Contains(t, out, "Total Expenses: $40.00")
	assert.Contains(t, out, "Net Savings: $60.00")
	assert.Contains(t, out, "Savings Rate: 60.00%")
	assert.Contains(t, out, "Salary: $100.00 (100.0%)")
	assert.Contains(t, out, "Food: $40.00 (100.0%)")
	assert.Contains(t, out, "No budgets set for this period.")
}

func TestMonthlySummaryOverBudget(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})
	period := model.Period{Year: 2024, Month: time.March}

	txns := []model.Transaction{
		model.NewExpense(decimal.NewFromInt(250), "Groceries", date(2024, 3, 10), 2, model.PaymentCash, false),
	}
	budgets := []model.Budget{
		model.NewBudget(period, 2, decimal.NewFromInt(200), ""),
	}

	out := f.MonthlySummary(txns, budgets, testCategories(), period)

	assert.Contains(t, out, "Food - Planned: $200.00, Spent: $250.00 (125.0%)")
	assert.Contains(t, out, "⚠️ Over budget by $50.00")
	assert.NotContains(t, out, "Remaining:")
}

func TestMonthlySummaryUnderBudget(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})
	period := model.Period{Year: 2024, Month: time.March}

	txns := []model.Transaction{
		model.NewExpense(decimal.NewFromInt(120), "Groceries", date(2024, 3, 10), 2, model.PaymentCash, false),
	}
	budgets := []model.Budget{
		model.NewBudget(period, 2, decimal.NewFromInt(200), ""),
	}

	out := f.MonthlySummary(txns, budgets, testCategories(), period)

	assert.Contains(t, out, "Food - Planned: $200.00, Spent: $120.00 (60.0%)")
	assert.Contains(t, out, "Remaining: $80.00")
}

func TestMonthlySummaryEmptyPeriod(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})
	period := model.Period{Year: 2024, Month: time.March}

	out := f.MonthlySummary(nil, nil, testCategories(), period)

	assert.Contains(t, out, "Total Income: $0.00")
	assert.Contains(t, out, "Savings Rate: 0.00%")
	assert.Contains(t, out, "No income recorded for this period.")
	assert.Contains(t, out, "No expenses recorded for this period.")
}

func TestMonthlySummaryIsDeterministic(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "EUR", Locale: "de"})
	period := model.Period{Year: 2024, Month: time.March}

	txns := []model.Transaction{
		model.NewIncome(decimal.RequireFromString("1234.56"), "Paycheck", date(2024, 3, 1), 1, model.SourceSalary),
		model.NewExpense(decimal.NewFromInt(40), "Groceries", date(2024, 3, 10), 2, model.PaymentCash, false),
	}

	first := f.MonthlySummary(txns, nil, testCategories(), period)
	second := f.MonthlySummary(txns, nil, testCategories(), period)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Total Income: €1.234,56")
}

func TestYearlySummary(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})

	txns := []model.Transaction{
		model.NewIncome(decimal.NewFromInt(1000), "Paycheck", date(2024, 1, 5), 1, model.SourceSalary),
		model.NewExpense(decimal.NewFromInt(300), "Groceries", date(2024, 1, 20), 2, model.PaymentCash, false),
		model.NewExpense(decimal.NewFromInt(100), "Bus pass", date(2024, 6, 10), 3, model.PaymentDebitCard, false),
	}

	out := f.YearlySummary(txns, testCategories(), 2024)

	assert.Contains(t, out, "Yearly Financial Summary for 2024")
	assert.Contains(t, out, "Total Income: $1,000.00")
	assert.Contains(t, out, "Total Expenses: $400.00")

	// All 12 months appear, including empty ones.
	for m := time.January; m <= time.December; m++ {
		assert.Contains(t, out, m.String()+": Income =")
	}
	assert.Contains(t, out, "February: Income = $0.00, Expenses = $0.00, Savings = $0.00")

	assert.Contains(t, out, "TOP SPENDING CATEGORIES:")
	assert.Contains(t, out, "Food: $300.00 (75.0%)")
	assert.Contains(t, out, "Transport: $100.00 (25.0%)")
}

func TestCashFlow(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})

	txns := []model.Transaction{
		model.NewIncome(decimal.NewFromInt(500), "Opening deposit", date(2024, 2, 1), 1, model.SourceSalary),
		model.NewExpense(decimal.NewFromInt(100), "Groceries", date(2024, 3, 5), 2, model.PaymentCash, false),
		model.NewExpense(decimal.NewFromInt(50), "Bus pass", date(2024, 3, 10), 3, model.PaymentDebitCard, false),
	}

	out := f.CashFlow(txns, testCategories(), date(2024, 3, 1), date(2024, 3, 31))

	assert.Contains(t, out, "Cash Flow Report: Mar 1, 2024 to Mar 31, 2024")
	assert.Contains(t, out, "Opening Balance: $500.00")
	assert.Contains(t, out, "Closing Balance: $350.00")
	assert.Contains(t, out, "Net Change: -$150.00")

	// The groceries row precedes the bus pass row.
	groceries := strings.Index(out, "Groceries")
	busPass := strings.Index(out, "Bus pass")
	require.Positive(t, groceries)
	require.Positive(t, busPass)
	assert.Less(t, groceries, busPass)
}

func TestStatistics(t *testing.T) {
	f := NewFormatter(Config{CurrencyCode: "USD", Locale: "en"})

	rent := model.NewExpense(decimal.NewFromInt(279), "Rent", date(2024, 3, 1), 2, model.PaymentBankTransfer, true)
	fun := model.NewExpense(decimal.NewFromInt(31), "Concert", date(2024, 3, 10), 3, model.PaymentCreditCard, false)

	out := f.Statistics([]model.Transaction{rent, fun}, date(2024, 3, 1), date(2024, 3, 31), 3, date(2024, 4, 15))

	assert.Contains(t, out, "Average Daily Expense: $10.00")
	assert.Contains(t, out, "Essential Expense Ratio: 90.0%")
	assert.Contains(t, out, "Projected Monthly Savings (last 3 months):")
}
