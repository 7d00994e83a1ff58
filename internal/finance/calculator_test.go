package finance

import (
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

func income(amount string, day time.Time, categoryID int) model.Transaction {
	return model.NewIncome(decimal.RequireFromString(amount), "income", day, categoryID, model.SourceSalary)
}

func expense(amount string, day time.Time, categoryID int) model.Transaction {
	return model.NewExpense(decimal.RequireFromString(amount), "expense", day, categoryID, model.PaymentCash, false)
}

func testCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Salary", Type: model.CategoryTypeIncome},
		{ID: 2, Name: "Food", Type: model.CategoryTypeExpense},
		{ID: 3, Name: "Transport", Type: model.CategoryTypeExpense},
	}
}

func TestTotalsAndSavings(t *testing.T) {
	txns := []model.Transaction{
		income("2500", date(2024, 3, 1), 1),
		expense("400", date(2024, 3, 5), 2),
		expense("100", date(2024, 3, 20), 3),
		income("1000", date(2024, 4, 1), 1), // outside range
	}
	start, end := date(2024, 3, 1), date(2024, 3, 31)

	assert.True(t, TotalIncome(txns, start, end).Equal(decimal.NewFromInt(2500)))
	assert.True(t, TotalExpenses(txns, start, end).Equal(decimal.NewFromInt(500)))
	assert.True(t, NetSavings(txns, start, end).Equal(decimal.NewFromInt(2000)))
	assert.InDelta(t, 0.8, SavingsRate(txns, start, end), 1e-9)
}

func TestRangeBoundsAreInclusive(t *testing.T) {
	txns := []model.Transaction{
		expense("10", date(2024, 3, 1), 2),
		expense("20", date(2024, 3, 31), 2),
		expense("40", date(2024, 2, 29), 2),
		expense("80", date(2024, 4, 1), 2),
	}

	total := TotalExpenses(txns, date(2024, 3, 1), date(2024, 3, 31))
	assert.True(t, total.Equal(decimal.NewFromInt(30)))
}

func TestRangeAdditivity(t *testing.T) {
	// Splitting a range at a day boundary must partition the total.
	txns := []model.Transaction{
		expense("10", date(2024, 3, 3), 2),
		expense("20", date(2024, 3, 10), 2),
		expense("40", date(2024, 3, 15), 3),
		expense("80", date(2024, 3, 28), 2),
	}

	whole := TotalExpenses(txns, date(2024, 3, 1), date(2024, 3, 31))
	first := TotalExpenses(txns, date(2024, 3, 1), date(2024, 3, 15))
	second := TotalExpenses(txns, date(2024, 3, 16), date(2024, 3, 31))

	assert.True(t, whole.Equal(first.Add(second)))
}

func TestSavingsRateWithNoIncome(t *testing.T) {
	txns := []model.Transaction{
		expense("100", date(2024, 3, 5), 2),
	}

	rate := SavingsRate(txns, date(2024, 3, 1), date(2024, 3, 31))
	assert.Zero(t, rate)
}

func TestGroupByCategory(t *testing.T) {
	idx := NewCategoryIndex(testCategories())
	txns := []model.Transaction{
		expense("30", date(2024, 3, 1), 2),
		expense("15", date(2024, 3, 2), 3),
		expense("20", date(2024, 3, 10), 2),
		income("2500", date(2024, 3, 1), 1),
	}

	totals := GroupByCategory(txns, date(2024, 3, 1), date(2024, 3, 31), model.TypeExpense, idx)
	require.Len(t, totals, 2)

	// First-occurrence order, not alphabetical.
	assert.Equal(t, "Food", totals[0].Name)
	assert.True(t, totals[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Transport", totals[1].Name)
	assert.True(t, totals[1].Amount.Equal(decimal.NewFromInt(15)))
}

func TestGroupByCategoryOmitsEmptyCategories(t *testing.T) {
	idx := NewCategoryIndex(testCategories())
	txns := []model.Transaction{
		expense("30", date(2024, 3, 1), 2),
	}

	totals := GroupByCategory(txns, date(2024, 3, 1), date(2024, 3, 31), model.TypeExpense, idx)
	require.Len(t, totals, 1)
	for _, ct := range totals {
		assert.False(t, ct.Amount.IsZero())
	}
}

func TestGroupByCategoryUnknownID(t *testing.T) {
	idx := NewCategoryIndex(testCategories())
	txns := []model.Transaction{
		expense("30", date(2024, 3, 1), 999),
	}

	totals := GroupByCategory(txns, date(2024, 3, 1), date(2024, 3, 31), model.TypeExpense, idx)
	require.Len(t, totals, 1)
	assert.Equal(t, model.UnknownCategoryLabel, totals[0].Name)
}

func TestRankByAmount(t *testing.T) {
	totals := []CategoryTotal{
		{Name: "Food", Amount: decimal.NewFromInt(50), CategoryID: 2},
		{Name: "Transport", Amount: decimal.NewFromInt(80), CategoryID: 3},
		{Name: "Fun", Amount: decimal.NewFromInt(50), CategoryID: 4},
	}

	ranked := RankByAmount(totals, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Transport", ranked[0].Name)
	// Ties keep first-occurrence order.
	assert.Equal(t, "Food", ranked[1].Name)
	assert.Equal(t, "Fun", ranked[2].Name)

	// Input order is untouched.
	assert.Equal(t, "Food", totals[0].Name)

	top2 := RankByAmount(totals, 2)
	require.Len(t, top2, 2)
	assert.Equal(t, "Transport", top2[0].Name)
}

func TestBudgetStatuses(t *testing.T) {
	idx := NewCategoryIndex(testCategories())
	period := model.Period{Year: 2024, Month: time.March}

	txns := []model.Transaction{
		expense("250", date(2024, 3, 10), 2),
		expense("60", date(2024, 3, 12), 3),
		expense("500", date(2024, 4, 1), 2), // other period
	}
	budgets := []model.Budget{
		model.NewBudget(period, 2, decimal.NewFromInt(200), ""),
		model.NewBudget(period, 3, decimal.NewFromInt(100), ""),
		model.NewBudget(model.Period{Year: 2024, Month: time.April}, 2, decimal.NewFromInt(300), ""),
	}

	statuses := BudgetStatuses(txns, budgets, period, idx)
	require.Len(t, statuses, 2)

	food := statuses[0]
	assert.Equal(t, "Food", food.CategoryName)
	assert.True(t, food.ActualSpent.Equal(decimal.NewFromInt(250)))
	assert.True(t, food.Remaining.Equal(decimal.NewFromInt(-50)))
	assert.True(t, food.OverBudget)
	assert.InDelta(t, 125.0, food.PercentSpent, 1e-9)

	transport := statuses[1]
	assert.True(t, transport.Remaining.Equal(decimal.NewFromInt(40)))
	assert.False(t, transport.OverBudget)
	assert.InDelta(t, 60.0, transport.PercentSpent, 1e-9)
}

func TestBudgetStatusIgnoresStoredSpent(t *testing.T) {
	idx := NewCategoryIndex(testCategories())
	period := model.Period{Year: 2024, Month: time.March}

	budget := model.NewBudget(period, 2, decimal.NewFromInt(200), "")
	budget.Spent = decimal.NewFromInt(9999) // stale display hint

	statuses := BudgetStatuses(nil, []model.Budget{budget}, period, idx)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].ActualSpent.IsZero())
	assert.False(t, statuses[0].OverBudget)
}

func TestAverageDailyExpense(t *testing.T) {
	txns := []model.Transaction{
		expense("310", date(2024, 3, 10), 2),
	}

	avg := AverageDailyExpense(txns, date(2024, 3, 1), date(2024, 3, 31))
	assert.True(t, avg.Equal(decimal.NewFromInt(10)))

	// Inverted range yields zero.
	assert.True(t, AverageDailyExpense(txns, date(2024, 3, 31), date(2024, 3, 1)).IsZero())
}

func TestAverageMonthlyExpense(t *testing.T) {
	txns := []model.Transaction{
		expense("100", date(2024, 1, 15), 2),
		expense("200", date(2024, 2, 15), 2),
		expense("300", date(2024, 3, 15), 2),
	}

	// Three calendar months spanned, partial or not.
	avg := AverageMonthlyExpense(txns, date(2024, 1, 10), date(2024, 3, 20))
	assert.True(t, avg.Equal(decimal.NewFromInt(200)))

	// A range within one month returns the total unchanged.
	within := AverageMonthlyExpense(txns, date(2024, 2, 1), date(2024, 2, 28))
	assert.True(t, within.Equal(decimal.NewFromInt(200)))
}

func TestProjectedMonthlySavings(t *testing.T) {
	today := date(2024, 4, 15)
	txns := []model.Transaction{
		income("1000", date(2024, 1, 5), 1),
		expense("400", date(2024, 1, 20), 2),
		income("1000", date(2024, 2, 5), 1),
		expense("400", date(2024, 2, 20), 2),
		income("1000", date(2024, 3, 5), 1),
		expense("400", date(2024, 3, 20), 2),
	}

	projected := ProjectedMonthlySavings(txns, 3, today)
	assert.True(t, projected.Equal(decimal.NewFromInt(600)))

	assert.True(t, ProjectedMonthlySavings(txns, 0, today).IsZero())
}

func TestEssentialExpenseRatio(t *testing.T) {
	rent := model.NewExpense(decimal.NewFromInt(900), "Rent", date(2024, 3, 1), 2, model.PaymentBankTransfer, true)
	fun := model.NewExpense(decimal.NewFromInt(100), "Concert", date(2024, 3, 10), 3, model.PaymentCreditCard, false)

	ratio := EssentialExpenseRatio([]model.Transaction{rent, fun}, date(2024, 3, 1), date(2024, 3, 31))
	assert.InDelta(t, 0.9, ratio, 1e-9)

	assert.Zero(t, EssentialExpenseRatio(nil, date(2024, 3, 1), date(2024, 3, 31)))
}

func TestRunningBalance(t *testing.T) {
	txns := []model.Transaction{
		income("500", date(2024, 2, 1), 1),
		expense("100", date(2024, 2, 15), 2),
		expense("50", date(2024, 3, 1), 2), // on the as-of date, excluded
	}

	balance := RunningBalance(txns, date(2024, 3, 1))
	assert.True(t, balance.Equal(decimal.NewFromInt(400)))
}

func TestMonthlyBreakdown(t *testing.T) {
	txns := []model.Transaction{
		income("1000", date(2024, 1, 5), 1),
		expense("300", date(2024, 1, 20), 2),
		expense("50", date(2024, 6, 10), 2),
	}

	flows := MonthlyBreakdown(txns, 2024)
	require.Len(t, flows, 12)

	jan := flows[0]
	assert.Equal(t, model.Period{Year: 2024, Month: time.January}, jan.Period)
	assert.True(t, jan.Savings.Equal(decimal.NewFromInt(700)))

	// Empty months still appear, zeroed.
	assert.True(t, flows[1].Income.IsZero())
	assert.True(t, flows[1].Expenses.IsZero())

	assert.True(t, flows[5].Expenses.Equal(decimal.NewFromInt(50)))
}
