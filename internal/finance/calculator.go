package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// inRange reports whether the date falls inside [start, end], inclusive on
// both ends.
func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

// totalByType sums amounts of the given type within [start, end].
func totalByType(transactions []model.Transaction, start, end time.Time, typ model.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == typ && inRange(t.Date, start, end) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncome sums income amounts within [start, end].
func TotalIncome(transactions []model.Transaction, start, end time.Time) decimal.Decimal {
	return totalByType(transactions, start, end, model.TypeIncome)
}

// TotalExpenses sums expense amounts within [start, end].
func TotalExpenses(transactions []model.Transaction, start, end time.Time) decimal.Decimal {
	return totalByType(transactions, start, end, model.TypeExpense)
}

// NetSavings is income minus expenses for the range.
func NetSavings(transactions []model.Transaction, start, end time.Time) decimal.Decimal {
	return TotalIncome(transactions, start, end).Sub(TotalExpenses(transactions, start, end))
}

// SavingsRate is net savings divided by total income, or 0 when there is no
// income in range.
func SavingsRate(transactions []model.Transaction, start, end time.Time) float64 {
	income := TotalIncome(transactions, start, end)
	if income.IsZero() {
		return 0
	}
	return NetSavings(transactions, start, end).Div(income).InexactFloat64()
}

// GroupByCategory sums amounts per category for the given type and range.
// Categories with no matching transactions are absent from the result. The
// returned slice preserves first-occurrence order.
func GroupByCategory(transactions []model.Transaction, start, end time.Time, typ model.TransactionType, idx *CategoryIndex) []CategoryTotal {
	var totals []CategoryTotal
	position := make(map[int]int)

	for _, t := range transactions {
		if t.Type != typ || !inRange(t.Date, start, end) {
			continue
		}
		if i, seen := position[t.CategoryID]; seen {
			totals[i].Amount = totals[i].Amount.Add(t.Amount)
			continue
		}
		position[t.CategoryID] = len(totals)
		totals = append(totals, CategoryTotal{
			CategoryID: t.CategoryID,
			Name:       idx.Name(t.CategoryID),
			Amount:     t.Amount,
		})
	}
	return totals
}

// RankByAmount orders category totals by amount descending. The sort is
// stable, so equal amounts keep their first-occurrence order. A limit of 0
// or less means no limit.
func RankByAmount(totals []CategoryTotal, limit int) []CategoryTotal {
	ranked := make([]CategoryTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BudgetStatuses evaluates every budget whose period matches. Budgets for
// other periods are excluded, not zeroed. Budgets referencing a deleted
// category are still evaluated; their name resolves to the "Unknown"
// sentinel. The stored spent hint on the budget is ignored: actual spending
// is recomputed from the transaction set.
func BudgetStatuses(transactions []model.Transaction, budgets []model.Budget, period model.Period, idx *CategoryIndex) []BudgetStatus {
	start, end := period.Start(), period.End()
	expenses := GroupByCategory(transactions, start, end, model.TypeExpense, idx)

	spentByCategory := make(map[int]decimal.Decimal, len(expenses))
	for _, ct := range expenses {
		spentByCategory[ct.CategoryID] = ct.Amount
	}

	var statuses []BudgetStatus
	for _, b := range budgets {
		if b.Period != period {
			continue
		}
		actual, ok := spentByCategory[b.CategoryID]
		if !ok {
			actual = decimal.Zero
		}
		remaining := b.PlannedAmount.Sub(actual)
		percent := 0.0
		if !b.PlannedAmount.IsZero() {
			percent = actual.Div(b.PlannedAmount).InexactFloat64() * 100
		}
		statuses = append(statuses, BudgetStatus{
			Budget:       b,
			CategoryName: idx.Name(b.CategoryID),
			ActualSpent:  actual,
			Remaining:    remaining,
			PercentSpent: percent,
			OverBudget:   remaining.IsNegative(),
		})
	}
	return statuses
}

// daysInclusive counts calendar days in [start, end], both ends included.
func daysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// monthsInclusive counts calendar months spanned by [start, end], both ends
// included.
func monthsInclusive(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()-start.Month()) + 1
}

// AverageDailyExpense is total expenses divided by the inclusive day count,
// or 0 for an empty or inverted range.
func AverageDailyExpense(transactions []model.Transaction, start, end time.Time) decimal.Decimal {
	days := daysInclusive(start, end)
	if days <= 0 {
		return decimal.Zero
	}
	return TotalExpenses(transactions, start, end).Div(decimal.NewFromInt(int64(days)))
}

// AverageMonthlyExpense divides total expenses by the inclusive count of
// calendar months spanned. Partial first and last months count as whole
// months; a range within one month returns the total unchanged.
func AverageMonthlyExpense(transactions []model.Transaction, start, end time.Time) decimal.Decimal {
	total := TotalExpenses(transactions, start, end)
	if start.Year() == end.Year() && start.Month() == end.Month() {
		return total
	}
	months := monthsInclusive(start, end)
	if months <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(months)))
}

// ProjectedMonthlySavings averages net savings over the given number of
// trailing months, measured from the first day of the month monthsBack
// months before today through today.
func ProjectedMonthlySavings(transactions []model.Transaction, monthsBack int, today time.Time) decimal.Decimal {
	if monthsBack <= 0 {
		return decimal.Zero
	}
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -monthsBack, 0)
	return NetSavings(transactions, start, today).Div(decimal.NewFromInt(int64(monthsBack)))
}

// EssentialExpenseRatio is the share of in-range expenses flagged essential,
// or 0 when there are no expenses in range.
func EssentialExpenseRatio(transactions []model.Transaction, start, end time.Time) float64 {
	essential := decimal.Zero
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type != model.TypeExpense || !inRange(t.Date, start, end) {
			continue
		}
		total = total.Add(t.Amount)
		if t.Essential {
			essential = essential.Add(t.Amount)
		}
	}
	if total.IsZero() {
		return 0
	}
	return essential.Div(total).InexactFloat64()
}

// RunningBalance is the signed cumulative sum of all transactions strictly
// before asOfDate: income positive, expense negative. Used as the opening
// balance for ledger reports.
func RunningBalance(transactions []model.Transaction, asOfDate time.Time) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		if t.Date.Before(asOfDate) {
			balance = balance.Add(t.SignedAmount())
		}
	}
	return balance
}

// MonthlyBreakdown computes income, expenses, and savings for each of the 12
// months of a calendar year, whether or not a month has data.
func MonthlyBreakdown(transactions []model.Transaction, year int) []MonthlyFlow {
	flows := make([]MonthlyFlow, 0, 12)
	for m := time.January; m <= time.December; m++ {
		p := model.Period{Year: year, Month: m}
		income := TotalIncome(transactions, p.Start(), p.End())
		expenses := TotalExpenses(transactions, p.Start(), p.End())
		flows = append(flows, MonthlyFlow{
			Period:   p,
			Income:   income,
			Expenses: expenses,
			Savings:  income.Sub(expenses),
		})
	}
	return flows
}
