// Package finance implements the aggregation engine: pure, stateless
// functions over in-memory transaction and budget collections. Inputs are
// treated as read-only snapshots and are never mutated; empty inputs yield
// the additive identity rather than an error.
package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// CategoryTotal is one category's summed amount within a date range. Slices
// of CategoryTotal preserve the order in which each category first appeared
// in the input, which makes ranked breakdowns deterministic.
type CategoryTotal struct {
	Name       string
	Amount     decimal.Decimal
	CategoryID int
}

// BudgetStatus compares one budget's planned amount against the expenses
// actually recorded for its category and period.
type BudgetStatus struct {
	Budget       model.Budget
	CategoryName string
	ActualSpent  decimal.Decimal
	Remaining    decimal.Decimal
	PercentSpent float64
	OverBudget   bool
}

// MonthlyFlow is one month's totals in a yearly breakdown.
type MonthlyFlow struct {
	Period   model.Period
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Savings  decimal.Decimal
}

// LedgerRow is a single transaction with the running balance after applying
// its signed amount.
type LedgerRow struct {
	Transaction model.Transaction
	Balance     decimal.Decimal
}

// Ledger lists a date range's transactions in chronological order with
// running balances starting from the opening balance.
type Ledger struct {
	Rows           []LedgerRow
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	NetChange      decimal.Decimal
}

// CategoryIndex resolves category ids to display names. Lookups that miss
// return the "Unknown" sentinel so reports stay generable when budgets or
// transactions reference deleted categories.
type CategoryIndex struct {
	byID   map[int]model.Category
	byName map[string]model.Category
}

// NewCategoryIndex builds an index over a category snapshot.
func NewCategoryIndex(categories []model.Category) *CategoryIndex {
	idx := &CategoryIndex{
		byID:   make(map[int]model.Category, len(categories)),
		byName: make(map[string]model.Category, len(categories)),
	}
	for _, c := range categories {
		idx.byID[c.ID] = c
		idx.byName[strings.ToLower(c.Name)] = c
	}
	return idx
}

// Name returns the category's display name, or the "Unknown" sentinel when
// the id does not resolve.
func (idx *CategoryIndex) Name(id int) string {
	if c, ok := idx.byID[id]; ok {
		return c.Name
	}
	return model.UnknownCategoryLabel
}

// Lookup returns the category for an id.
func (idx *CategoryIndex) Lookup(id int) (model.Category, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// LookupName finds a category by name, case-insensitively.
func (idx *CategoryIndex) LookupName(name string) (model.Category, bool) {
	c, ok := idx.byName[strings.ToLower(name)]
	return c, ok
}
