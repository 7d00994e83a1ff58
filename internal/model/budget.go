package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNonPositiveBudget rejects budgets with a zero or negative planned amount.
var ErrNonPositiveBudget = errors.New("planned amount must be positive")

// Budget caps spending for one category in one period. At most one budget may
// exist per (period, category) pair.
//
// Spent is a display hint persisted alongside the budget; it can drift from
// the transaction set and is never used when computing budget status. The
// actual spent amount is always recomputed from transactions.
type Budget struct {
	ID            string
	Notes         string
	Period        Period
	PlannedAmount decimal.Decimal
	Spent         decimal.Decimal
	CategoryID    int
}

// NewBudget creates a budget with a fresh identifier.
func NewBudget(period Period, categoryID int, plannedAmount decimal.Decimal, notes string) Budget {
	return Budget{
		ID:            uuid.NewString(),
		Period:        period,
		CategoryID:    categoryID,
		PlannedAmount: plannedAmount,
		Notes:         notes,
	}
}

// Validate checks the construction invariants.
func (b *Budget) Validate() error {
	if b.Period.IsZero() {
		return errors.New("budget period is required")
	}
	if b.PlannedAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s", ErrNonPositiveBudget, b.PlannedAmount)
	}
	return nil
}
