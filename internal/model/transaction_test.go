package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		txn     Transaction
		wantErr error
	}{
		{
			name: "valid income",
			txn:  NewIncome(decimal.NewFromInt(2500), "Paycheck", date, 1, SourceSalary),
		},
		{
			name: "valid expense",
			txn:  NewExpense(decimal.RequireFromString("42.50"), "Groceries", date, 2, PaymentDebitCard, true),
		},
		{
			name:    "zero amount",
			txn:     NewExpense(decimal.Zero, "Groceries", date, 2, PaymentCash, false),
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "negative amount",
			txn:     NewIncome(decimal.NewFromInt(-10), "Refund", date, 1, SourceOther),
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "blank description",
			txn:     NewExpense(decimal.NewFromInt(10), "   ", date, 2, PaymentCash, false),
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "missing date",
			txn:     NewExpense(decimal.NewFromInt(10), "Groceries", time.Time{}, 2, PaymentCash, false),
			wantErr: ErrMissingDate,
		},
		{
			name:    "invalid type",
			txn:     Transaction{Type: "transfer", Amount: decimal.NewFromInt(10), Description: "x", Date: date},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionConstructors(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	income := NewIncome(decimal.NewFromInt(100), "Dividend", date, 3, SourceInvestment)
	require.NotEmpty(t, income.ID)
	assert.Equal(t, TypeIncome, income.Type)
	assert.Equal(t, SourceInvestment, income.Source)

	expense := NewExpense(decimal.NewFromInt(50), "Gas", date, 4, PaymentCreditCard, false)
	require.NotEmpty(t, expense.ID)
	assert.Equal(t, TypeExpense, expense.Type)
	assert.Equal(t, PaymentCreditCard, expense.PaymentMethod)
	assert.NotEqual(t, income.ID, expense.ID)
}

func TestSignedAmount(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	income := NewIncome(decimal.NewFromInt(100), "Paycheck", date, 1, SourceSalary)
	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(100)))

	expense := NewExpense(decimal.NewFromInt(40), "Groceries", date, 2, PaymentCash, false)
	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-40)))
}

func TestTransactionTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Income", TypeIncome.DisplayName())
	assert.Equal(t, "Expense", TypeExpense.DisplayName())
	assert.Equal(t, "transfer", TransactionType("transfer").DisplayName())
}
