// Package model defines the core domain types for the tally application.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates income from expense transactions. It is fixed
// at construction and never reassigned.
type TransactionType string

const (
	// TypeIncome represents money coming in.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money going out.
	TypeExpense TransactionType = "expense"
)

// DisplayName returns the human-readable form used in reports.
func (t TransactionType) DisplayName() string {
	switch t {
	case TypeIncome:
		return "Income"
	case TypeExpense:
		return "Expense"
	default:
		return string(t)
	}
}

// Valid reports whether the type is one of the known variants.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// IncomeSource categorizes where income came from. Only meaningful on income
// transactions.
type IncomeSource string

const (
	SourceSalary     IncomeSource = "salary"
	SourceInvestment IncomeSource = "investment"
	SourceBusiness   IncomeSource = "business"
	SourceOther      IncomeSource = "other"
)

// PaymentMethod records how an expense was paid. Only meaningful on expense
// transactions.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

// Validation errors surfaced to callers as structured rejections.
var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrMissingDate       = errors.New("date is required")
	ErrInvalidType       = errors.New("invalid transaction type")
)

// Transaction is a single income or expense record. The Type tag replaces a
// subclass split: income-only fields (Source) and expense-only fields
// (PaymentMethod, Essential) are meaningful only for the matching tag.
type Transaction struct {
	Date          time.Time
	ID            string
	Description   string
	Notes         string
	// ImportRef is the source identifier (e.g. OFX FITID) for statement
	// imports, used to deduplicate re-imported files. Empty for manual
	// entries.
	ImportRef     string
	Type          TransactionType
	Source        IncomeSource
	PaymentMethod PaymentMethod
	Amount        decimal.Decimal
	CategoryID    int
	Essential     bool
}

// NewIncome creates an income transaction with a fresh identifier.
func NewIncome(amount decimal.Decimal, description string, date time.Time, categoryID int, source IncomeSource) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		Type:        TypeIncome,
		Amount:      amount,
		Description: description,
		Date:        date,
		CategoryID:  categoryID,
		Source:      source,
	}
}

// NewExpense creates an expense transaction with a fresh identifier.
func NewExpense(amount decimal.Decimal, description string, date time.Time, categoryID int, method PaymentMethod, essential bool) Transaction {
	return Transaction{
		ID:            uuid.NewString(),
		Type:          TypeExpense,
		Amount:        amount,
		Description:   description,
		Date:          date,
		CategoryID:    categoryID,
		PaymentMethod: method,
		Essential:     essential,
	}
}

// Validate checks the construction invariants.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s", ErrNonPositiveAmount, t.Amount)
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// SignedAmount is the transaction's contribution to a balance: positive for
// income, negative for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
