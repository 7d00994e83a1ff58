package model

import "time"

// CategoryType restricts which transaction types a category applies to.
type CategoryType string

const (
	// CategoryTypeIncome marks categories usable only for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense marks categories usable only for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeBoth marks categories usable for either type.
	CategoryTypeBoth CategoryType = "both"
)

// UncategorizedName is the reserved default category. It always exists and
// cannot be deleted.
const UncategorizedName = "Uncategorized"

// UnknownCategoryLabel is substituted when a category id cannot be resolved,
// so reports stay generable with inconsistent reference data.
const UnknownCategoryLabel = "Unknown"

// Category groups transactions for budgeting and reporting. Names are unique
// within the active set, compared case-insensitively. Color is cosmetic only.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	Color       string
	Type        CategoryType
	ID          int
	IsActive    bool
}

// ApplicableTo reports whether this category may be used for transactions of
// the given type. An unset Type means both.
func (c *Category) ApplicableTo(t TransactionType) bool {
	switch c.Type {
	case CategoryTypeIncome:
		return t == TypeIncome
	case CategoryTypeExpense:
		return t == TypeExpense
	default:
		return true
	}
}
