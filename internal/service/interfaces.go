// Package service defines the interfaces for the application's collaborators.
package service

import (
	"context"
	"io"
	"time"

	"github.com/tallyhq/tally/internal/model"
)

// TransactionFilter defines filtering options for transaction queries. Nil
// or zero fields are ignored.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       model.TransactionType
	CategoryID int
	Limit      int
	Offset     int
}

// Storage defines the contract for the persistence layer. List methods
// return immutable snapshots: fresh slices the caller may hold without
// observing later writes.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) error
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	ListBudgets(ctx context.Context, period model.Period) ([]model.Budget, error)
	GetAllBudgets(ctx context.Context) ([]model.Budget, error)

	// Category operations
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, name, description string, categoryType model.CategoryType) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int, name, description string) error
	DeleteCategory(ctx context.Context, id int) error

	// Preferences
	SavePreferences(ctx context.Context, prefs model.UserPreferences) error
	LoadPreferences(ctx context.Context) (model.UserPreferences, error)

	// Backup and restore
	ExportJSON(ctx context.Context, w io.Writer) error
	ImportJSON(ctx context.Context, r io.Reader) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
