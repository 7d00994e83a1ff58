package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
)

const budgetColumns = `id, period, category_id, planned_amount, spent, notes`

func scanBudget(row interface{ Scan(...any) error }) (model.Budget, error) {
	var (
		b       model.Budget
		period  string
		planned string
		spent   string
	)
	if err := row.Scan(&b.ID, &period, &b.CategoryID, &planned, &spent, &b.Notes); err != nil {
		return model.Budget{}, err
	}
	var err error
	if b.Period, err = model.ParsePeriod(period); err != nil {
		return model.Budget{}, err
	}
	if b.PlannedAmount, err = parseAmount(planned); err != nil {
		return model.Budget{}, err
	}
	if b.Spent, err = parseAmount(spent); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// CreateBudget inserts a new budget. At most one budget may exist per
// (period, category) pair; a duplicate is rejected as a validation error,
// never silently overwritten.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return common.NewValidationError("invalid budget", err)
	}

	var existing string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM budgets WHERE period = ? AND category_id = ?`,
		budget.Period.String(), budget.CategoryID).Scan(&existing)
	if err == nil {
		return common.NewValidationError(
			fmt.Sprintf("budget for period %s and category %d", budget.Period, budget.CategoryID),
			common.ErrDuplicateBudget)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing budget: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, period, category_id, planned_amount, spent, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.Period.String(), budget.CategoryID,
		budget.PlannedAmount.String(), budget.Spent.String(), budget.Notes)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("created budget", "period", budget.Period, "category_id", budget.CategoryID, "planned", budget.PlannedAmount)
	return nil
}

// UpdateBudget replaces a stored budget's planned amount and notes by id.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return common.NewValidationError("invalid budget", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET planned_amount = ?, spent = ?, notes = ? WHERE id = ?`,
		budget.PlannedAmount.String(), budget.Spent.String(), budget.Notes, budget.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %s: %w", budget.ID, common.ErrNotFound)
	}
	return nil
}

// DeleteBudget removes a budget by id.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// GetBudget returns a single budget by id.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return &b, nil
}

// ListBudgets returns budgets for one period.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, period model.Period) ([]model.Budget, error) {
	return s.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE period = ? ORDER BY created_at, id`,
		period.String())
}

// GetAllBudgets returns every stored budget.
func (s *SQLiteStorage) GetAllBudgets(ctx context.Context) ([]model.Budget, error) {
	return s.queryBudgets(ctx,
		`SELECT ` + budgetColumns + ` FROM budgets ORDER BY period, created_at, id`)
}

func (s *SQLiteStorage) queryBudgets(ctx context.Context, query string, args ...any) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "count", len(budgets))
	return budgets, nil
}
