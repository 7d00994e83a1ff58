package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
)

const categoryColumns = `id, name, description, type, color, is_active, created_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Color, &c.IsActive, &c.CreatedAt)
	return c, err
}

// ListCategories returns all active categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns an active category by name, case-insensitively.
// A miss returns (nil, nil).
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ? COLLATE NOCASE AND is_active = 1`, name)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// GetCategoryByID returns an active category by id. A miss returns (nil, nil).
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND is_active = 1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// CreateCategory creates a new category, reactivating a soft-deleted one of
// the same name if present.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, description string, categoryType model.CategoryType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ? COLLATE NOCASE`, name)
	existing, err := scanCategory(row)
	if err == nil {
		if existing.IsActive {
			return nil, common.NewValidationError(
				fmt.Sprintf("category %q", name), common.ErrDuplicateEntry)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE categories SET is_active = 1, description = ?, type = ? WHERE id = ?`,
			description, categoryType, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to reactivate category: %w", err)
		}
		existing.IsActive = true
		existing.Description = description
		existing.Type = categoryType
		slog.Info("reactivated existing category", "name", name)
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, type, created_at, is_active) VALUES (?, ?, ?, ?, 1)`,
		name, description, categoryType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	category := &model.Category{
		ID:          int(id),
		Name:        name,
		Description: description,
		Type:        categoryType,
		CreatedAt:   now,
		IsActive:    true,
	}

	slog.Info("created new category", "name", name, "id", id)
	return category, nil
}

// UpdateCategory renames a category or changes its description.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int, name, description string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	current, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if strings.EqualFold(current.Name, model.UncategorizedName) && !strings.EqualFold(name, model.UncategorizedName) {
		return common.NewValidationError("cannot rename the default category", common.ErrReservedCategory)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// DeleteCategory soft-deletes a category and moves its transactions and
// budgets to Uncategorized. The reserved default category cannot be deleted.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if strings.EqualFold(category.Name, model.UncategorizedName) {
		return common.NewValidationError("cannot delete the default category", common.ErrReservedCategory)
	}

	fallback, err := s.GetCategoryByName(ctx, model.UncategorizedName)
	if err != nil {
		return err
	}
	if fallback == nil {
		return fmt.Errorf("default category %q is missing", model.UncategorizedName)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = ? WHERE category_id = ?`, fallback.ID, id); err != nil {
			return fmt.Errorf("failed to reassign transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET is_active = 0 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		slog.Info("deleted category", "id", id, "name", category.Name)
		return nil
	})
}
