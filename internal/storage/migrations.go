package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					description TEXT DEFAULT '',
					type TEXT NOT NULL DEFAULT 'both',
					color TEXT DEFAULT '',
					is_active INTEGER DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX idx_categories_name ON categories(name COLLATE NOCASE)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					type TEXT NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					date TEXT NOT NULL,
					category_id INTEGER NOT NULL,
					notes TEXT DEFAULT '',
					source TEXT DEFAULT '',
					payment_method TEXT DEFAULT '',
					essential INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					period TEXT NOT NULL,
					category_id INTEGER NOT NULL,
					planned_amount TEXT NOT NULL,
					spent TEXT DEFAULT '0',
					notes TEXT DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (period, category_id),
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_budgets_period ON budgets(period)`,

				`CREATE TABLE IF NOT EXISTS preferences (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					currency_code TEXT NOT NULL DEFAULT 'USD',
					date_format TEXT NOT NULL DEFAULT '2006-01-02',
					locale TEXT NOT NULL DEFAULT 'en',
					dark_mode INTEGER DEFAULT 0,
					auto_save INTEGER DEFAULT 1,
					backup_location TEXT DEFAULT ''
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default categories",
		Up: func(tx *sql.Tx) error {
			seed := []struct {
				name, description, typ, color string
			}{
				{"Uncategorized", "Default category", "both", "#9E9E9E"},
				{"Salary", "Regular employment income", "income", "#4CAF50"},
				{"Investment", "Income from investments", "income", "#009688"},
				{"Gifts", "Money received as gifts", "income", "#795548"},
				{"Bonus", "Work bonuses or incentives", "income", "#FF9800"},
				{"Housing", "Rent, mortgage, repairs", "expense", "#E91E63"},
				{"Food", "Groceries and dining out", "expense", "#9C27B0"},
				{"Transportation", "Car, public transit, ride sharing", "expense", "#2196F3"},
				{"Utilities", "Electricity, water, internet", "expense", "#03A9F4"},
				{"Entertainment", "Movies, games, hobbies", "expense", "#FF5722"},
				{"Healthcare", "Doctor visits, medicine", "expense", "#607D8B"},
				{"Education", "Tuition, books, courses", "expense", "#3F51B5"},
				{"Shopping", "Clothing, electronics", "expense", "#CDDC39"},
			}

			for _, c := range seed {
				_, err := tx.Exec(
					`INSERT OR IGNORE INTO categories (name, description, type, color) VALUES (?, ?, ?, ?)`,
					c.name, c.description, c.typ, c.color)
				if err != nil {
					return fmt.Errorf("failed to seed category %s: %w", c.name, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Track import references for statement deduplication",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE transactions ADD COLUMN import_ref TEXT`,
				`CREATE UNIQUE INDEX idx_transactions_import_ref
					ON transactions(import_ref) WHERE import_ref IS NOT NULL`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
