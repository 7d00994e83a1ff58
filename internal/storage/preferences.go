package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyhq/tally/internal/model"
)

// SavePreferences upserts the single preferences row.
func (s *SQLiteStorage) SavePreferences(ctx context.Context, prefs model.UserPreferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, currency_code, date_format, locale, dark_mode, auto_save, backup_location)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			currency_code = excluded.currency_code,
			date_format = excluded.date_format,
			locale = excluded.locale,
			dark_mode = excluded.dark_mode,
			auto_save = excluded.auto_save,
			backup_location = excluded.backup_location`,
		prefs.CurrencyCode, prefs.DateFormat, prefs.Locale,
		prefs.DarkMode, prefs.AutoSave, prefs.BackupLocation)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored preferences, or the defaults when none
// have been saved yet.
func (s *SQLiteStorage) LoadPreferences(ctx context.Context) (model.UserPreferences, error) {
	if err := validateContext(ctx); err != nil {
		return model.UserPreferences{}, err
	}

	var prefs model.UserPreferences
	err := s.db.QueryRowContext(ctx, `
		SELECT currency_code, date_format, locale, dark_mode, auto_save, backup_location
		FROM preferences WHERE id = 1`).Scan(
		&prefs.CurrencyCode, &prefs.DateFormat, &prefs.Locale,
		&prefs.DarkMode, &prefs.AutoSave, &prefs.BackupLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.UserPreferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}
