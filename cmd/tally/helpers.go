package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/report"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadReportConfig builds the report configuration from stored preferences,
// letting config file keys override individual fields.
func loadReportConfig(ctx context.Context, store service.Storage) (report.Config, error) {
	prefs, err := store.LoadPreferences(ctx)
	if err != nil {
		return report.Config{}, err
	}
	cfg := report.ConfigFromPreferences(prefs)
	if code := viper.GetString("report.currency"); code != "" {
		cfg.CurrencyCode = code
	}
	if locale := viper.GetString("report.locale"); locale != "" {
		cfg.Locale = locale
	}
	return cfg, nil
}

// today returns the current calendar date at midnight UTC.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate parses a YYYY-MM-DD command-line date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// resolveCategory finds a category by name, falling back to Uncategorized
// when no name is given.
func resolveCategory(ctx context.Context, store service.Storage, name string) (*model.Category, error) {
	if name == "" {
		name = model.UncategorizedName
	}
	category, err := store.GetCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category %q not found", name)
	}
	return category, nil
}
