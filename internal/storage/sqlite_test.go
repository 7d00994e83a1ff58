package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/service"
)

// newTestStorage creates a migrated store backed by a throwaway database.
func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// categoryID resolves a seeded category by name.
func categoryID(t *testing.T, store *SQLiteStorage, name string) int {
	t.Helper()
	cat, err := store.GetCategoryByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, cat, "expected seeded category %q", name)
	return cat.ID
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	uncategorized, err := store.GetCategoryByName(ctx, model.UncategorizedName)
	require.NoError(t, err)
	require.NotNil(t, uncategorized)
	assert.Equal(t, model.CategoryTypeBoth, uncategorized.Type)

	salary, err := store.GetCategoryByName(ctx, "Salary")
	require.NoError(t, err)
	require.NotNil(t, salary)
	assert.Equal(t, model.CategoryTypeIncome, salary.Type)
}

func TestPreferencesDefaultsAndRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	prefs, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), prefs)

	prefs.CurrencyCode = "EUR"
	prefs.Locale = "de"
	prefs.DarkMode = true
	require.NoError(t, store.SavePreferences(ctx, prefs))

	loaded, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefs, loaded)

	// Saving again overwrites the single row.
	prefs.CurrencyCode = "GBP"
	require.NoError(t, store.SavePreferences(ctx, prefs))
	loaded, err = store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GBP", loaded.CurrencyCode)
}

func TestValidateContext(t *testing.T) {
	store := newTestStorage(t)

	//nolint:staticcheck // testing nil context rejection
	_, err := store.ListTransactions(nil, service.TransactionFilter{})
	assert.Error(t, err)
}
