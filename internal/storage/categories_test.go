package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
)

func TestCreateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Pets", "Vet bills and food", model.CategoryTypeExpense)
	require.NoError(t, err)
	assert.Positive(t, cat.ID)
	assert.True(t, cat.IsActive)

	loaded, err := store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Pets", loaded.Name)
	assert.Equal(t, model.CategoryTypeExpense, loaded.Type)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Pets", "", model.CategoryTypeExpense)
	require.NoError(t, err)

	// Name comparison is case-insensitive.
	_, err = store.CreateCategory(ctx, "PETS", "", model.CategoryTypeExpense)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestCreateCategoryReactivatesSoftDeleted(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateCategory(ctx, "Pets", "", model.CategoryTypeExpense)
	require.NoError(t, err)
	require.NoError(t, store.DeleteCategory(ctx, created.ID))

	revived, err := store.CreateCategory(ctx, "Pets", "back again", model.CategoryTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, created.ID, revived.ID)
	assert.Equal(t, "back again", revived.Description)
}

func TestGetCategoryByNameMissReturnsNil(t *testing.T) {
	store := newTestStorage(t)

	cat, err := store.GetCategoryByName(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestUpdateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Pets", "", model.CategoryTypeExpense)
	require.NoError(t, err)

	require.NoError(t, store.UpdateCategory(ctx, cat.ID, "Animals", "all creatures"))

	loaded, err := store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Animals", loaded.Name)
	assert.Equal(t, "all creatures", loaded.Description)
}

func TestUpdateCategoryProtectsDefault(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	defaultID := categoryID(t, store, model.UncategorizedName)

	err := store.UpdateCategory(ctx, defaultID, "Misc", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrReservedCategory)
}

func TestDeleteCategoryReassignsTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	defaultID := categoryID(t, store, model.UncategorizedName)

	cat, err := store.CreateCategory(ctx, "Pets", "", model.CategoryTypeExpense)
	require.NoError(t, err)

	txn := model.NewExpense(decimal.NewFromInt(80), "Vet visit", date(2024, 3, 10), cat.ID, model.PaymentDebitCard, false)
	require.NoError(t, store.SaveTransaction(ctx, &txn))

	require.NoError(t, store.DeleteCategory(ctx, cat.ID))

	// The category is gone from the active set.
	gone, err := store.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Its transactions moved to Uncategorized rather than dangling.
	loaded, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, defaultID, loaded.CategoryID)
}

func TestDeleteCategoryProtectsDefault(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	defaultID := categoryID(t, store, model.UncategorizedName)

	err := store.DeleteCategory(ctx, defaultID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrReservedCategory)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.DeleteCategory(context.Background(), 99999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
