package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/model"
	"github.com/Veraticus/autobill/internal/service"
)

func TestSeedDefaultCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	added, err := store.SeedDefaultCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCategories), added)

	added, err = store.SeedDefaultCategories(ctx)
	require.NoError(t, err)
	assert.Zero(t, added, "seeding is idempotent")

	cats, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(DefaultCategories))
	assert.Equal(t, "餐饮", cats[0].Name, "creation order is preserved")
	assert.Equal(t, "🍜", cats[0].Icon)
	assert.Equal(t, "📦", service.IconFor(cats, "其他"))
}

func TestCreateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, " 咖啡 ", "☕", model.CategoryTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, "咖啡", cat.Name)
	assert.True(t, cat.IsActive)
	assert.NotZero(t, cat.ID)

	_, err = store.CreateCategory(ctx, "咖啡", "🫘", model.CategoryTypeExpense)
	require.ErrorIs(t, err, common.ErrDuplicateEntry)

	existing, err := store.CategoryByName(ctx, "咖啡")
	require.NoError(t, err)
	assert.Equal(t, "☕", existing.Icon, "active category is left unchanged")

	income, err := store.CreateCategory(ctx, "理财", "", "")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTypeExpense, income.Type, "type defaults to expense")

	_, err = store.CreateCategory(ctx, "", "", model.CategoryTypeExpense)
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.CreateCategory(ctx, "x", "", model.CategoryType("transfer"))
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestDeactivateCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "红包", "🧧", model.CategoryTypeIncome)
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "餐饮", "🍜", model.CategoryTypeExpense)
	require.NoError(t, err)

	require.NoError(t, store.DeactivateCategory(ctx, "红包"))

	cats, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"餐饮"}, service.CategoryNames(cats))

	err = store.DeactivateCategory(ctx, "红包")
	assert.ErrorIs(t, err, common.ErrNotFound)

	inactive, err := store.CategoryByName(ctx, "红包")
	require.NoError(t, err)
	assert.False(t, inactive.IsActive)

	// Re-adding reactivates with the new icon.
	back, err := store.CreateCategory(ctx, "红包", "🎁", model.CategoryTypeIncome)
	require.NoError(t, err)
	assert.Equal(t, inactive.ID, back.ID)
	assert.True(t, back.IsActive)
	assert.Equal(t, "🎁", back.Icon)

	cats, err = store.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestCategoryByName_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.CategoryByName(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
