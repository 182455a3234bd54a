package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crew-menu-planner/internal/catalog"
	"crew-menu-planner/internal/database"
)

func openTestRepo(t *testing.T) *catalog.Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return catalog.NewRepository(db.SQL)
}

func TestRepositorySaveAndList(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	curry := catalog.Recipe{
		ID:                 "m-curry",
		Name:               "Chicken Curry",
		Category:           catalog.CategoryMain,
		Calories:           800,
		ProteinGrams:       35,
		SaltGrams:          2.0,
		CostPerServing:     120,
		CookingTimeMinutes: 45,
		IngredientIDs:      []string{"chicken", "rice"},
		Seasons:            []string{"winter", "autumn"},
	}
	salad := catalog.Recipe{
		ID:             "s-salad",
		Name:           "Green Salad",
		Category:       catalog.CategorySide,
		Calories:       90,
		ProteinGrams:   2,
		SaltGrams:      0.3,
		CostPerServing: 60,
	}

	require.NoError(t, repo.Save(ctx, curry))
	require.NoError(t, repo.Save(ctx, salad))

	recipes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	// List orders by ID.
	assert.Equal(t, curry, recipes[0])
	assert.Equal(t, "s-salad", recipes[1].ID)
	assert.Empty(t, recipes[1].IngredientIDs)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRepositorySaveUpserts(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	rec := catalog.Recipe{ID: "m-stew", Name: "Beef Stew", Category: catalog.CategoryMain, CostPerServing: 200}
	require.NoError(t, repo.Save(ctx, rec))

	rec.CostPerServing = 180
	rec.Name = "Hearty Beef Stew"
	require.NoError(t, repo.Save(ctx, rec))

	recipes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Hearty Beef Stew", recipes[0].Name)
	assert.Equal(t, 180, recipes[0].CostPerServing)
}
