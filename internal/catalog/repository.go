package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository is a database-backed store for the recipe catalog.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or updates a recipe.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	ingredients, err := json.Marshal(rec.IngredientIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredient ids: %w", err)
	}
	seasons, err := json.Marshal(rec.Seasons)
	if err != nil {
		return fmt.Errorf("failed to marshal seasons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, name, category, calories, protein_grams, salt_grams,
			cost_per_serving, cooking_time_minutes, ingredient_ids, seasons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			calories = excluded.calories,
			protein_grams = excluded.protein_grams,
			salt_grams = excluded.salt_grams,
			cost_per_serving = excluded.cost_per_serving,
			cooking_time_minutes = excluded.cooking_time_minutes,
			ingredient_ids = excluded.ingredient_ids,
			seasons = excluded.seasons`,
		rec.ID, rec.Name, string(rec.Category), rec.Calories, rec.ProteinGrams,
		rec.SaltGrams, rec.CostPerServing, rec.CookingTimeMinutes,
		string(ingredients), string(seasons),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// List retrieves all recipes.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, calories, protein_grams, salt_grams,
			cost_per_serving, cooking_time_minutes, ingredient_ids, seasons
		FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		var category, ingredients, seasons string
		if err := rows.Scan(&rec.ID, &rec.Name, &category, &rec.Calories,
			&rec.ProteinGrams, &rec.SaltGrams, &rec.CostPerServing,
			&rec.CookingTimeMinutes, &ingredients, &seasons); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		rec.Category = Category(category)
		if err := json.Unmarshal([]byte(ingredients), &rec.IngredientIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredient ids for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(seasons), &rec.Seasons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal seasons for %s: %w", rec.ID, err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Count returns the number of recipes in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
