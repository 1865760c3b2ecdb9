package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// RecipeRepository is the catalog of record. The vector store carries a
// projection of this data in point payloads; this table is what seed and
// reindex jobs read from.
type RecipeRepository struct {
	db *sql.DB
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) EnsureSchema(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS recipes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    cuisine TEXT NOT NULL DEFAULT '',
    diet TEXT NOT NULL,
    meal_times JSONB NOT NULL DEFAULT '[]'::jsonb,
    cook_time_minutes INTEGER NOT NULL DEFAULT 0,
    serving_size INTEGER NOT NULL DEFAULT 0,
    rating DOUBLE PRECISION NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    ingredients JSONB NOT NULL DEFAULT '[]'::jsonb,
    instructions JSONB NOT NULL DEFAULT '[]'::jsonb,
    nutrition TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure recipes schema: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	mealTimes, err := json.Marshal(recipe.MealTimes)
	if err != nil {
		return fmt.Errorf("marshal meal times: %w", err)
	}
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("marshal ingredients: %w", err)
	}
	instructions, err := json.Marshal(recipe.Instructions)
	if err != nil {
		return fmt.Errorf("marshal instructions: %w", err)
	}

	const stmt = `
INSERT INTO recipes (
    id, name, cuisine, diet, meal_times, cook_time_minutes, serving_size,
    rating, description, image_url, ingredients, instructions, nutrition, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    cuisine = EXCLUDED.cuisine,
    diet = EXCLUDED.diet,
    meal_times = EXCLUDED.meal_times,
    cook_time_minutes = EXCLUDED.cook_time_minutes,
    serving_size = EXCLUDED.serving_size,
    rating = EXCLUDED.rating,
    description = EXCLUDED.description,
    image_url = EXCLUDED.image_url,
    ingredients = EXCLUDED.ingredients,
    instructions = EXCLUDED.instructions,
    nutrition = EXCLUDED.nutrition`

	_, err = r.db.ExecContext(ctx, stmt,
		recipe.ID, recipe.Name, recipe.Cuisine, string(recipe.Diet), mealTimes,
		recipe.CookTimeMinutes, recipe.ServingSize, recipe.Rating,
		recipe.Description, recipe.ImageURL, ingredients, instructions,
		recipe.Nutrition, recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	const stmt = `
SELECT id, name, cuisine, diet, meal_times, cook_time_minutes, serving_size,
       rating, description, image_url, ingredients, instructions, nutrition, created_at
FROM recipes
WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrRecipeNotFound, "recipes.get", fmt.Errorf("id %q", id))
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) List(ctx context.Context, limit, offset int) ([]domain.Recipe, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const stmt = `
SELECT id, name, cuisine, diet, meal_times, cook_time_minutes, serving_size,
       rating, description, image_url, ingredients, instructions, nutrition, created_at
FROM recipes
ORDER BY created_at, id
LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, stmt, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		out = append(out, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe rows: %w", err)
	}
	return out, nil
}

func (r *RecipeRepository) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	stats := domain.CatalogStats{
		DietCounts:     make(map[string]int),
		MealTimeCounts: make(map[string]int),
	}

	const totals = `
SELECT COUNT(*), COUNT(DISTINCT NULLIF(cuisine, ''))
FROM recipes`
	if err := r.db.QueryRowContext(ctx, totals).Scan(&stats.TotalRecipes, &stats.CuisineCount); err != nil {
		return nil, fmt.Errorf("catalog totals: %w", err)
	}

	const byDiet = `
SELECT diet, COUNT(*)
FROM recipes
GROUP BY diet`
	dietRows, err := r.db.QueryContext(ctx, byDiet)
	if err != nil {
		return nil, fmt.Errorf("catalog diet counts: %w", err)
	}
	defer dietRows.Close()
	for dietRows.Next() {
		var diet string
		var count int
		if err := dietRows.Scan(&diet, &count); err != nil {
			return nil, fmt.Errorf("scan diet count: %w", err)
		}
		stats.DietCounts[diet] = count
	}
	if err := dietRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diet counts: %w", err)
	}

	const byMealTime = `
SELECT meal, COUNT(*)
FROM recipes, jsonb_array_elements_text(meal_times) AS meal
GROUP BY meal`
	mealRows, err := r.db.QueryContext(ctx, byMealTime)
	if err != nil {
		return nil, fmt.Errorf("catalog meal time counts: %w", err)
	}
	defer mealRows.Close()
	for mealRows.Next() {
		var meal string
		var count int
		if err := mealRows.Scan(&meal, &count); err != nil {
			return nil, fmt.Errorf("scan meal time count: %w", err)
		}
		stats.MealTimeCounts[meal] = count
	}
	if err := mealRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal time counts: %w", err)
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (domain.Recipe, error) {
	var (
		recipe       domain.Recipe
		diet         string
		mealTimes    []byte
		ingredients  []byte
		instructions []byte
	)
	err := row.Scan(
		&recipe.ID, &recipe.Name, &recipe.Cuisine, &diet, &mealTimes,
		&recipe.CookTimeMinutes, &recipe.ServingSize, &recipe.Rating,
		&recipe.Description, &recipe.ImageURL, &ingredients, &instructions,
		&recipe.Nutrition, &recipe.CreatedAt,
	)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.Diet = domain.DietType(diet)
	if len(mealTimes) > 0 {
		if err := json.Unmarshal(mealTimes, &recipe.MealTimes); err != nil {
			return domain.Recipe{}, fmt.Errorf("unmarshal meal times: %w", err)
		}
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &recipe.Ingredients); err != nil {
			return domain.Recipe{}, fmt.Errorf("unmarshal ingredients: %w", err)
		}
	}
	if len(instructions) > 0 {
		if err := json.Unmarshal(instructions, &recipe.Instructions); err != nil {
			return domain.Recipe{}, fmt.Errorf("unmarshal instructions: %w", err)
		}
	}
	return recipe, nil
}
