package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
)

// IngestUseCase admits recipes into the catalog and schedules asynchronous
// embedding. The retrieval core treats recipes as immutable afterwards.
type IngestUseCase struct {
	repo  ports.RecipeRepository
	queue ports.MessageQueue
}

func NewIngestUseCase(repo ports.RecipeRepository, queue ports.MessageQueue) *IngestUseCase {
	return &IngestUseCase{repo: repo, queue: queue}
}

func (uc *IngestUseCase) Ingest(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest recipe", fmt.Errorf("recipe name is required"))
	}
	if recipe.Diet == "" || recipe.Diet == domain.DietAny {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest recipe",
			fmt.Errorf("recipe diet must be %q or %q", domain.DietVeg, domain.DietNonVeg))
	}
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}

	if err := uc.repo.Create(ctx, &recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	if err := uc.queue.PublishRecipeIngested(ctx, recipe.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}
	return &recipe, nil
}

// IndexUseCase is the worker side: load the recipe, embed its document text
// and upsert the vector.
type IndexUseCase struct {
	repo     ports.RecipeRepository
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewIndexUseCase(repo ports.RecipeRepository, embedder ports.Embedder, vectorDB ports.VectorStore) *IndexUseCase {
	return &IndexUseCase{repo: repo, embedder: embedder, vectorDB: vectorDB}
}

func (uc *IndexUseCase) IndexByID(ctx context.Context, recipeID string) error {
	recipe, err := uc.repo.GetByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("fetch recipe by id: %w", err)
	}

	vectors, err := uc.embedder.Embed(ctx, []string{RecipeDocumentText(*recipe)})
	if err != nil {
		return domain.WrapError(domain.ErrEmbeddingUnavailable, "embed recipe", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return domain.WrapError(domain.ErrEmbeddingUnavailable, "embed recipe", fmt.Errorf("empty embedding result"))
	}

	if err := uc.vectorDB.IndexRecipe(ctx, *recipe, vectors[0]); err != nil {
		return domain.WrapError(domain.ErrVectorStore, "index recipe", err)
	}
	return nil
}

// RecipeDocumentText is the canonical text a recipe is embedded from. One
// recipe maps to one vector; splitting it would scatter its meaning across
// points.
func RecipeDocumentText(r domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipe: %s\n", r.Name)
	if r.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine: %s\n", r.Cuisine)
	}
	if len(r.MealTimes) > 0 {
		meals := make([]string, 0, len(r.MealTimes))
		for _, m := range r.MealTimes {
			meals = append(meals, string(m))
		}
		fmt.Fprintf(&b, "Meal: %s\n", strings.Join(meals, ", "))
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}
	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
	}
	if len(r.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if r.Nutrition != "" {
		fmt.Fprintf(&b, "\nNutrition Information:\n%s\n", r.Nutrition)
	}
	return strings.TrimSpace(b.String())
}
