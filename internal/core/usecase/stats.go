package usecase

import (
	"context"
	"fmt"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
)

// StatsUseCase serves the informational stats boundary. The embedding
// dimension comes from configuration: it is a property of the provider's
// model, constant across the collection.
type StatsUseCase struct {
	repo      ports.RecipeRepository
	dimension int
}

func NewStatsUseCase(repo ports.RecipeRepository, dimension int) *StatsUseCase {
	return &StatsUseCase{repo: repo, dimension: dimension}
}

func (uc *StatsUseCase) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	stats.Dimension = uc.dimension
	return stats, nil
}
