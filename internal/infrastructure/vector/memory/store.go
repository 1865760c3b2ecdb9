package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// Store is an in-process vector store used in tests and for local runs
// without a Qdrant instance. Vectors are normalized at index time so the
// query scan reduces to a dot product.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	recipe domain.Recipe
	vector []float32
}

func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

func (s *Store) IndexRecipe(_ context.Context, recipe domain.Recipe, vector []float32) error {
	if recipe.ID == "" {
		return fmt.Errorf("recipe id is required")
	}
	if len(vector) == 0 {
		return fmt.Errorf("empty recipe vector")
	}

	normalized := normalize(vector)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[recipe.ID] = entry{recipe: recipe, vector: normalized}
	return nil
}

func (s *Store) Query(
	_ context.Context,
	vector []float32,
	limit int,
	filter domain.FilterSpec,
) ([]domain.RecipeHit, error) {
	if limit <= 0 {
		limit = 10
	}
	query := normalize(vector)

	s.mu.RLock()
	hits := make([]domain.RecipeHit, 0, len(s.entries))
	for _, e := range s.entries {
		if !filter.Matches(e.recipe) {
			continue
		}
		hits = append(hits, domain.RecipeHit{
			Recipe: e.recipe,
			Score:  dot(query, e.vector),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Recipe.ID < hits[j].Recipe.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func normalize(vector []float32) []float32 {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return append([]float32(nil), vector...)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
