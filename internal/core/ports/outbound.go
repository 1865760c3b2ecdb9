package ports

import (
	"context"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// Embedder converts text into fixed-dimension vectors. Failures surface as
// domain.ErrEmbeddingUnavailable at the retrieval boundary.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes recipes and performs filtered nearest-neighbor search.
// The filter is a hint pushed down to the store; callers re-verify matches
// strictly.
type VectorStore interface {
	IndexRecipe(ctx context.Context, recipe domain.Recipe, vector []float32) error
	Query(ctx context.Context, vector []float32, limit int, filter domain.FilterSpec) ([]domain.RecipeHit, error)
}

// RecipeRepository persists and reads the recipe catalog.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	List(ctx context.Context, limit, offset int) ([]domain.Recipe, error)
	Stats(ctx context.Context) (*domain.CatalogStats, error)
}

// MessageQueue publishes/consumes recipe ingestion events.
type MessageQueue interface {
	PublishRecipeIngested(ctx context.Context, recipeID string) error
	SubscribeRecipeIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// IntentClassifier maps an utterance to an intent tag plus inferable filter
// deltas. Rule-based and model-backed implementations are interchangeable.
type IntentClassifier interface {
	Classify(text string) domain.IntentResult
}

// SessionStore owns per-session conversational state. Update serializes all
// access for one session id and creates the session when missing; sessions
// with different ids never block each other.
type SessionStore interface {
	Update(ctx context.Context, sessionID string, fn func(*domain.SessionState) error) error
	Get(ctx context.Context, sessionID string) (domain.SessionState, error)
	Clear(ctx context.Context, sessionID string) error
	PruneIdle(olderThan time.Duration) int
	Len() int
}
