package ports

import (
	"context"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// RecipeSearcher is the inbound contract for filtered semantic search.
type RecipeSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}

// RecipeRetriever is the retrieval engine consumed by the chat orchestrator.
type RecipeRetriever interface {
	Retrieve(ctx context.Context, query string, filter domain.FilterSpec, topK int) (*domain.RetrievalResult, error)
}

// ChatService turns a user utterance into a reply, recipe cards and
// follow-up suggestions. It never propagates external-dependency failures.
type ChatService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
}

// RecipeIngestor admits a recipe into the catalog and schedules indexing.
type RecipeIngestor interface {
	Ingest(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error)
}

// RecipeIndexer embeds and indexes an already-persisted recipe.
type RecipeIndexer interface {
	IndexByID(ctx context.Context, recipeID string) error
}

// StatsReader exposes the informational stats boundary.
type StatsReader interface {
	Stats(ctx context.Context) (*domain.CatalogStats, error)
}
