package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
)

const (
	defaultTopK         = 5
	maxTopK             = 50
	defaultOverfetch    = 3
	defaultMinCandidate = 30
)

// RetrieveConfig bounds retrieval cost. Zero values fall back to defaults.
type RetrieveConfig struct {
	DefaultTopK     int
	MaxTopK         int
	OverfetchFactor int
	MinCandidates   int
}

func (c RetrieveConfig) normalize() RetrieveConfig {
	out := c
	if out.DefaultTopK <= 0 {
		out.DefaultTopK = defaultTopK
	}
	if out.MaxTopK <= 0 {
		out.MaxTopK = maxTopK
	}
	if out.OverfetchFactor <= 0 {
		out.OverfetchFactor = defaultOverfetch
	}
	if out.MinCandidates <= 0 {
		out.MinCandidates = defaultMinCandidate
	}
	return out
}

type RetrieveUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
	cfg      RetrieveConfig
}

func NewRetrieveUseCase(embedder ports.Embedder, vectorDB ports.VectorStore, cfg RetrieveConfig) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
		cfg:      cfg.normalize(),
	}
}

// Retrieve embeds the query, over-fetches nearest neighbors, keeps only
// recipes that strictly satisfy the filter, reranks deterministically and
// truncates to topK. Fewer than topK matches is a partial result, not an
// error; zero matches is an empty result.
func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	query string,
	filter domain.FilterSpec,
	topK int,
) (*domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve", fmt.Errorf("query text is required"))
	}
	if topK <= 0 {
		topK = uc.cfg.DefaultTopK
	}
	if topK > uc.cfg.MaxTopK {
		topK = uc.cfg.MaxTopK
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "embed query", err)
	}

	// Metadata filtering after similarity ranking can starve the result set,
	// so ask the store for more candidates than topK.
	candidates := topK * uc.cfg.OverfetchFactor
	if candidates < uc.cfg.MinCandidates {
		candidates = uc.cfg.MinCandidates
	}

	hits, err := uc.vectorDB.Query(ctx, queryVector, candidates, filter)
	if err != nil {
		return nil, domain.WrapError(domain.ErrVectorStore, "query vector store", err)
	}

	matched := hits[:0:0]
	for _, hit := range hits {
		if filter.Matches(hit.Recipe) {
			matched = append(matched, hit)
		}
	}
	rerankHits(matched)

	if len(matched) > topK {
		matched = matched[:topK]
	}
	items := make([]domain.ScoredRecipe, 0, len(matched))
	for i, hit := range matched {
		items = append(items, domain.ScoredRecipe{
			Recipe: hit.Recipe,
			Score:  hit.Score,
			Rank:   i + 1,
		})
	}

	return &domain.RetrievalResult{
		Query:     query,
		Items:     items,
		Requested: topK,
	}, nil
}

// Search is the adapter-facing entry: compiles the filter options, then
// retrieves.
func (uc *RetrieveUseCase) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	spec, err := CompileFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	result, err := uc.Retrieve(ctx, req.Query, spec, req.TopK)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResponse{
		Recipes:   result.Summaries(),
		Requested: result.Requested,
		Returned:  len(result.Items),
		Partial:   result.Partial(),
	}, nil
}

// rerankHits sorts by similarity descending, breaking ties by rating
// descending and then identifier ascending so identical inputs always
// produce the same ordering.
func rerankHits(hits []domain.RecipeHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Recipe.Rating != hits[j].Recipe.Rating {
			return hits[i].Recipe.Rating > hits[j].Recipe.Rating
		}
		return hits[i].Recipe.ID < hits[j].Recipe.ID
	})
}
