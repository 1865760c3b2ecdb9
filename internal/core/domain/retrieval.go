package domain

// RecipeHit is a raw nearest-neighbor match from the vector store, before
// strict filtering and reranking.
type RecipeHit struct {
	Recipe Recipe
	Score  float64
}

type ScoredRecipe struct {
	Recipe Recipe  `json:"recipe"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

// RetrievalResult is an ordered result set. Scores are non-increasing by
// rank; ties break by rating descending, then identifier ascending.
type RetrievalResult struct {
	Query     string         `json:"query"`
	Items     []ScoredRecipe `json:"items"`
	Requested int            `json:"requested"`
}

// Partial reports whether fewer recipes satisfied the filter than were
// requested. Results are never padded with non-matching recipes.
func (r RetrievalResult) Partial() bool {
	return len(r.Items) < r.Requested
}

func (r RetrievalResult) Summaries() []RecipeSummary {
	out := make([]RecipeSummary, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, SummarizeRecipe(item.Recipe, item.Score))
	}
	return out
}

type SearchRequest struct {
	Query   string        `json:"query"`
	Filters FilterOptions `json:"filters"`
	TopK    int           `json:"top_k"`
}

type SearchResponse struct {
	Recipes   []RecipeSummary `json:"recipes"`
	Requested int             `json:"requested"`
	Returned  int             `json:"returned"`
	Partial   bool            `json:"partial"`
}
