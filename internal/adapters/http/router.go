package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
	"github.com/kitchenport/recipe-assistant/internal/observability/metrics"
)

type Router struct {
	service  string
	chat     ports.ChatService
	searcher ports.RecipeSearcher
	stats    ports.StatsReader
	sessions ports.SessionStore
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	chat ports.ChatService,
	searcher ports.RecipeSearcher,
	stats ports.StatsReader,
	sessions ports.SessionStore,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		service:  service,
		chat:     chat,
		searcher: searcher,
		stats:    stats,
		sessions: sessions,
		metrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/chat", rt.postChat)
	mux.HandleFunc("/v1/search", rt.postSearch)
	mux.HandleFunc("/v1/suggest", rt.postSuggest)
	mux.HandleFunc("/v1/sessions/", rt.deleteSession)
	mux.HandleFunc("/v1/stats", rt.getStats)
	mux.HandleFunc("/v1/filters", rt.getFilters)

	var handler http.Handler = mux
	handler = accessLogMiddleware(handler)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) postChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	resp, err := rt.chat.Chat(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordChatTurn(rt.service, "chat", resp.Degraded)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) postSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	resp, err := rt.searcher.Search(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(rt.service, "search", resp.Returned, time.Since(start))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) postSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Ingredients []string             `json:"ingredients"`
		Filters     domain.FilterOptions `json:"filters"`
		TopK        int                  `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	if len(ingredients) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one ingredient is required"})
		return
	}

	start := time.Now()
	resp, err := rt.searcher.Search(r.Context(), domain.SearchRequest{
		Query:   "recipe with " + strings.Join(ingredients, ", "),
		Filters: req.Filters,
		TopK:    req.TopK,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRetrieval(rt.service, "suggest", resp.Returned, time.Since(start))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) deleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	if err := rt.sessions.Clear(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": "cleared"})
}

func (rt *Router) getStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stats, err := rt.stats.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// getFilters publishes the filter vocabulary so clients can build pickers
// without hardcoding the enums.
func (rt *Router) getFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"diet": []domain.DietType{domain.DietVeg, domain.DietNonVeg, domain.DietAny},
		"meal_time": []domain.MealTime{
			domain.MealBreakfast, domain.MealLunch, domain.MealDinner,
			domain.MealSnack, domain.MealDessert,
		},
		"numeric": []string{"min_cook_time", "max_cook_time", "serving_size"},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
