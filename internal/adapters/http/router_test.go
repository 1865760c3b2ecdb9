package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

type chatServiceFake struct {
	resp *domain.ChatResponse
	err  error
	got  domain.ChatRequest
}

func (f *chatServiceFake) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	f.got = req
	return f.resp, f.err
}

type searcherFake struct {
	resp *domain.SearchResponse
	err  error
	got  domain.SearchRequest
}

func (f *searcherFake) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	f.got = req
	return f.resp, f.err
}

type statsReaderFake struct {
	stats *domain.CatalogStats
	err   error
}

func (f *statsReaderFake) Stats(context.Context) (*domain.CatalogStats, error) {
	return f.stats, f.err
}

type sessionStoreFake struct {
	clearErr error
	cleared  []string
}

func (f *sessionStoreFake) Update(context.Context, string, func(*domain.SessionState) error) error {
	return nil
}

func (f *sessionStoreFake) Get(context.Context, string) (domain.SessionState, error) {
	return domain.SessionState{}, nil
}

func (f *sessionStoreFake) Clear(_ context.Context, sessionID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func (f *sessionStoreFake) PruneIdle(time.Duration) int { return 0 }

func (f *sessionStoreFake) Len() int { return 0 }

func newTestRouter(chat *chatServiceFake, searcher *searcherFake, stats *statsReaderFake, sessions *sessionStoreFake) http.Handler {
	if chat == nil {
		chat = &chatServiceFake{resp: &domain.ChatResponse{}}
	}
	if searcher == nil {
		searcher = &searcherFake{resp: &domain.SearchResponse{}}
	}
	if stats == nil {
		stats = &statsReaderFake{stats: &domain.CatalogStats{}}
	}
	if sessions == nil {
		sessions = &sessionStoreFake{}
	}
	return NewRouter("api", chat, searcher, stats, sessions, nil).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	chat := &chatServiceFake{resp: &domain.ChatResponse{
		SessionID: "s-1",
		Reply:     "Here are some ideas.",
	}}
	handler := newTestRouter(chat, nil, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/v1/chat", `{"session_id":"s-1","message":"something veg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if chat.got.Message != "something veg" {
		t.Fatalf("request not forwarded: %+v", chat.got)
	}

	var resp domain.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID != "s-1" || resp.Reply == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	rec := doRequest(t, handler, http.MethodPost, "/v1/chat", `{"message":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	searcher := &searcherFake{resp: &domain.SearchResponse{}}
	handler := newTestRouter(nil, searcher, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/v1/search", `{"query":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if searcher.got.Query != "" {
		t.Fatalf("searcher should not be called for blank query")
	}
}

func TestSearchMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid filter", domain.WrapError(domain.ErrInvalidFilter, "search", errors.New("unknown diet")), http.StatusBadRequest},
		{"embedding down", domain.WrapError(domain.ErrEmbeddingUnavailable, "search", errors.New("connect refused")), http.StatusServiceUnavailable},
		{"vector store down", domain.WrapError(domain.ErrVectorStore, "search", errors.New("query timeout")), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestRouter(nil, &searcherFake{err: tc.err}, nil, nil)
			rec := doRequest(t, handler, http.MethodPost, "/v1/search", `{"query":"dal"}`)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestSuggestBuildsQueryFromIngredients(t *testing.T) {
	searcher := &searcherFake{resp: &domain.SearchResponse{Returned: 1}}
	handler := newTestRouter(nil, searcher, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/v1/suggest",
		`{"ingredients":[" tomatoes ","basil","","mozzarella"],"top_k":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if searcher.got.Query != "recipe with tomatoes, basil, mozzarella" {
		t.Fatalf("unexpected query %q", searcher.got.Query)
	}
	if searcher.got.TopK != 3 {
		t.Fatalf("top_k not forwarded: %d", searcher.got.TopK)
	}
}

func TestSuggestRequiresIngredients(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	rec := doRequest(t, handler, http.MethodPost, "/v1/suggest", `{"ingredients":["  ",""]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	sessions := &sessionStoreFake{}
	handler := newTestRouter(nil, nil, nil, sessions)

	rec := doRequest(t, handler, http.MethodDelete, "/v1/sessions/s-42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(sessions.cleared) != 1 || sessions.cleared[0] != "s-42" {
		t.Fatalf("unexpected cleared ids: %v", sessions.cleared)
	}
}

func TestDeleteSessionUnknownIs404(t *testing.T) {
	sessions := &sessionStoreFake{
		clearErr: domain.WrapError(domain.ErrSessionNotFound, "sessions.clear", errors.New("id nope")),
	}
	handler := newTestRouter(nil, nil, nil, sessions)

	rec := doRequest(t, handler, http.MethodDelete, "/v1/sessions/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteSessionRequiresID(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	rec := doRequest(t, handler, http.MethodDelete, "/v1/sessions/", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	stats := &statsReaderFake{stats: &domain.CatalogStats{
		TotalRecipes: 12,
		CuisineCount: 4,
		DietCounts:   map[string]int{"veg": 8, "non-veg": 4},
	}}
	handler := newTestRouter(nil, nil, stats, nil)

	rec := doRequest(t, handler, http.MethodGet, "/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got domain.CatalogStats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if got.TotalRecipes != 12 || got.DietCounts["veg"] != 8 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestFiltersVocabulary(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	rec := doRequest(t, handler, http.MethodGet, "/v1/filters", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var vocab map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &vocab); err != nil {
		t.Fatalf("decode vocabulary: %v", err)
	}
	for _, key := range []string{"diet", "meal_time", "numeric"} {
		if _, ok := vocab[key]; !ok {
			t.Fatalf("missing vocabulary key %q", key)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/chat"},
		{http.MethodGet, "/v1/search"},
		{http.MethodPost, "/v1/stats"},
		{http.MethodPost, "/v1/sessions/s-1"},
	}
	for _, tc := range cases {
		rec := doRequest(t, handler, tc.method, tc.path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(nil, nil, nil, nil)
	rec := doRequest(t, handler, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
