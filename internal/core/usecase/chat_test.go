package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

type sessionStoreFake struct {
	mu       sync.Mutex
	sessions map[string]*domain.SessionState
}

func newSessionStoreFake() *sessionStoreFake {
	return &sessionStoreFake{sessions: make(map[string]*domain.SessionState)}
}

func (s *sessionStoreFake) Update(_ context.Context, sessionID string, fn func(*domain.SessionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		state = &domain.SessionState{ID: sessionID, CreatedAt: time.Now().UTC()}
		s.sessions[sessionID] = state
	}
	if err := fn(state); err != nil {
		return err
	}
	state.LastActiveAt = time.Now().UTC()
	return nil
}

func (s *sessionStoreFake) Get(_ context.Context, sessionID string) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (s *sessionStoreFake) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *sessionStoreFake) PruneIdle(time.Duration) int { return 0 }

func (s *sessionStoreFake) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type chatRetrieverFake struct {
	calls   int
	queries []string
	filters []domain.FilterSpec
	result  *domain.RetrievalResult
	err     error
}

func (f *chatRetrieverFake) Retrieve(_ context.Context, query string, filter domain.FilterSpec, _ int) (*domain.RetrievalResult, error) {
	f.calls++
	f.queries = append(f.queries, query)
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.RetrievalResult{
		Query: query,
		Items: []domain.ScoredRecipe{
			{Recipe: domain.Recipe{ID: "r-1", Name: "Masoor Dal", CookTimeMinutes: 35, ServingSize: 4, Rating: 4.5,
				Description: "Spicy lentil curry. Comes together in one pot."}, Score: 0.9, Rank: 1},
			{Recipe: domain.Recipe{ID: "r-2", Name: "Vegetable Stir Fry", CookTimeMinutes: 20, ServingSize: 2, Rating: 4.2}, Score: 0.8, Rank: 2},
		},
		Requested: 5,
	}, nil
}

func newChatFixture(retriever *chatRetrieverFake) (*ChatUseCase, *sessionStoreFake) {
	sessions := newSessionStoreFake()
	uc := NewChatUseCase(retriever, NewRuleClassifier(), sessions, ChatConfig{})
	return uc, sessions
}

func TestChatEmptyMessageGreets(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	resp, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "   "})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if !strings.Contains(resp.Reply, "recipe assistant") {
		t.Fatalf("expected greeting, got %q", resp.Reply)
	}
	if retriever.calls != 0 {
		t.Fatalf("greeting must not hit the retriever")
	}
	if len(resp.Suggestions) == 0 {
		t.Fatalf("greeting should carry suggestions")
	}
}

func TestChatFilterCarryOverAcrossTurns(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	first, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "show me vegetarian recipes"})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if retriever.filters[0].Diet != domain.DietVeg {
		t.Fatalf("first turn should filter veg, got %q", retriever.filters[0].Diet)
	}

	_, err = uc.Chat(context.Background(), domain.ChatRequest{
		SessionID: first.SessionID,
		Message:   "something for dinner",
	})
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}

	second := retriever.filters[1]
	if second.Diet != domain.DietVeg {
		t.Fatalf("veg constraint must carry over, got %q", second.Diet)
	}
	if len(second.MealTimes) != 1 || second.MealTimes[0] != domain.MealDinner {
		t.Fatalf("dinner constraint must be added, got %v", second.MealTimes)
	}
}

func TestChatResetClearsCarriedFilters(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	first, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "vegetarian dinner for 2 people"})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	_, err = uc.Chat(context.Background(), domain.ChatRequest{
		SessionID: first.SessionID,
		Message:   "clear filters, surprise me with something tasty",
	})
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}

	second := retriever.filters[1]
	if second.Diet != "" || len(second.MealTimes) != 0 || second.ServingSize != nil {
		t.Fatalf("reset should drop carried filters, got %+v", second)
	}
}

func TestChatDegradedOnRetrieverFailure(t *testing.T) {
	retriever := &chatRetrieverFake{err: domain.WrapError(domain.ErrEmbeddingUnavailable, "embed query",
		context.DeadlineExceeded)}
	uc, sessions := newChatFixture(retriever)

	resp, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "pasta for dinner"})
	if err != nil {
		t.Fatalf("degraded turn must not return an error, got %v", err)
	}
	if !resp.Degraded {
		t.Fatalf("expected degraded response")
	}
	if len(resp.Recipes) != 0 {
		t.Fatalf("degraded response must not carry recipe cards")
	}
	if len(resp.Suggestions) != 1 || !strings.Contains(resp.Suggestions[0], "try asking again") {
		t.Fatalf("expected retry suggestion, got %v", resp.Suggestions)
	}

	// The failed turn still lands in history.
	state, err := sessions.Get(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("session lookup error = %v", err)
	}
	if len(state.Turns) != 2 {
		t.Fatalf("expected user+assistant turns, got %d", len(state.Turns))
	}
}

func TestChatCookingQuestionGroundsOnLastRetrieval(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	first, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "show me lentil recipes"})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if retriever.calls != 1 {
		t.Fatalf("expected one retrieval, got %d", retriever.calls)
	}

	resp, err := uc.Chat(context.Background(), domain.ChatRequest{
		SessionID: first.SessionID,
		Message:   "how long does the first one take?",
	})
	if err != nil {
		t.Fatalf("question turn error = %v", err)
	}
	if retriever.calls != 1 {
		t.Fatalf("within-topic question must not re-query the store, got %d calls", retriever.calls)
	}
	if !strings.Contains(resp.Reply, "Masoor Dal") {
		t.Fatalf("expected answer grounded on last retrieval, got %q", resp.Reply)
	}
}

func TestChatIngredientSuggestion(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	resp, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "I have lentils, onions and garlic"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(retriever.queries[0], "lentils") {
		t.Fatalf("ingredients should drive the query, got %q", retriever.queries[0])
	}
	if !strings.HasPrefix(resp.Reply, "With lentils") {
		t.Fatalf("expected ingredient framing, got %q", resp.Reply)
	}
	if len(resp.Recipes) == 0 {
		t.Fatalf("expected recipe cards")
	}
}

func TestChatSuggestionsSkipPreviousTurn(t *testing.T) {
	retriever := &chatRetrieverFake{}
	uc, _ := newChatFixture(retriever)

	first, err := uc.Chat(context.Background(), domain.ChatRequest{Message: "show me pasta"})
	if err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	second, err := uc.Chat(context.Background(), domain.ChatRequest{
		SessionID: first.SessionID,
		Message:   "show me more pasta",
	})
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}

	seen := make(map[string]struct{}, len(first.Suggestions))
	for _, s := range first.Suggestions {
		seen[s] = struct{}{}
	}
	for _, s := range second.Suggestions {
		if _, dup := seen[s]; dup {
			t.Fatalf("suggestion %q repeated from previous turn", s)
		}
	}
	if len(second.Suggestions) > 3 {
		t.Fatalf("at most 3 suggestions, got %d", len(second.Suggestions))
	}
}

func TestChatHistoryWindowBounded(t *testing.T) {
	retriever := &chatRetrieverFake{}
	sessions := newSessionStoreFake()
	uc := NewChatUseCase(retriever, NewRuleClassifier(), sessions, ChatConfig{HistoryLimit: 6})

	var sessionID string
	for i := 0; i < 10; i++ {
		resp, err := uc.Chat(context.Background(), domain.ChatRequest{SessionID: sessionID, Message: "show me pasta"})
		if err != nil {
			t.Fatalf("turn %d error = %v", i, err)
		}
		sessionID = resp.SessionID
	}

	state, err := sessions.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("session lookup error = %v", err)
	}
	if len(state.Turns) != 6 {
		t.Fatalf("expected history capped at 6 turns, got %d", len(state.Turns))
	}
}
