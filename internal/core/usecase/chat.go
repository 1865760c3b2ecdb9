package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
	"github.com/kitchenport/recipe-assistant/internal/core/ports"
)

const (
	defaultHistoryLimit = 20
	maxSuggestions      = 3
)

const greetingReply = "Hello! I'm your recipe assistant. Ask me about recipes, cooking tips, " +
	"or tell me what ingredients you have and I'll suggest dishes you can make."

const degradedReply = "I'm sorry, I ran into a problem while looking up recipes. " +
	"Please try again in a moment."

var greetingSuggestions = []string{
	"What ingredients do you have?",
	"Show me quick dinner recipes",
	"I need a vegetarian meal",
}

type ChatConfig struct {
	HistoryLimit int
	TopK         int
}

func (c ChatConfig) normalize() ChatConfig {
	out := c
	if out.HistoryLimit <= 0 {
		out.HistoryLimit = defaultHistoryLimit
	}
	if out.TopK <= 0 {
		out.TopK = defaultTopK
	}
	return out
}

// ChatUseCase orchestrates one dialogue turn: classify the utterance, merge
// inferred filters into the carried session filters, retrieve when needed and
// compose the reply. External-dependency failures degrade the reply instead
// of failing the request.
type ChatUseCase struct {
	retriever  ports.RecipeRetriever
	classifier ports.IntentClassifier
	sessions   ports.SessionStore
	cfg        ChatConfig
}

func NewChatUseCase(
	retriever ports.RecipeRetriever,
	classifier ports.IntentClassifier,
	sessions ports.SessionStore,
	cfg ChatConfig,
) *ChatUseCase {
	return &ChatUseCase{
		retriever:  retriever,
		classifier: classifier,
		sessions:   sessions,
		cfg:        cfg.normalize(),
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		// An unknown or expired session means "start a new one", never a failure.
		sessionID = uuid.NewString()
	}

	var resp *domain.ChatResponse
	err := uc.sessions.Update(ctx, sessionID, func(state *domain.SessionState) error {
		resp = uc.handleTurn(ctx, state, strings.TrimSpace(req.Message))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	resp.SessionID = sessionID
	return resp, nil
}

func (uc *ChatUseCase) handleTurn(ctx context.Context, state *domain.SessionState, message string) *domain.ChatResponse {
	if message == "" {
		return &domain.ChatResponse{
			Reply:       greetingReply,
			Suggestions: greetingSuggestions,
		}
	}

	now := time.Now().UTC()
	state.AppendTurn(domain.Turn{Role: domain.RoleUser, Text: message, CreatedAt: now}, uc.cfg.HistoryLimit)

	classified := uc.classifier.Classify(message)
	if classified.ResetFilters {
		state.ActiveFilters = domain.FilterSpec{}
	}
	state.ActiveFilters = state.ActiveFilters.Merge(classified.FilterDelta)

	var (
		reply     string
		retrieval *domain.RetrievalResult
		degraded  bool
	)

	switch classified.Intent {
	case domain.IntentCookingQuestion:
		if state.LastRetrieval != nil && len(state.LastRetrieval.Items) > 0 {
			// Ground the answer on what was already retrieved instead of
			// issuing another vector query for a within-topic follow-up.
			reply = composeGroundedReply(message, state.LastRetrieval)
			retrieval = state.LastRetrieval
		} else {
			reply, retrieval, degraded = uc.retrieveAndCompose(ctx, state, message, "")
		}
	case domain.IntentIngredientSuggestion:
		query := strings.Join(classified.Ingredients, ", ")
		reply, retrieval, degraded = uc.retrieveAndCompose(ctx, state, query,
			fmt.Sprintf("With %s you could make:", query))
	default:
		reply, retrieval, degraded = uc.retrieveAndCompose(ctx, state, message, "")
	}

	resp := &domain.ChatResponse{Reply: reply, Degraded: degraded}
	if retrieval != nil && !degraded {
		resp.Recipes = retrieval.Summaries()
	}

	if degraded {
		resp.Suggestions = []string{"Please try asking again in a moment"}
	} else {
		resp.Suggestions = uc.followUps(state)
		state.LastSuggestions = resp.Suggestions
	}

	assistantTurn := domain.Turn{Role: domain.RoleAssistant, Text: resp.Reply, CreatedAt: time.Now().UTC()}
	if retrieval != nil && !degraded {
		assistantTurn.Retrieval = retrieval
	}
	state.AppendTurn(assistantTurn, uc.cfg.HistoryLimit)

	return resp
}

// retrieveAndCompose runs retrieval under the session's carried filters and
// formats the reply. Any retriever failure produces the degraded reply.
func (uc *ChatUseCase) retrieveAndCompose(
	ctx context.Context,
	state *domain.SessionState,
	query, prefix string,
) (string, *domain.RetrievalResult, bool) {
	result, err := uc.retriever.Retrieve(ctx, query, state.ActiveFilters, uc.cfg.TopK)
	if err != nil {
		slog.Warn("chat_retrieval_degraded",
			"session_id", state.ID,
			"error", err,
		)
		return degradedReply, nil, true
	}

	state.LastRetrieval = result
	return composeSearchReply(result, prefix), result, false
}

func composeSearchReply(result *domain.RetrievalResult, prefix string) string {
	if len(result.Items) == 0 {
		return "I couldn't find recipes matching everything you asked for. " +
			"Try loosening a filter or describing the dish differently."
	}

	var b strings.Builder
	if prefix != "" {
		b.WriteString(prefix)
	} else {
		noun := "recipes"
		if len(result.Items) == 1 {
			noun = "recipe"
		}
		fmt.Fprintf(&b, "I found %d %s for you:", len(result.Items), noun)
	}
	for _, item := range result.Items {
		r := item.Recipe
		fmt.Fprintf(&b, "\n%d. %s (%d min, rated %.1f/5)", item.Rank, r.Name, r.CookTimeMinutes, r.Rating)
	}
	return b.String()
}

func composeGroundedReply(question string, last *domain.RetrievalResult) string {
	top := last.Items[0].Recipe
	var b strings.Builder
	fmt.Fprintf(&b, "Looking at %s: it takes about %d minutes and serves %d.", top.Name, top.CookTimeMinutes, top.ServingSize)
	if top.Description != "" {
		b.WriteString(" ")
		b.WriteString(firstSentence(top.Description))
	}
	if len(last.Items) > 1 {
		names := make([]string, 0, len(last.Items)-1)
		for _, item := range last.Items[1:] {
			names = append(names, item.Recipe.Name)
		}
		fmt.Fprintf(&b, " I can also tell you more about %s.", strings.Join(names, ", "))
	}
	return b.String()
}

// followUps picks at most three suggestions keyed on filter dimensions the
// session has not set yet, skipping anything suggested on the previous turn.
func (uc *ChatUseCase) followUps(state *domain.SessionState) []string {
	filters := state.ActiveFilters

	candidates := make([]string, 0, 6)
	if len(filters.MealTimes) == 0 && len(filters.MealTypes) == 0 {
		candidates = append(candidates, "Would you like breakfast, lunch, or dinner options?")
	}
	if filters.Diet == "" {
		candidates = append(candidates, "Should I stick to vegetarian dishes, or include everything?")
	}
	if filters.MaxCookTime == nil {
		candidates = append(candidates, "Want me to keep it under 30 minutes?")
	}
	if filters.ServingSize == nil {
		candidates = append(candidates, "How many servings do you need?")
	}
	candidates = append(candidates,
		"Tell me what ingredients you have and I'll suggest a dish",
		"Ask me for cooking tips on any of these recipes",
	)

	previous := make(map[string]struct{}, len(state.LastSuggestions))
	for _, s := range state.LastSuggestions {
		previous[s] = struct{}{}
	}

	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if _, dup := previous[c]; dup {
			continue
		}
		out = append(out, c)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func firstSentence(text string) string {
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		return text[:idx+1]
	}
	return text
}
