package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one dialogue message. Assistant turns that triggered retrieval
// carry the result they were composed from.
type Turn struct {
	Role      Role             `json:"role"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
	Retrieval *RetrievalResult `json:"retrieval,omitempty"`
}

// SessionState is the per-session conversational context. History is a
// bounded FIFO window; ActiveFilters carry across turns until explicitly
// reset or overridden key by key.
type SessionState struct {
	ID              string
	Turns           []Turn
	LastRetrieval   *RetrievalResult
	ActiveFilters   FilterSpec
	LastSuggestions []string
	CreatedAt       time.Time
	LastActiveAt    time.Time
}

// AppendTurn appends and evicts the oldest turns beyond maxTurns.
func (s *SessionState) AppendTurn(t Turn, maxTurns int) {
	s.Turns = append(s.Turns, t)
	if maxTurns > 0 && len(s.Turns) > maxTurns {
		s.Turns = s.Turns[len(s.Turns)-maxTurns:]
	}
}

// Clone returns a snapshot safe to hand out after the session lock is
// released.
func (s *SessionState) Clone() SessionState {
	out := *s
	out.Turns = append([]Turn(nil), s.Turns...)
	out.LastSuggestions = append([]string(nil), s.LastSuggestions...)
	return out
}

type Intent string

const (
	IntentRecipeSearch         Intent = "recipe-search"
	IntentCookingQuestion      Intent = "cooking-question"
	IntentIngredientSuggestion Intent = "ingredient-suggestion"
)

// IntentResult is the classifier output: one intent tag plus any filter
// deltas inferable from the utterance.
type IntentResult struct {
	Intent       Intent
	FilterDelta  FilterSpec
	ResetFilters bool
	Ingredients  []string
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID   string          `json:"session_id"`
	Reply       string          `json:"reply"`
	Recipes     []RecipeSummary `json:"recipes,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Degraded    bool            `json:"degraded,omitempty"`
}
