package domain

import (
	"fmt"
	"testing"
)

func TestSessionStateAppendTurnEvictsOldest(t *testing.T) {
	var state SessionState
	for i := 0; i < 25; i++ {
		state.AppendTurn(Turn{Role: RoleUser, Text: fmt.Sprintf("turn-%d", i)}, 20)
	}

	if len(state.Turns) != 20 {
		t.Fatalf("expected 20 turns kept, got %d", len(state.Turns))
	}
	if state.Turns[0].Text != "turn-5" {
		t.Fatalf("expected oldest surviving turn to be turn-5, got %s", state.Turns[0].Text)
	}
	if state.Turns[19].Text != "turn-24" {
		t.Fatalf("expected newest turn last, got %s", state.Turns[19].Text)
	}
}

func TestSessionStateCloneIsIndependent(t *testing.T) {
	state := SessionState{ID: "s-1"}
	state.AppendTurn(Turn{Role: RoleUser, Text: "original"}, 20)
	state.LastSuggestions = []string{"first"}

	snapshot := state.Clone()
	state.Turns[0].Text = "mutated"
	state.LastSuggestions[0] = "mutated"

	if snapshot.Turns[0].Text != "original" {
		t.Fatalf("clone turns must not alias the source")
	}
	if snapshot.LastSuggestions[0] != "first" {
		t.Fatalf("clone suggestions must not alias the source")
	}
}

func TestRetrievalResultPartial(t *testing.T) {
	full := RetrievalResult{Items: make([]ScoredRecipe, 5), Requested: 5}
	if full.Partial() {
		t.Fatalf("full result must not be partial")
	}
	partial := RetrievalResult{Items: make([]ScoredRecipe, 2), Requested: 5}
	if !partial.Partial() {
		t.Fatalf("short result must be partial")
	}
}
