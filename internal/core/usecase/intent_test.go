package usecase

import (
	"testing"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

func TestClassifyDefaultsToRecipeSearch(t *testing.T) {
	result := NewRuleClassifier().Classify("show me pasta dishes")
	if result.Intent != domain.IntentRecipeSearch {
		t.Fatalf("expected recipe-search, got %s", result.Intent)
	}
	if result.ResetFilters {
		t.Fatalf("unexpected filter reset")
	}
}

func TestClassifyDietDelta(t *testing.T) {
	cases := []struct {
		text string
		want domain.DietType
	}{
		{"I want vegetarian food", domain.DietVeg},
		{"something vegan please", domain.DietVeg},
		{"show me veg options", domain.DietVeg},
		{"non-veg dinner ideas", domain.DietNonVeg},
		{"I eat non veg", domain.DietNonVeg},
	}
	for _, tc := range cases {
		result := NewRuleClassifier().Classify(tc.text)
		if result.FilterDelta.Diet != tc.want {
			t.Fatalf("%q: want diet %q, got %q", tc.text, tc.want, result.FilterDelta.Diet)
		}
	}
}

func TestClassifyMealTimeAndCookTime(t *testing.T) {
	result := NewRuleClassifier().Classify("dinner ready in under 20 minutes")
	if len(result.FilterDelta.MealTimes) != 1 || result.FilterDelta.MealTimes[0] != domain.MealDinner {
		t.Fatalf("expected dinner meal time, got %v", result.FilterDelta.MealTimes)
	}
	if result.FilterDelta.MaxCookTime == nil || *result.FilterDelta.MaxCookTime != 20 {
		t.Fatalf("expected max cook time 20, got %v", result.FilterDelta.MaxCookTime)
	}
}

func TestClassifyQuickImpliesThirtyMinutes(t *testing.T) {
	result := NewRuleClassifier().Classify("quick lunch ideas")
	if result.FilterDelta.MaxCookTime == nil || *result.FilterDelta.MaxCookTime != 30 {
		t.Fatalf("expected quick to cap cook time at 30, got %v", result.FilterDelta.MaxCookTime)
	}
}

func TestClassifyServings(t *testing.T) {
	result := NewRuleClassifier().Classify("something for 6 people")
	if result.FilterDelta.ServingSize == nil || *result.FilterDelta.ServingSize != 6 {
		t.Fatalf("expected serving size 6, got %v", result.FilterDelta.ServingSize)
	}
}

func TestClassifyResetPhrase(t *testing.T) {
	result := NewRuleClassifier().Classify("actually show me anything")
	if !result.ResetFilters {
		t.Fatalf("expected filter reset")
	}
}

func TestClassifyCookingQuestion(t *testing.T) {
	cases := []string{
		"how do I store leftover rice?",
		"can I substitute butter with oil?",
		"what temperature should the oven be?",
	}
	for _, text := range cases {
		result := NewRuleClassifier().Classify(text)
		if result.Intent != domain.IntentCookingQuestion {
			t.Fatalf("%q: expected cooking-question, got %s", text, result.Intent)
		}
	}
}

func TestClassifyIngredientSuggestion(t *testing.T) {
	result := NewRuleClassifier().Classify("I have tomatoes, basil and mozzarella")
	if result.Intent != domain.IntentIngredientSuggestion {
		t.Fatalf("expected ingredient-suggestion, got %s", result.Intent)
	}
	want := []string{"tomatoes", "basil", "mozzarella"}
	if len(result.Ingredients) != len(want) {
		t.Fatalf("expected %v, got %v", want, result.Ingredients)
	}
	for i := range want {
		if result.Ingredients[i] != want[i] {
			t.Fatalf("ingredient %d: want %s, got %s", i, want[i], result.Ingredients[i])
		}
	}
}

func TestClassifyIngredientSuggestionCarriesDelta(t *testing.T) {
	result := NewRuleClassifier().Classify("I have paneer and spinach, vegetarian dinner please")
	if result.Intent != domain.IntentIngredientSuggestion {
		t.Fatalf("expected ingredient-suggestion, got %s", result.Intent)
	}
	if result.FilterDelta.Diet != domain.DietVeg {
		t.Fatalf("expected veg delta alongside ingredients, got %q", result.FilterDelta.Diet)
	}
}
