package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// RuleClassifier is the default keyword-based intent classifier. It is
// deliberately conservative: a filter delta is only inferred from explicit
// wording, never from dish names.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

var (
	maxMinutesPattern = regexp.MustCompile(`(?:under|within|less than|in)\s+(\d+)\s*min`)
	servingsPattern   = regexp.MustCompile(`for\s+(\d+)\s+(?:people|persons|guests|servings)`)
	ingredientSplit   = regexp.MustCompile(`\s*(?:,|\band\b)\s*`)
	vegWordPattern    = regexp.MustCompile(`\bveg\b`)
)

var resetPhrases = []string{
	"show me anything",
	"no preference",
	"clear filters",
	"clear the filters",
	"reset filters",
	"anything is fine",
	"surprise me",
}

var questionPrefixes = []string{
	"how ", "why ", "what ", "when ", "can i ", "should i ", "do i ", "is it ",
}

var questionKeywords = []string{
	"substitute", "instead of", "tip", "technique", "temperature", "store", "reheat", "leftover",
}

var ingredientMarkers = []string{
	"i have ", "i've got ", "i got ", "using ", "made with ", "what can i make with ",
	"recipes with ", "cook with ",
}

func (c *RuleClassifier) Classify(text string) domain.IntentResult {
	lower := strings.ToLower(strings.TrimSpace(text))
	out := domain.IntentResult{Intent: domain.IntentRecipeSearch}

	for _, phrase := range resetPhrases {
		if strings.Contains(lower, phrase) {
			out.ResetFilters = true
		}
	}
	out.FilterDelta = inferFilterDelta(lower)

	if ingredients := extractIngredients(lower); len(ingredients) > 0 {
		out.Intent = domain.IntentIngredientSuggestion
		out.Ingredients = ingredients
		return out
	}

	if isCookingQuestion(lower) {
		out.Intent = domain.IntentCookingQuestion
		return out
	}

	return out
}

func isCookingQuestion(lower string) bool {
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, kw := range questionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func inferFilterDelta(lower string) domain.FilterSpec {
	var delta domain.FilterSpec

	switch {
	case strings.Contains(lower, "non-veg") || strings.Contains(lower, "non veg"):
		delta.Diet = domain.DietNonVeg
	case strings.Contains(lower, "vegetarian") || strings.Contains(lower, "vegan") ||
		vegWordPattern.MatchString(lower):
		delta.Diet = domain.DietVeg
	}

	for _, m := range []domain.MealTime{
		domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack, domain.MealDessert,
	} {
		if strings.Contains(lower, string(m)) {
			delta.MealTimes = append(delta.MealTimes, m)
		}
	}

	if match := maxMinutesPattern.FindStringSubmatch(lower); match != nil {
		if minutes, err := strconv.Atoi(match[1]); err == nil && minutes > 0 {
			delta.MaxCookTime = &minutes
		}
	} else if strings.Contains(lower, "quick") || strings.Contains(lower, "fast") {
		minutes := 30
		delta.MaxCookTime = &minutes
	}

	if match := servingsPattern.FindStringSubmatch(lower); match != nil {
		if servings, err := strconv.Atoi(match[1]); err == nil && servings >= 1 {
			delta.ServingSize = &servings
		}
	}

	return delta
}

func extractIngredients(lower string) []string {
	for _, marker := range ingredientMarkers {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		rest := lower[idx+len(marker):]
		if cut := strings.IndexAny(rest, ".?!"); cut >= 0 {
			rest = rest[:cut]
		}
		parts := ingredientSplit.Split(rest, -1)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" || len(p) > 40 {
				continue
			}
			out = append(out, p)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
