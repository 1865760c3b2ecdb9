package qdrant

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

type queryPoint struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

type queryPointsResponse struct {
	Result struct {
		Points []queryPoint `json:"points"`
	} `json:"result"`
}

func decodeQueryPoints(r io.Reader) ([]queryPoint, error) {
	var decoded queryPointsResponse
	if err := json.NewDecoder(r).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return decoded.Result.Points, nil
}

func recipePayload(recipe domain.Recipe) map[string]any {
	meals := make([]string, 0, len(recipe.MealTimes))
	for _, m := range recipe.MealTimes {
		meals = append(meals, string(m))
	}
	return map[string]any{
		"recipe_id":         recipe.ID,
		"name":              recipe.Name,
		"cuisine":           recipe.Cuisine,
		"diet":              string(recipe.Diet),
		"meal_times":        meals,
		"cook_time_minutes": recipe.CookTimeMinutes,
		"serving_size":      recipe.ServingSize,
		"rating":            recipe.Rating,
		"description":       recipe.Description,
		"image_url":         recipe.ImageURL,
	}
}

func recipeFromPayload(payload map[string]any) domain.Recipe {
	recipe := domain.Recipe{
		ID:              getStringPayload(payload, "recipe_id"),
		Name:            getStringPayload(payload, "name"),
		Cuisine:         getStringPayload(payload, "cuisine"),
		Diet:            domain.DietType(getStringPayload(payload, "diet")),
		CookTimeMinutes: getIntPayload(payload, "cook_time_minutes"),
		ServingSize:     getIntPayload(payload, "serving_size"),
		Rating:          getFloatPayload(payload, "rating"),
		Description:     getStringPayload(payload, "description"),
		ImageURL:        getStringPayload(payload, "image_url"),
	}
	for _, raw := range getSlicePayload(payload, "meal_times") {
		if s, ok := raw.(string); ok {
			meal := domain.MealTime(s)
			if meal.Valid() {
				recipe.MealTimes = append(recipe.MealTimes, meal)
			}
		}
	}
	return recipe
}

func getStringPayload(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func getIntPayload(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

func getFloatPayload(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func getSlicePayload(payload map[string]any, key string) []any {
	if v, ok := payload[key].([]any); ok {
		return v
	}
	return nil
}
