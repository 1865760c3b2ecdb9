package domain

import "time"

type DietType string

const (
	DietVeg    DietType = "veg"
	DietNonVeg DietType = "non-veg"
	DietAny    DietType = "any"
)

func (d DietType) Valid() bool {
	switch d {
	case DietVeg, DietNonVeg, DietAny:
		return true
	default:
		return false
	}
}

type MealTime string

const (
	MealBreakfast MealTime = "breakfast"
	MealLunch     MealTime = "lunch"
	MealDinner    MealTime = "dinner"
	MealSnack     MealTime = "snack"
	MealDessert   MealTime = "dessert"
)

func (m MealTime) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealDessert:
		return true
	default:
		return false
	}
}

// Recipe is the catalog entry. It is created once at ingestion and read-only
// afterwards; the retrieval core never mutates it.
type Recipe struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Cuisine         string     `json:"cuisine"`
	Diet            DietType   `json:"diet"`
	MealTimes       []MealTime `json:"meal_times"`
	CookTimeMinutes int        `json:"cook_time_minutes"`
	ServingSize     int        `json:"serving_size"`
	Rating          float64    `json:"rating"`
	Description     string     `json:"description"`
	ImageURL        string     `json:"image_url"`
	Ingredients     []string   `json:"ingredients,omitempty"`
	Instructions    []string   `json:"instructions,omitempty"`
	Nutrition       string     `json:"nutrition,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (r Recipe) HasMealTime(m MealTime) bool {
	for _, have := range r.MealTimes {
		if have == m {
			return true
		}
	}
	return false
}

// RecipeSummary is the card shape returned to API clients.
type RecipeSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"`
	DietType    DietType `json:"diet_type"`
	ServingSize int      `json:"serving_size"`
	Description string   `json:"description"`
	Score       float64  `json:"score"`
}

func SummarizeRecipe(r Recipe, score float64) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		Rating:      r.Rating,
		DietType:    r.Diet,
		ServingSize: r.ServingSize,
		Description: r.Description,
		Score:       score,
	}
}

// CatalogStats is the read-only stats surface.
type CatalogStats struct {
	TotalRecipes   int            `json:"total_recipes"`
	Dimension      int            `json:"dimension"`
	DietCounts     map[string]int `json:"diet_counts"`
	MealTimeCounts map[string]int `json:"meal_time_counts"`
	CuisineCount   int            `json:"cuisine_count"`
}
