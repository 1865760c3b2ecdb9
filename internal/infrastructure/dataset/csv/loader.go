package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// Loader reads recipe rows from an allrecipes-style CSV export. Rows there
// are free text, so the loader also derives the structured tags the search
// filters need: diet from the ingredient list, meal slots from the category
// path, cook minutes from the "1 hr 25 mins" duration strings.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) LoadFile(path string) ([]domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

func (l *Loader) Load(r io.Reader) ([]domain.Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["recipe_name"]; !ok {
		return nil, fmt.Errorf("dataset header missing recipe_name column")
	}

	var out []domain.Recipe
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return cleanText(row[i])
		}

		name := field("recipe_name")
		if name == "" {
			continue
		}

		ingredients := splitList(field("ingredients"))
		cuisine := cuisineFromPath(field("cuisine_path"))
		recipe := domain.Recipe{
			Name:            name,
			Cuisine:         cuisine,
			Diet:            deriveDiet(ingredients),
			MealTimes:       deriveMealTimes(field("cuisine_path"), name),
			CookTimeMinutes: parseDurationMinutes(firstNonEmpty(field("cook_time"), field("total_time"))),
			ServingSize:     parseServings(field("servings")),
			Rating:          parseRating(field("rating")),
			Description:     field("directions"),
			ImageURL:        field("img_src"),
			Ingredients:     ingredients,
			Instructions:    splitSteps(field("directions")),
			Nutrition:       field("nutrition"),
		}
		out = append(out, recipe)
	}
	return out, nil
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var stepSplitPattern = regexp.MustCompile(`\.(?:\s+)|\n`)

func splitSteps(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, step := range stepSplitPattern.Split(s, -1) {
		step = strings.TrimSuffix(strings.TrimSpace(step), ".")
		if len(step) > 10 {
			out = append(out, step)
		}
	}
	return out
}

func cuisineFromPath(path string) string {
	// cuisine_path looks like "/Desserts/Fruit Desserts/Apple Dessert Recipes/".
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

var nonVegMarkers = []string{
	"chicken", "beef", "pork", "bacon", "ham", "lamb", "turkey", "duck",
	"fish", "salmon", "tuna", "shrimp", "prawn", "crab", "anchov",
	"sausage", "meat", "veal", "gelatin",
}

func deriveDiet(ingredients []string) domain.DietType {
	for _, ing := range ingredients {
		lower := strings.ToLower(ing)
		for _, marker := range nonVegMarkers {
			if strings.Contains(lower, marker) {
				return domain.DietNonVeg
			}
		}
	}
	return domain.DietVeg
}

func deriveMealTimes(cuisinePath, name string) []domain.MealTime {
	haystack := strings.ToLower(cuisinePath + " " + name)
	var out []domain.MealTime
	add := func(m domain.MealTime) {
		for _, have := range out {
			if have == m {
				return
			}
		}
		out = append(out, m)
	}
	if strings.Contains(haystack, "breakfast") || strings.Contains(haystack, "brunch") {
		add(domain.MealBreakfast)
	}
	if strings.Contains(haystack, "lunch") || strings.Contains(haystack, "sandwich") || strings.Contains(haystack, "salad") {
		add(domain.MealLunch)
	}
	if strings.Contains(haystack, "dessert") || strings.Contains(haystack, "cake") ||
		strings.Contains(haystack, "cookie") || strings.Contains(haystack, "pie") {
		add(domain.MealDessert)
	}
	if strings.Contains(haystack, "snack") || strings.Contains(haystack, "appetizer") {
		add(domain.MealSnack)
	}
	if len(out) == 0 {
		add(domain.MealDinner)
	}
	return out
}

var durationPartPattern = regexp.MustCompile(`(\d+)\s*(hrs?|hours?|mins?|minutes?)`)

func parseDurationMinutes(s string) int {
	total := 0
	for _, m := range durationPartPattern.FindAllStringSubmatch(strings.ToLower(s), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if strings.HasPrefix(m[2], "h") {
			total += n * 60
		} else {
			total += n
		}
	}
	return total
}

var leadingIntPattern = regexp.MustCompile(`\d+`)

func parseServings(s string) int {
	m := leadingIntPattern.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func parseRating(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
