package csv

import (
	"strings"
	"testing"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

const sampleDataset = `recipe_name,servings,cook_time,total_time,rating,cuisine_path,ingredients,directions,nutrition,img_src
Apple Pie,8 servings,1 hr 25 mins,2 hrs,4.7,/Desserts/Fruit Desserts/Apple Dessert Recipes/,"flour, butter, apples, sugar, cinnamon","Roll out the pie crust into the dish. Fill with sliced apples and sugar. Bake until golden brown on top.",320 kcal,https://img.example/apple-pie.jpg
Chicken Noodle Soup,4,,45 mins,4.5,/Soups/Chicken Soup/,"chicken breast, egg noodles, carrots, celery","Simmer the chicken with vegetables. Add noodles near the end.",210 kcal,
,2,10 mins,10 mins,4.0,/Snacks/,"crackers","Spread and serve.",,
Garden Salad,2 servings,,15 mins,4.2,/Salads/Green Salads/,"lettuce, cucumber, tomato, olive oil","Chop everything and toss with dressing in a large bowl.",90 kcal,
`

func TestLoadParsesRows(t *testing.T) {
	recipes, err := NewLoader().Load(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes (nameless row skipped), got %d", len(recipes))
	}

	pie := recipes[0]
	if pie.Name != "Apple Pie" {
		t.Fatalf("unexpected name %q", pie.Name)
	}
	if pie.Cuisine != "Desserts" {
		t.Fatalf("expected cuisine from first path segment, got %q", pie.Cuisine)
	}
	if pie.Diet != domain.DietVeg {
		t.Fatalf("expected veg diet, got %q", pie.Diet)
	}
	if pie.CookTimeMinutes != 85 {
		t.Fatalf("expected 1 hr 25 mins = 85, got %d", pie.CookTimeMinutes)
	}
	if pie.ServingSize != 8 {
		t.Fatalf("expected 8 servings, got %d", pie.ServingSize)
	}
	if pie.Rating != 4.7 {
		t.Fatalf("expected rating 4.7, got %v", pie.Rating)
	}
	if len(pie.Ingredients) != 5 || pie.Ingredients[2] != "apples" {
		t.Fatalf("ingredients mangled: %v", pie.Ingredients)
	}
	if len(pie.Instructions) != 3 || !strings.HasPrefix(pie.Instructions[0], "Roll out") {
		t.Fatalf("instructions mangled: %v", pie.Instructions)
	}
	if pie.ImageURL != "https://img.example/apple-pie.jpg" {
		t.Fatalf("unexpected image url %q", pie.ImageURL)
	}
}

func TestLoadDerivesDietAndMealTimes(t *testing.T) {
	recipes, err := NewLoader().Load(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	soup := recipes[1]
	if soup.Diet != domain.DietNonVeg {
		t.Fatalf("chicken ingredient should yield non-veg, got %q", soup.Diet)
	}
	if len(soup.MealTimes) != 1 || soup.MealTimes[0] != domain.MealDinner {
		t.Fatalf("expected dinner fallback, got %v", soup.MealTimes)
	}
	// cook_time empty, falls back to total_time.
	if soup.CookTimeMinutes != 45 {
		t.Fatalf("expected total_time fallback 45, got %d", soup.CookTimeMinutes)
	}

	pie := recipes[0]
	if len(pie.MealTimes) != 1 || pie.MealTimes[0] != domain.MealDessert {
		t.Fatalf("expected dessert from path and name, got %v", pie.MealTimes)
	}

	salad := recipes[2]
	if len(salad.MealTimes) != 1 || salad.MealTimes[0] != domain.MealLunch {
		t.Fatalf("expected lunch from salad keyword, got %v", salad.MealTimes)
	}
	if salad.Diet != domain.DietVeg {
		t.Fatalf("expected veg salad, got %q", salad.Diet)
	}
}

func TestLoadRejectsMissingNameColumn(t *testing.T) {
	_, err := NewLoader().Load(strings.NewReader("title,servings\nApple Pie,8\n"))
	if err == nil {
		t.Fatalf("expected error for header without recipe_name")
	}
}

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1 hr 25 mins", 85},
		{"2 hrs", 120},
		{"45 mins", 45},
		{"10 minutes", 10},
		{"", 0},
		{"overnight", 0},
	}
	for _, tc := range cases {
		if got := parseDurationMinutes(tc.in); got != tc.want {
			t.Errorf("parseDurationMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCuisineFromPath(t *testing.T) {
	if got := cuisineFromPath("/Desserts/Fruit Desserts/"); got != "Desserts" {
		t.Fatalf("got %q", got)
	}
	if got := cuisineFromPath(""); got != "" {
		t.Fatalf("expected empty cuisine, got %q", got)
	}
}
