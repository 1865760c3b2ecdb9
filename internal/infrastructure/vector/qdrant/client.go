package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kitchenport/recipe-assistant/internal/core/domain"
)

// Client is the recipe collection adapter for a Qdrant-compatible store,
// spoken over plain HTTP. The store is a consumed black box: one point per
// recipe, cosine distance, metadata predicate pushed down as a payload
// filter.
type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return NewWithTimeout(baseURL, collection, 5*time.Second)
}

func NewWithTimeout(baseURL, collection string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) IndexRecipe(ctx context.Context, recipe domain.Recipe, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty recipe vector")
	}
	if err := c.ensureCollection(ctx, len(vector)); err != nil {
		return err
	}

	reqBody := map[string]any{
		"points": []map[string]any{
			{
				"id":      recipe.ID,
				"vector":  vector,
				"payload": recipePayload(recipe),
			},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("qdrant upsert status: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return nil
}

func (c *Client) Query(
	ctx context.Context,
	vector []float32,
	limit int,
	filter domain.FilterSpec,
) ([]domain.RecipeHit, error) {
	if limit <= 0 {
		limit = 10
	}

	reqBody := map[string]any{
		"query":        vector,
		"limit":        limit,
		"with_payload": true,
	}
	if must := buildFilterClauses(filter); len(must) > 0 {
		reqBody["filter"] = map[string]any{"must": must}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal query body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/query", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("qdrant query status: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	points, err := decodeQueryPoints(resp.Body)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecipeHit, 0, len(points))
	for _, p := range points {
		out = append(out, domain.RecipeHit{
			Recipe: recipeFromPayload(p.Payload),
			Score:  p.Score,
		})
	}
	return out, nil
}

func buildFilterClauses(filter domain.FilterSpec) []map[string]any {
	var must []map[string]any

	if filter.Diet == domain.DietVeg || filter.Diet == domain.DietNonVeg {
		must = append(must, map[string]any{
			"key":   "diet",
			"match": map[string]any{"value": string(filter.Diet)},
		})
	}
	for _, meals := range [][]domain.MealTime{filter.MealTimes, filter.MealTypes} {
		if len(meals) == 0 {
			continue
		}
		values := make([]string, 0, len(meals))
		for _, m := range meals {
			values = append(values, string(m))
		}
		must = append(must, map[string]any{
			"key":   "meal_times",
			"match": map[string]any{"any": values},
		})
	}
	if filter.MinCookTime != nil || filter.MaxCookTime != nil {
		rng := map[string]any{}
		if filter.MinCookTime != nil {
			rng["gte"] = *filter.MinCookTime
		}
		if filter.MaxCookTime != nil {
			rng["lte"] = *filter.MaxCookTime
		}
		must = append(must, map[string]any{"key": "cook_time_minutes", "range": rng})
	}
	if filter.ServingSize != nil {
		must = append(must, map[string]any{
			"key":   "serving_size",
			"range": map[string]any{"gte": *filter.ServingSize},
		})
	}
	return must
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal ensure collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create ensure collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ensure collection request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ensure collection status: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	c.ensureMu.Lock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
	c.ensureMu.Unlock()
	return nil
}
