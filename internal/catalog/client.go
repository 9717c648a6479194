// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
client.go - Tandoor REST API client

Client Features:
  - Bearer token authentication
  - Outbound pacing with a token bucket (golang.org/x/time/rate)
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - Transparent paging: follows "next" links until exhausted
  - Accepts both paged envelopes and bare JSON arrays
  - Context support for cancellation and timeouts

Related Files:
  - circuit_breaker.go: gobreaker wrapper with the same method set
  - cached.go: TTL caching decorator over any Source
*/

//nolint:staticcheck // File documentation, not package doc
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/metrics"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// Catalog endpoints, relative to <url>/api/. They double as metric labels.
const (
	endpointRecipe    = "recipe"
	endpointKeyword   = "keyword"
	endpointFood      = "food"
	endpointBookEntry = "recipe-book-entry"
	endpointMealPlan  = "meal-plan"
	endpointMealType  = "meal-type"
)

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Source is every catalog operation the menu pipeline uses. Client,
// CircuitBreakerClient and CachedClient all implement it.
type Source interface {
	Ping(ctx context.Context) error
	FetchRecipes(ctx context.Context, params url.Values) ([]models.Recipe, error)
	FetchKeywordDescendants(ctx context.Context, id int) ([]models.Keyword, error)
	FetchFood(ctx context.Context, id int) (models.Food, error)
	FetchFoodDescendants(ctx context.Context, id int) ([]models.Food, error)
	FetchRecipesByFood(ctx context.Context, include, exclude []int) ([]models.Recipe, error)
	FetchBookRecipeIDs(ctx context.Context, bookID int) ([]int, error)
	FetchMealTypes(ctx context.Context) ([]tandoor.MealType, error)
	FetchMealPlans(ctx context.Context, from, to string, mealType int) ([]tandoor.MealPlan, error)
	CreateMealPlan(ctx context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error)
	DeleteMealPlan(ctx context.Context, id int) error
}

// Client handles communication with the Tandoor HTTP API.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP request.
//
// Example:
//
//	client := catalog.NewClient(&cfg.Tandoor)
//	if err := client.Ping(ctx); err != nil {
//	    log.Fatal("Tandoor not reachable:", err)
//	}
//	recipes, err := client.FetchRecipes(ctx, url.Values{"keywords": {"12"}})
type Client struct {
	baseURL        string
	token          string
	pageSize       int
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
}

// NewClient creates a Tandoor client. The base URL may carry a subpath and
// may or may not end in a slash; "/api/" is appended either way.
func NewClient(cfg *config.TandoorConfig) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if b := int(cfg.RequestsPerSecond); b > burst {
			burst = b
		}
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &Client{
		baseURL:  APIBaseURL(cfg.URL),
		token:    cfg.Token,
		pageSize: pageSize,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: 1 * time.Second, // Start with 1 second, doubles each retry
	}
}

// APIBaseURL returns "<url>/api/" with exactly one slash between the parts.
func APIBaseURL(raw string) string {
	return strings.TrimRight(raw, "/") + "/api/"
}

func (c *Client) endpointURL(path string, params url.Values) string {
	u := c.baseURL + path + "/"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// doRequestWithRateLimit performs an HTTP request with pacing and automatic
// rate limit handling. HTTP 429 is retried with exponential backoff
// (1s, 2s, 4s, ...) unless the server supplies Retry-After seconds.
func (c *Client) doRequestWithRateLimit(ctx context.Context, method, endpoint, reqURL string, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordCatalogRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordCatalogRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close() // will retry anyway

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}
		logging.Warn().Str("endpoint", endpoint).Int("attempt", attempt+1).Dur("delay", delay).Msg("Catalog rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// send performs a request and checks the response status against want.
// The caller closes the returned body.
func (c *Client) send(ctx context.Context, method, endpoint, reqURL string, body []byte, want ...int) (*http.Response, error) {
	resp, err := c.doRequestWithRateLimit(ctx, method, endpoint, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to make %s request: %w", endpoint, err)
	}
	for _, code := range want {
		if resp.StatusCode == code {
			return resp, nil
		}
	}
	defer resp.Body.Close()
	return nil, &StatusError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Body:       logging.SanitizeError(string(readBodyForError(resp.Body)), c.token),
	}
}

// getJSON issues a GET and decodes a 200 response into result.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	logging.Debug().Str("url", reqURL).Msg("Connecting to tandoor api")

	resp, err := c.send(ctx, http.MethodGet, endpoint, reqURL, nil, http.StatusOK)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := decodeJSONResponse(resp, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// decodeJSONResponse decodes HTTP response body into the provided result struct
func decodeJSONResponse(resp *http.Response, result interface{}) error {
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(result)
}

// fetchAll collects every record from a list endpoint. Paged envelopes are
// followed through their next links, which already carry the original
// query, so params are only sent on the first request. A bare JSON array is
// returned as is.
func fetchAll[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	reqURL := c.endpointURL(endpoint, params)
	var results []T

	for reqURL != "" {
		var raw json.RawMessage
		if err := c.getJSON(ctx, endpoint, reqURL, &raw); err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []T
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("failed to decode %s list: %w", endpoint, err)
			}
			return append(results, list...), nil
		}

		var page tandoor.Page[T]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("failed to decode %s page: %w", endpoint, err)
		}
		logging.Debug().Str("endpoint", endpoint).Int("results", len(page.Results)).Int("count", page.Count).Msg("Retrieved catalog page")
		results = append(results, page.Results...)

		reqURL = ""
		if page.Next != nil {
			reqURL = *page.Next
		}
	}
	return results, nil
}

// Ping verifies connectivity and that the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("page_size", "1")

	resp, err := c.send(ctx, http.MethodGet, endpointRecipe, c.endpointURL(endpointRecipe, params), nil, http.StatusOK)
	if err != nil {
		return fmt.Errorf("failed to ping Tandoor: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// FetchRecipes runs a recipe search with the given query parameters. The
// page size is added unless params already sets one. Records with an
// unparsable creation date are skipped with a warning.
func (c *Client) FetchRecipes(ctx context.Context, params url.Values) ([]models.Recipe, error) {
	q := cloneValues(params)
	if q.Get("page_size") == "" {
		q.Set("page_size", strconv.Itoa(c.pageSize))
	}

	records, err := fetchAll[tandoor.Recipe](ctx, c, endpointRecipe, q)
	if err != nil {
		return nil, err
	}
	recipes := convertRecipes(records)
	logging.Debug().Int("recipes", len(recipes)).Msg("Returning recipes")
	return recipes, nil
}

// FetchKeywordDescendants returns the keyword and all keywords below it.
func (c *Client) FetchKeywordDescendants(ctx context.Context, id int) ([]models.Keyword, error) {
	records, err := fetchAll[tandoor.Keyword](ctx, c, endpointKeyword, c.treeParams(id))
	if err != nil {
		return nil, fmt.Errorf("keyword %d: %w", id, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("keyword %d: %w", id, ErrNotFound)
	}

	keywords := make([]models.Keyword, 0, len(records))
	for i := range records {
		keywords = append(keywords, models.KeywordFromRecord(&records[i]))
	}
	logging.Debug().Int("keyword", id).Int("keywords", len(keywords)).Msg("Returning keyword tree")
	return keywords, nil
}

// FetchFood returns a single food.
func (c *Client) FetchFood(ctx context.Context, id int) (models.Food, error) {
	var rec tandoor.Food
	reqURL := c.baseURL + endpointFood + "/" + strconv.Itoa(id) + "/"
	if err := c.getJSON(ctx, endpointFood, reqURL, &rec); err != nil {
		return models.Food{}, fmt.Errorf("food %d: %w", id, err)
	}
	logging.Debug().Int("food", rec.ID).Str("name", rec.Name).Msg("Returning food")
	return models.FoodFromRecord(&rec), nil
}

// FetchFoodDescendants returns the food and all foods below it.
func (c *Client) FetchFoodDescendants(ctx context.Context, id int) ([]models.Food, error) {
	records, err := fetchAll[tandoor.Food](ctx, c, endpointFood, c.treeParams(id))
	if err != nil {
		return nil, fmt.Errorf("food %d: %w", id, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("food %d: %w", id, ErrNotFound)
	}

	foods := make([]models.Food, 0, len(records))
	for i := range records {
		foods = append(foods, models.FoodFromRecord(&records[i]))
	}
	logging.Debug().Int("food", id).Int("foods", len(foods)).Msg("Returning food tree")
	return foods, nil
}

// FetchRecipesByFood returns recipes containing any include food and none
// of the exclude foods. Matching happens server-side.
func (c *Client) FetchRecipesByFood(ctx context.Context, include, exclude []int) ([]models.Recipe, error) {
	params := url.Values{}
	for _, id := range include {
		params.Add("foods_or", strconv.Itoa(id))
	}
	for _, id := range exclude {
		params.Add("foods_or_not", strconv.Itoa(id))
	}
	return c.FetchRecipes(ctx, params)
}

// FetchBookRecipeIDs returns the ids of the recipes filed in a recipe book,
// in entry order without duplicates. An entry that names no recipe is an
// error rather than a silently smaller book.
func (c *Client) FetchBookRecipeIDs(ctx context.Context, bookID int) ([]int, error) {
	params := url.Values{}
	params.Set("book", strconv.Itoa(bookID))
	params.Set("page_size", strconv.Itoa(c.pageSize))

	entries, err := fetchAll[tandoor.BookEntry](ctx, c, endpointBookEntry, params)
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", bookID, err)
	}

	ids := make([]int, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for i := range entries {
		id := entries[i].Recipe
		if id == 0 {
			id = entries[i].RecipeContent.ID
		}
		if id == 0 {
			return nil, fmt.Errorf("book %d: entry %d has no recipe", bookID, entries[i].ID)
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FetchMealTypes lists the configured meal plan types.
func (c *Client) FetchMealTypes(ctx context.Context) ([]tandoor.MealType, error) {
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(c.pageSize))
	return fetchAll[tandoor.MealType](ctx, c, endpointMealType, params)
}

// FetchMealPlans lists meal plans between from and to (YYYY-MM-DD,
// inclusive). A zero mealType matches every type.
func (c *Client) FetchMealPlans(ctx context.Context, from, to string, mealType int) ([]tandoor.MealPlan, error) {
	params := url.Values{}
	params.Set("from_date", from)
	params.Set("to_date", to)
	if mealType > 0 {
		params.Set("meal_type", strconv.Itoa(mealType))
	}
	params.Set("page_size", strconv.Itoa(c.pageSize))
	return fetchAll[tandoor.MealPlan](ctx, c, endpointMealPlan, params)
}

// CreateMealPlan posts a new meal plan entry and returns the stored record.
func (c *Client) CreateMealPlan(ctx context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meal plan: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, endpointMealPlan, c.endpointURL(endpointMealPlan, nil), body, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var created tandoor.MealPlan
	if err := decodeJSONResponse(resp, &created); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpointMealPlan, err)
	}
	return &created, nil
}

// DeleteMealPlan removes a meal plan entry.
func (c *Client) DeleteMealPlan(ctx context.Context, id int) error {
	reqURL := c.baseURL + endpointMealPlan + "/" + strconv.Itoa(id) + "/"
	resp, err := c.send(ctx, http.MethodDelete, endpointMealPlan, reqURL, nil, http.StatusNoContent, http.StatusOK)
	if err != nil {
		return fmt.Errorf("meal plan %d: %w", id, err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) treeParams(id int) url.Values {
	params := url.Values{}
	params.Set("tree", strconv.Itoa(id))
	params.Set("page_size", strconv.Itoa(c.pageSize))
	return params
}

func convertRecipes(records []tandoor.Recipe) []models.Recipe {
	recipes := make([]models.Recipe, 0, len(records))
	for i := range records {
		r, err := models.RecipeFromRecord(&records[i])
		if err != nil {
			logging.Warn().Err(err).Msg("Skipping malformed recipe record")
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Verify interface implementation at compile time
var _ Source = (*Client)(nil)
