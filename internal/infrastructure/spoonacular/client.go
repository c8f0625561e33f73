// Package spoonacular provides the client for the external recipe search API,
// used to supplement local search results.
package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/monitoring"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"go.uber.org/zap"
)

// SourceName tags search hits that came from this API.
const SourceName = "spoonacular"

// Client implements outbound.RecipeSearchAPI against the Spoonacular API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewClient creates a new Spoonacular client.
func NewClient(cfg config.SpoonacularConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: metrics,
	}
}

var _ outbound.RecipeSearchAPI = (*Client)(nil)

type searchResult struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	Summary        string `json:"summary"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
}

type searchResponse struct {
	Results      []searchResult `json:"results"`
	TotalResults int            `json:"totalResults"`
}

type nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type detailResponse struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	Summary        string `json:"summary"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
	Nutrition      *struct {
		Nutrients []nutrient `json:"nutrients"`
	} `json:"nutrition"`
	ExtendedIngredients []struct {
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Unit     string  `json:"unit"`
		Original string  `json:"original"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

// Search runs a complex search with full recipe information and filled
// ingredient data.
func (c *Client) Search(ctx context.Context, query string, number int) ([]recipe.Summary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(number))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")

	var resp searchResponse
	if err := c.get(ctx, "/recipes/complexSearch", params, &resp); err != nil {
		return nil, err
	}

	summaries := make([]recipe.Summary, len(resp.Results))
	for i, r := range resp.Results {
		summaries[i] = recipe.Summary{
			ID:             strconv.Itoa(r.ID),
			Title:          r.Title,
			Description:    StripHTML(r.Summary),
			ImageURL:       r.Image,
			ReadyInMinutes: r.ReadyInMinutes,
			Servings:       r.Servings,
			Source:         SourceName,
		}
	}
	return summaries, nil
}

// Details fetches a full recipe by external id, including nutrition.
func (c *Client) Details(ctx context.Context, id int) (*recipe.Recipe, error) {
	params := url.Values{}
	params.Set("includeNutrition", "true")

	var resp detailResponse
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), params, &resp); err != nil {
		return nil, err
	}

	prep, cook := EstimatePrepCookTime(resp.ReadyInMinutes)
	rec := &recipe.Recipe{
		Title:       resp.Title,
		Description: StripHTML(resp.Summary),
		ImageURL:    resp.Image,
		Servings:    resp.Servings,
		PrepTime:    prep,
		CookTime:    cook,
	}

	for _, ing := range resp.ExtendedIngredients {
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{
			Amount: strconv.FormatFloat(ing.Amount, 'f', -1, 64),
			Unit:   ing.Unit,
			Name:   ing.Name,
		})
	}

	if len(resp.AnalyzedInstructions) > 0 {
		for _, step := range resp.AnalyzedInstructions[0].Steps {
			rec.Directions = append(rec.Directions, recipe.Direction{
				StepNumber:  step.Number,
				Instruction: step.Step,
			})
		}
	}

	if resp.Nutrition != nil {
		rec.Nutrition = &recipe.Nutrition{
			Calories: int(NutrientValue(resp.Nutrition.Nutrients, "Calories")),
			Protein:  NutrientValue(resp.Nutrition.Nutrients, "Protein"),
			Carbs:    NutrientValue(resp.Nutrition.Nutrients, "Carbohydrates"),
			Fat:      NutrientValue(resp.Nutrition.Nutrients, "Fat"),
		}
	}

	return rec, nil
}

// Random fetches random recipes, optionally filtered by tags.
func (c *Client) Random(ctx context.Context, number int, tags string) ([]recipe.Summary, error) {
	params := url.Values{}
	params.Set("number", strconv.Itoa(number))
	if tags != "" {
		params.Set("tags", tags)
	}

	var resp struct {
		Recipes []searchResult `json:"recipes"`
	}
	if err := c.get(ctx, "/recipes/random", params, &resp); err != nil {
		return nil, err
	}

	summaries := make([]recipe.Summary, len(resp.Recipes))
	for i, r := range resp.Recipes {
		summaries[i] = recipe.Summary{
			ID:             strconv.Itoa(r.ID),
			Title:          r.Title,
			Description:    StripHTML(r.Summary),
			ImageURL:       r.Image,
			ReadyInMinutes: r.ReadyInMinutes,
			Servings:       r.Servings,
			Source:         SourceName,
		}
	}
	return summaries, nil
}

// get performs an authenticated GET and decodes the JSON response. Non-2xx
// responses are hard errors carrying the status and body.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.ObserveUpstream(SourceName, time.Since(start), err)
	if err != nil {
		return apperrors.NewExternalServiceError("Spoonacular", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewExternalServiceError("Spoonacular", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewUpstreamError("Spoonacular", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup and common entities from API summaries.
func StripHTML(html string) string {
	s := htmlTagPattern.ReplaceAllString(html, "")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
	return strings.TrimSpace(replacer.Replace(s))
}

// EstimatePrepCookTime splits a total ready time into prep and cook portions.
// The API only reports readyInMinutes; 25% prep / 75% cook fits most recipes.
func EstimatePrepCookTime(totalMinutes int) (prep, cook int) {
	prep = int(float64(totalMinutes)*0.25 + 0.5)
	cook = totalMinutes - prep
	return prep, cook
}

// DetermineDifficulty rates a recipe from ready time and ingredient count.
func DetermineDifficulty(readyInMinutes, ingredientCount int) string {
	if readyInMinutes <= 30 && ingredientCount <= 8 {
		return "Easy"
	}
	if readyInMinutes > 60 || ingredientCount > 15 {
		return "Hard"
	}
	return "Medium"
}

// NutrientValue looks up a nutrient amount by name, case-insensitively.
// Returns 0 when absent.
func NutrientValue(nutrients []nutrient, name string) float64 {
	for _, n := range nutrients {
		if strings.EqualFold(n.Name, name) {
			return n.Amount
		}
	}
	return 0
}
