// Package outbound defines the interfaces for external collaborators: the
// hosted model completion service, the local recipe and content stores, the
// external recipe API, and the content cache.
package outbound

import (
	"context"

	"github.com/caribbeanrecipe/assistant/internal/domain/assistant"
	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/google/uuid"
)

// ChatOptions carries optional sampling parameters for a chat call. Zero
// values fall back to the gateway defaults (temperature 0.7, max_tokens 1000,
// top_p 1).
type ChatOptions struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// ChatResult is the normalized outcome of one chat completion call.
type ChatResult struct {
	Content    string
	TokensUsed int
	Model      string
}

// ContentOptions carries optional parameters for content generation.
type ContentOptions struct {
	Category   string
	Difficulty string
	Model      string
}

// ModelGateway is the single point of contact with the hosted multi-model
// completion service. Every call is a network request to a paid endpoint; the
// gateway performs no caching, deduplication, retries, or rate limiting.
type ModelGateway interface {
	// Chat sends role-tagged messages to the given model. Non-2xx upstream
	// responses surface as errors carrying the status and body.
	Chat(ctx context.Context, messages []assistant.ChatMessage, model string, opts ChatOptions) (*ChatResult, error)

	// DetectIntent classifies a user message. It never returns an error:
	// any failure degrades to the general_question fallback intent.
	DetectIntent(ctx context.Context, userMessage string) assistant.IntentResult

	// ChatWithRecipeContext answers a question about a specific recipe,
	// serializing the recipe into the system prompt.
	ChatWithRecipeContext(ctx context.Context, rec *recipe.Recipe, userMessage string, history []assistant.ChatMessage, model string) (*ChatResult, error)

	// GenerateContent produces a kitchen tip, cooking hack, or food trend.
	// Fails with an explicit error when the model response contains no
	// parseable JSON object.
	GenerateContent(ctx context.Context, contentType string, opts ContentOptions) (*assistant.GeneratedContent, error)

	// GenerateGroceryList consolidates the recipes' ingredients into store
	// categories. The model performs the quantity merging.
	GenerateGroceryList(ctx context.Context, recipes []recipe.Recipe) (*assistant.GroceryList, error)

	// RecommendedModel maps a task description to a model identifier using
	// a fixed priority-ordered keyword policy.
	RecommendedModel(task string) string
}

// RecipeRepository provides read access to the local recipe store.
type RecipeRepository interface {
	// Search runs a filtered search: case-insensitive substring match on
	// title/description, optional cuisine/occasion filters, newest-first,
	// capped at the query limit.
	Search(ctx context.Context, q recipe.SearchQuery) ([]recipe.Summary, error)

	// FindByID loads one recipe with its ingredients and directions.
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// FindByIDs loads the matching recipes with their ingredients. Unknown
	// ids are skipped, not errors.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error)
}

// RecipeSearchAPI is the external recipe search service (Spoonacular).
type RecipeSearchAPI interface {
	// Search runs a complex search returning up to number results with
	// full recipe info and filled ingredients.
	Search(ctx context.Context, query string, number int) ([]recipe.Summary, error)

	// Details fetches a full recipe by external id, including nutrition.
	Details(ctx context.Context, id int) (*recipe.Recipe, error)

	// Random fetches random recipes, optionally filtered by tags.
	Random(ctx context.Context, number int, tags string) ([]recipe.Summary, error)
}

// ContentRepository persists and queries generated editorial content.
type ContentRepository interface {
	CreateTip(ctx context.Context, tip *content.KitchenTip) error
	CreateHack(ctx context.Context, hack *content.CookingHack) error
	CreateTrend(ctx context.Context, trend *content.TrendPost) error

	// Featured returns up to limit featured records per kind, newest-first.
	Featured(ctx context.Context, limit int) (*content.FeaturedSet, error)

	ListTips(ctx context.Context, limit int) ([]content.KitchenTip, error)
	ListHacks(ctx context.Context, limit int) ([]content.CookingHack, error)
	ListTrends(ctx context.Context, limit int) ([]content.TrendPost, error)

	TipBySlug(ctx context.Context, slug string) (*content.KitchenTip, error)
	HackBySlug(ctx context.Context, slug string) (*content.CookingHack, error)
	TrendBySlug(ctx context.Context, slug string) (*content.TrendPost, error)

	// SlugExists reports whether a slug is already taken within a kind.
	SlugExists(ctx context.Context, kind content.Kind, slug string) (bool, error)

	// SetFeatured toggles the featured flag on one record.
	SetFeatured(ctx context.Context, kind content.Kind, id uuid.UUID, featured bool) error

	// RecentIDs returns the ids of the limit most recently published
	// records of a kind, newest-first.
	RecentIDs(ctx context.Context, kind content.Kind, limit int) ([]uuid.UUID, error)

	// ReplaceFeatured atomically clears every featured flag of the kind
	// and sets it on exactly the selected ids.
	ReplaceFeatured(ctx context.Context, kind content.Kind, selected []uuid.UUID) error
}

// FeaturedCache is a read-through cache for the featured content set. A cache
// miss or unavailable cache returns (nil, nil); callers fall through to the
// repository.
type FeaturedCache interface {
	Get(ctx context.Context) (*content.FeaturedSet, error)
	Set(ctx context.Context, set *content.FeaturedSet) error
	Invalidate(ctx context.Context) error
}
