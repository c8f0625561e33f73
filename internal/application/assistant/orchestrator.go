// Package assistant implements the AI request orchestrator: it classifies an
// incoming message, dispatches to the matching fulfillment strategy, fuses
// results from the local store and external APIs, and returns the normalized
// response envelope.
package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/caribbeanrecipe/assistant/internal/domain/assistant"
	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/monitoring"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const chefSystemPrompt = `You are a knowledgeable Caribbean cuisine chef assistant. Help users with cooking questions, techniques, and recipe advice. Be warm, practical, and concise.`

const substitutionSystemPrompt = `You are a culinary expert specializing in ingredient substitutions. Provide exact substitution ratios (e.g., "1 cup buttermilk = 1 cup milk + 1 tbsp lemon juice") and explain how the substitute affects flavor and texture. Never invent measurements: if you do not know the exact ratio, say so instead of guessing.`

// searchResultTarget is how many fused results a recipe search aims for; the
// external API is only consulted when the local store falls short of
// supplementThreshold hits.
const (
	searchResultTarget  = 10
	supplementThreshold = 5
)

var recipeIDPattern = regexp.MustCompile(`recipe[_-]id[_-]([a-z0-9-]+)`)

// RequestContext carries optional hints sent alongside the user message.
type RequestContext struct {
	RecipeID    string `json:"recipeId,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Request is one user message plus its conversation history.
type Request struct {
	Message string                  `json:"message"`
	Context RequestContext          `json:"context"`
	History []assistant.ChatMessage `json:"history,omitempty"`
}

// Orchestrator routes user messages to fulfillment strategies.
type Orchestrator struct {
	gateway outbound.ModelGateway
	recipes outbound.RecipeRepository
	search  outbound.RecipeSearchAPI
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewOrchestrator creates a new request orchestrator.
func NewOrchestrator(
	gateway outbound.ModelGateway,
	recipes outbound.RecipeRepository,
	search outbound.RecipeSearchAPI,
	logger *zap.Logger,
	metrics *monitoring.Metrics,
) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		recipes: recipes,
		search:  search,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleMessage classifies the message and dispatches to the matching
// strategy. Classification itself never fails; strategy errors propagate so
// the transport layer can map them.
func (o *Orchestrator) HandleMessage(ctx context.Context, req Request) (*assistant.Response, error) {
	intent := o.gateway.DetectIntent(ctx, req.Message)
	o.metrics.ObserveIntent(string(intent.Intent))
	o.logger.Info("intent detected",
		zap.String("intent", string(intent.Intent)),
		zap.Float64("confidence", intent.Confidence),
	)

	switch intent.Intent {
	case assistant.IntentRecipeSearch:
		return o.handleRecipeSearch(ctx, req, intent)
	case assistant.IntentSubstitution:
		return o.chatResponse(ctx, req, substitutionSystemPrompt, o.gateway.RecommendedModel("complex reasoning"), 400)
	case assistant.IntentGroceryList:
		return o.handleGroceryList(ctx, req)
	case assistant.IntentMealPlanning:
		return o.chatResponse(ctx, req, chefSystemPrompt, o.gateway.RecommendedModel("creative content"), 800)
	case assistant.IntentContentGeneration:
		return o.handleContentGeneration(ctx, req, intent)
	case assistant.IntentCookingHelp:
		if req.Context.RecipeID != "" {
			return o.handleRecipeContextChat(ctx, req)
		}
		return o.chatResponse(ctx, req, chefSystemPrompt, o.gateway.RecommendedModel("complex reasoning"), 500)
	default:
		return o.chatResponse(ctx, req, chefSystemPrompt, o.gateway.RecommendedModel("complex reasoning"), 500)
	}
}

// handleRecipeSearch fuses local store hits with external API hits. Store and
// API failures degrade to fewer results; only the summary completion can fail
// the request.
func (o *Orchestrator) handleRecipeSearch(ctx context.Context, req Request, intent assistant.IntentResult) (*assistant.Response, error) {
	// Only the classifier-extracted query filters the search. Without one
	// the local store returns its newest recipes unfiltered and the
	// external API is not consulted.
	query := intent.Params.Query

	sources := []assistant.Source{assistant.SourceAI}
	var results []recipe.Summary

	local, err := o.recipes.Search(ctx, recipe.SearchQuery{
		Query:    query,
		Cuisine:  intent.Params.Cuisine,
		Occasion: intent.Params.Occasion,
		Limit:    searchResultTarget,
	})
	if err != nil {
		o.logger.Error("local recipe search failed", zap.Error(err))
	} else {
		results = append(results, local...)
		if len(local) > 0 {
			sources = append(sources, assistant.SourceDatabase)
		}
	}

	if len(results) < supplementThreshold && query != "" {
		external, err := o.search.Search(ctx, query, searchResultTarget-len(results))
		if err != nil {
			o.logger.Error("external recipe search failed", zap.Error(err))
		} else {
			// The call itself is recorded as a source, even when it
			// returns nothing.
			results = append(results, external...)
			sources = append(sources, assistant.SourceSpoonacular)
		}
	}

	summary, err := o.gateway.Chat(ctx, []assistant.ChatMessage{
		{Role: assistant.RoleSystem, Content: chefSystemPrompt},
		{Role: assistant.RoleUser, Content: fmt.Sprintf(
			"The user asked: %q. We found %d recipes matching their request. Write a brief, friendly 1-2 sentence message introducing the results.",
			req.Message, len(results),
		)},
	}, o.gateway.RecommendedModel("quick response"), outbound.ChatOptions{MaxTokens: 150})
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Type:    assistant.ResponseRecipes,
		Message: summary.Content,
		Data: recipe.SearchResults{
			Recipes:      results,
			TotalResults: len(results),
		},
		TokensUsed: summary.TokensUsed,
		Sources:    sources,
	}, nil
}

// handleGroceryList collects recipe ids from the message and context, loads
// them, and asks the model to consolidate their ingredients.
func (o *Orchestrator) handleGroceryList(ctx context.Context, req Request) (*assistant.Response, error) {
	ids := extractRecipeIDs(req.Message, req.Context.RecipeID)
	if len(ids) == 0 {
		return &assistant.Response{
			Type:    assistant.ResponseText,
			Message: "I'd be happy to create a grocery list for you! Which recipes would you like to shop for?",
			Sources: []assistant.Source{assistant.SourceAI},
		}, nil
	}

	recipes, err := o.recipes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return &assistant.Response{
			Type:    assistant.ResponseText,
			Message: "I couldn't find those recipes. Could you check the recipe links and try again?",
			Sources: []assistant.Source{assistant.SourceAI},
		}, nil
	}

	list, err := o.gateway.GenerateGroceryList(ctx, recipes)
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Type:    assistant.ResponseGroceryList,
		Message: formatGroceryMessage(list),
		Data:    list,
		Sources: []assistant.Source{assistant.SourceAI, assistant.SourceDatabase},
	}, nil
}

// handleContentGeneration delegates to the gateway's content generator. The
// type hint comes from the classifier or the request context, defaulting to a
// kitchen tip.
func (o *Orchestrator) handleContentGeneration(ctx context.Context, req Request, intent assistant.IntentResult) (*assistant.Response, error) {
	contentType := intent.Params.ContentType
	if contentType == "" {
		contentType = req.Context.ContentType
	}
	if contentType == "" {
		contentType = content.TypeKitchenTip
	}

	generated, err := o.gateway.GenerateContent(ctx, contentType, outbound.ContentOptions{
		Category:   intent.Params.Category,
		Difficulty: intent.Params.Difficulty,
	})
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Type:    assistant.ResponseContent,
		Message: fmt.Sprintf("Here's a fresh %s for you: %s", strings.ReplaceAll(contentType, "-", " "), generated.Title),
		Data:    generated,
		Sources: []assistant.Source{assistant.SourceAI},
	}, nil
}

// handleRecipeContextChat answers a cooking question grounded in one recipe.
func (o *Orchestrator) handleRecipeContextChat(ctx context.Context, req Request) (*assistant.Response, error) {
	id, err := uuid.Parse(req.Context.RecipeID)
	if err != nil {
		return o.chatResponse(ctx, req, chefSystemPrompt, o.gateway.RecommendedModel("complex reasoning"), 500)
	}

	rec, err := o.recipes.FindByID(ctx, id)
	if err != nil {
		o.logger.Warn("recipe context lookup failed, answering without it",
			zap.String("recipe_id", req.Context.RecipeID),
			zap.Error(err),
		)
		return o.chatResponse(ctx, req, chefSystemPrompt, o.gateway.RecommendedModel("complex reasoning"), 500)
	}

	result, err := o.gateway.ChatWithRecipeContext(ctx, rec, req.Message, req.History, o.gateway.RecommendedModel("complex reasoning"))
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Type:       assistant.ResponseText,
		Message:    result.Content,
		TokensUsed: result.TokensUsed,
		Sources:    []assistant.Source{assistant.SourceAI, assistant.SourceDatabase},
	}, nil
}

// chatResponse runs a persona completion with history.
func (o *Orchestrator) chatResponse(ctx context.Context, req Request, systemPrompt, model string, maxTokens int) (*assistant.Response, error) {
	messages := make([]assistant.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, assistant.ChatMessage{Role: assistant.RoleSystem, Content: systemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, assistant.ChatMessage{Role: assistant.RoleUser, Content: req.Message})

	result, err := o.gateway.Chat(ctx, messages, model, outbound.ChatOptions{MaxTokens: maxTokens})
	if err != nil {
		return nil, err
	}

	return &assistant.Response{
		Type:       assistant.ResponseText,
		Message:    result.Content,
		TokensUsed: result.TokensUsed,
		Sources:    []assistant.Source{assistant.SourceAI},
	}, nil
}

// extractRecipeIDs collects recipe ids mentioned in the message, merged with
// the context hint. Duplicates and unparseable ids are dropped.
func extractRecipeIDs(message, contextID string) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID

	add := func(raw string) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, match := range recipeIDPattern.FindAllStringSubmatch(strings.ToLower(message), -1) {
		add(match[1])
	}
	if contextID != "" {
		add(contextID)
	}
	return ids
}

// formatGroceryMessage renders the consolidated list as readable bullets.
func formatGroceryMessage(list *assistant.GroceryList) string {
	var b strings.Builder
	b.WriteString("Here's your grocery list:\n")
	for _, category := range []string{"produce", "dairy", "meat", "pantry", "spices", "frozen", "bakery", "other"} {
		items, ok := list.ByCategory[category]
		if !ok || len(items) == 0 {
			continue
		}
		b.WriteString("\n**" + strings.ToUpper(category[:1]) + category[1:] + "**\n")
		for _, item := range items {
			if item.Amount != "" {
				b.WriteString(fmt.Sprintf("- %s %s\n", item.Amount, item.Item))
			} else {
				b.WriteString(fmt.Sprintf("- %s\n", item.Item))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
