package assistant

import (
	"context"
	"errors"
	"testing"

	domain "github.com/caribbeanrecipe/assistant/internal/domain/assistant"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	intent domain.IntentResult

	chatFn        func(messages []domain.ChatMessage, model string, opts outbound.ChatOptions) (*outbound.ChatResult, error)
	contentFn     func(contentType string, opts outbound.ContentOptions) (*domain.GeneratedContent, error)
	groceryFn     func(recipes []recipe.Recipe) (*domain.GroceryList, error)
	recipeChatFn  func(rec *recipe.Recipe, message string) (*outbound.ChatResult, error)
	lastChatModel string
	lastChatOpts  outbound.ChatOptions
	lastMessages  []domain.ChatMessage
}

func (g *fakeGateway) Chat(ctx context.Context, messages []domain.ChatMessage, model string, opts outbound.ChatOptions) (*outbound.ChatResult, error) {
	g.lastChatModel = model
	g.lastChatOpts = opts
	g.lastMessages = messages
	if g.chatFn != nil {
		return g.chatFn(messages, model, opts)
	}
	return &outbound.ChatResult{Content: "chat reply", TokensUsed: 42, Model: model}, nil
}

func (g *fakeGateway) DetectIntent(ctx context.Context, userMessage string) domain.IntentResult {
	return g.intent
}

func (g *fakeGateway) ChatWithRecipeContext(ctx context.Context, rec *recipe.Recipe, userMessage string, history []domain.ChatMessage, model string) (*outbound.ChatResult, error) {
	if g.recipeChatFn != nil {
		return g.recipeChatFn(rec, userMessage)
	}
	return &outbound.ChatResult{Content: "about " + rec.Title, TokensUsed: 30}, nil
}

func (g *fakeGateway) GenerateContent(ctx context.Context, contentType string, opts outbound.ContentOptions) (*domain.GeneratedContent, error) {
	if g.contentFn != nil {
		return g.contentFn(contentType, opts)
	}
	return &domain.GeneratedContent{Title: "Generated"}, nil
}

func (g *fakeGateway) GenerateGroceryList(ctx context.Context, recipes []recipe.Recipe) (*domain.GroceryList, error) {
	if g.groceryFn != nil {
		return g.groceryFn(recipes)
	}
	return &domain.GroceryList{ByCategory: map[string][]domain.GroceryItem{}}, nil
}

func (g *fakeGateway) RecommendedModel(task string) string {
	return "model-for-" + task
}

type fakeRecipeRepo struct {
	searchFn    func(q recipe.SearchQuery) ([]recipe.Summary, error)
	findByIDFn  func(id uuid.UUID) (*recipe.Recipe, error)
	findByIDsFn func(ids []uuid.UUID) ([]recipe.Recipe, error)
}

func (r *fakeRecipeRepo) Search(ctx context.Context, q recipe.SearchQuery) ([]recipe.Summary, error) {
	if r.searchFn != nil {
		return r.searchFn(q)
	}
	return nil, nil
}

func (r *fakeRecipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(id)
	}
	return nil, errors.New("not found")
}

func (r *fakeRecipeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error) {
	if r.findByIDsFn != nil {
		return r.findByIDsFn(ids)
	}
	return nil, nil
}

type fakeSearchAPI struct {
	searchFn func(query string, number int) ([]recipe.Summary, error)
	called   bool
}

func (a *fakeSearchAPI) Search(ctx context.Context, query string, number int) ([]recipe.Summary, error) {
	a.called = true
	if a.searchFn != nil {
		return a.searchFn(query, number)
	}
	return nil, nil
}

func (a *fakeSearchAPI) Details(ctx context.Context, id int) (*recipe.Recipe, error) {
	return nil, errors.New("unused")
}

func (a *fakeSearchAPI) Random(ctx context.Context, number int, tags string) ([]recipe.Summary, error) {
	return nil, errors.New("unused")
}

func localHits(n int) []recipe.Summary {
	hits := make([]recipe.Summary, n)
	for i := range hits {
		hits[i] = recipe.Summary{ID: uuid.NewString(), Title: "Local", Source: "database"}
	}
	return hits
}

func newOrchestrator(gw *fakeGateway, repo *fakeRecipeRepo, api *fakeSearchAPI) *Orchestrator {
	return NewOrchestrator(gw, repo, api, zap.NewNop(), nil)
}

func TestRecipeSearchLocalOnlyWhenEnoughHits(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
		Params: domain.IntentParams{Query: "jerk chicken"},
	}}
	repo := &fakeRecipeRepo{searchFn: func(q recipe.SearchQuery) ([]recipe.Summary, error) {
		assert.Equal(t, "jerk chicken", q.Query)
		assert.Equal(t, 10, q.Limit)
		return localHits(5), nil
	}}
	api := &fakeSearchAPI{}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "find jerk chicken"})
	require.NoError(t, err)

	assert.False(t, api.called, "external API should not be consulted with enough local hits")
	assert.Equal(t, domain.ResponseRecipes, resp.Type)
	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceDatabase}, resp.Sources)
	assert.Equal(t, 42, resp.TokensUsed)

	results, ok := resp.Data.(recipe.SearchResults)
	require.True(t, ok)
	assert.Equal(t, 5, results.TotalResults)

	assert.Equal(t, "model-for-quick response", gw.lastChatModel)
	assert.Equal(t, 150, gw.lastChatOpts.MaxTokens)
}

func TestRecipeSearchSupplementsFromExternalAPI(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
		Params: domain.IntentParams{Query: "oxtail"},
	}}
	repo := &fakeRecipeRepo{searchFn: func(q recipe.SearchQuery) ([]recipe.Summary, error) {
		return localHits(2), nil
	}}
	api := &fakeSearchAPI{searchFn: func(query string, number int) ([]recipe.Summary, error) {
		assert.Equal(t, "oxtail", query)
		assert.Equal(t, 8, number)
		return []recipe.Summary{{ID: "99", Title: "External Oxtail", Source: "spoonacular"}}, nil
	}}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "oxtail recipes"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceDatabase, domain.SourceSpoonacular}, resp.Sources)
	results := resp.Data.(recipe.SearchResults)
	assert.Equal(t, 3, results.TotalResults)
	assert.Equal(t, "External Oxtail", results.Recipes[2].Title)
}

func TestRecipeSearchNoLocalHitsOmitsDatabaseSource(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
		Params: domain.IntentParams{Query: "pho"},
	}}
	repo := &fakeRecipeRepo{}
	api := &fakeSearchAPI{searchFn: func(query string, number int) ([]recipe.Summary, error) {
		assert.Equal(t, 10, number)
		return localHits(1), nil
	}}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "pho"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceSpoonacular}, resp.Sources)
}

func TestRecipeSearchDegradesOnStoreAndAPIFailure(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
		Params: domain.IntentParams{Query: "callaloo"},
	}}
	repo := &fakeRecipeRepo{searchFn: func(q recipe.SearchQuery) ([]recipe.Summary, error) {
		return nil, errors.New("db down")
	}}
	api := &fakeSearchAPI{searchFn: func(query string, number int) ([]recipe.Summary, error) {
		return nil, errors.New("api down")
	}}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "callaloo"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Source{domain.SourceAI}, resp.Sources)
	results := resp.Data.(recipe.SearchResults)
	assert.Equal(t, 0, results.TotalResults)
}

func TestRecipeSearchWithoutExtractedQuery(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
	}}
	var gotQuery string
	repo := &fakeRecipeRepo{searchFn: func(q recipe.SearchQuery) ([]recipe.Summary, error) {
		gotQuery = q.Query
		return localHits(2), nil
	}}
	api := &fakeSearchAPI{}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "show me something tasty"})
	require.NoError(t, err)

	assert.Empty(t, gotQuery, "raw message must not filter the local search")
	assert.False(t, api.called, "external API requires an extracted query")
	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceDatabase}, resp.Sources)
}

func TestRecipeSearchRecordsExternalSourceOnEmptyResult(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{
		Intent: domain.IntentRecipeSearch,
		Params: domain.IntentParams{Query: "breadfruit"},
	}}
	repo := &fakeRecipeRepo{}
	api := &fakeSearchAPI{searchFn: func(query string, number int) ([]recipe.Summary, error) {
		return nil, nil
	}}

	resp, err := newOrchestrator(gw, repo, api).HandleMessage(context.Background(), Request{Message: "breadfruit"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceSpoonacular}, resp.Sources)
	assert.Equal(t, 0, resp.Data.(recipe.SearchResults).TotalResults)
}

func TestRecipeSearchSummaryFailurePropagates(t *testing.T) {
	gw := &fakeGateway{
		intent: domain.IntentResult{Intent: domain.IntentRecipeSearch, Params: domain.IntentParams{Query: "x"}},
		chatFn: func(messages []domain.ChatMessage, model string, opts outbound.ChatOptions) (*outbound.ChatResult, error) {
			return nil, errors.New("gateway exploded")
		},
	}
	repo := &fakeRecipeRepo{searchFn: func(q recipe.SearchQuery) ([]recipe.Summary, error) {
		return localHits(6), nil
	}}

	_, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "x"})
	require.Error(t, err)
}

func TestSubstitutionUsesReasoningModelWithHistory(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentSubstitution}}

	history := []domain.ChatMessage{{Role: domain.RoleUser, Content: "earlier question"}}
	resp, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "what can I use instead of scotch bonnet?",
		History: history,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ResponseText, resp.Type)
	assert.Equal(t, "model-for-complex reasoning", gw.lastChatModel)
	assert.Equal(t, 400, gw.lastChatOpts.MaxTokens)
	require.Len(t, gw.lastMessages, 3)
	assert.Equal(t, domain.RoleSystem, gw.lastMessages[0].Role)
	assert.Contains(t, gw.lastMessages[0].Content, "substitution ratios")
	assert.Contains(t, gw.lastMessages[0].Content, "Never invent measurements")
	assert.Equal(t, "earlier question", gw.lastMessages[1].Content)
}

func TestMealPlanningUsesCreativeModel(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentMealPlanning}}

	_, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "plan my week"})
	require.NoError(t, err)
	assert.Equal(t, "model-for-creative content", gw.lastChatModel)
	assert.Equal(t, 800, gw.lastChatOpts.MaxTokens)
}

func TestGeneralQuestionDefaults(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentGeneralQuestion}}

	resp, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "why rest meat?"})
	require.NoError(t, err)
	assert.Equal(t, 500, gw.lastChatOpts.MaxTokens)
	assert.Contains(t, gw.lastMessages[0].Content, "chef assistant")
	assert.Equal(t, []domain.Source{domain.SourceAI}, resp.Sources)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestGroceryListWithoutRecipeIDsAsksForClarification(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentGroceryList}}

	resp, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "make me a grocery list"})
	require.NoError(t, err)

	assert.Equal(t, domain.ResponseText, resp.Type)
	assert.Equal(t, 0, resp.TokensUsed)
	assert.Equal(t, []domain.Source{domain.SourceAI}, resp.Sources)
	assert.Contains(t, resp.Message, "grocery list")
}

func TestGroceryListFromMessageAndContext(t *testing.T) {
	idA := uuid.New()
	idB := uuid.New()

	gw := &fakeGateway{
		intent: domain.IntentResult{Intent: domain.IntentGroceryList},
		groceryFn: func(recipes []recipe.Recipe) (*domain.GroceryList, error) {
			assert.Len(t, recipes, 2)
			return &domain.GroceryList{
				ByCategory: map[string][]domain.GroceryItem{
					"produce": {{Item: "tomatoes", Amount: "3 large"}},
					"pantry":  {{Item: "rice", Amount: "2 cups"}},
				},
				TotalItems: 2,
			}, nil
		},
	}
	var gotIDs []uuid.UUID
	repo := &fakeRecipeRepo{findByIDsFn: func(ids []uuid.UUID) ([]recipe.Recipe, error) {
		gotIDs = ids
		return []recipe.Recipe{{ID: idA, Title: "A"}, {ID: idB, Title: "B"}}, nil
	}}

	resp, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "shopping for recipe_id_" + idA.String() + " please",
		Context: RequestContext{RecipeID: idB.String()},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{idA, idB}, gotIDs)
	assert.Equal(t, domain.ResponseGroceryList, resp.Type)
	assert.Equal(t, 0, resp.TokensUsed)
	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceDatabase}, resp.Sources)
	assert.Contains(t, resp.Message, "**Produce**")
	assert.Contains(t, resp.Message, "- 3 large tomatoes")
	assert.Contains(t, resp.Message, "- 2 cups rice")
}

func TestGroceryListDeduplicatesIDs(t *testing.T) {
	id := uuid.New()
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentGroceryList}}
	repo := &fakeRecipeRepo{findByIDsFn: func(ids []uuid.UUID) ([]recipe.Recipe, error) {
		assert.Len(t, ids, 1)
		return []recipe.Recipe{{ID: id, Title: "A"}}, nil
	}}

	_, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "recipe-id-" + id.String(),
		Context: RequestContext{RecipeID: id.String()},
	})
	require.NoError(t, err)
}

func TestGroceryListUnknownRecipes(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentGroceryList}}
	repo := &fakeRecipeRepo{findByIDsFn: func(ids []uuid.UUID) ([]recipe.Recipe, error) {
		return nil, nil
	}}

	resp, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "recipe_id_" + uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseText, resp.Type)
	assert.Contains(t, resp.Message, "couldn't find")
}

func TestContentGenerationDefaultsToKitchenTip(t *testing.T) {
	var gotType string
	gw := &fakeGateway{
		intent: domain.IntentResult{Intent: domain.IntentContentGeneration},
		contentFn: func(contentType string, opts outbound.ContentOptions) (*domain.GeneratedContent, error) {
			gotType = contentType
			return &domain.GeneratedContent{Title: "Sharper Knives"}, nil
		},
	}

	resp, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "write a tip"})
	require.NoError(t, err)

	assert.Equal(t, "kitchen-tip", gotType)
	assert.Equal(t, domain.ResponseContent, resp.Type)
	assert.Equal(t, 0, resp.TokensUsed)
	assert.Contains(t, resp.Message, "Sharper Knives")
}

func TestContentGenerationHonorsTypeHints(t *testing.T) {
	var gotType string
	gw := &fakeGateway{
		intent: domain.IntentResult{
			Intent: domain.IntentContentGeneration,
			Params: domain.IntentParams{ContentType: "cooking-hack", Difficulty: "medium"},
		},
		contentFn: func(contentType string, opts outbound.ContentOptions) (*domain.GeneratedContent, error) {
			gotType = contentType
			assert.Equal(t, "medium", opts.Difficulty)
			return &domain.GeneratedContent{Title: "Hack"}, nil
		},
	}

	_, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "hack please"})
	require.NoError(t, err)
	assert.Equal(t, "cooking-hack", gotType)
}

func TestCookingHelpWithRecipeContext(t *testing.T) {
	id := uuid.New()
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentCookingHelp}}
	repo := &fakeRecipeRepo{findByIDFn: func(got uuid.UUID) (*recipe.Recipe, error) {
		assert.Equal(t, id, got)
		return &recipe.Recipe{ID: id, Title: "Pepper Pot"}, nil
	}}

	resp, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "how long do I simmer?",
		Context: RequestContext{RecipeID: id.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, "about Pepper Pot", resp.Message)
	assert.Equal(t, []domain.Source{domain.SourceAI, domain.SourceDatabase}, resp.Sources)
}

func TestCookingHelpFallsBackWhenRecipeMissing(t *testing.T) {
	gw := &fakeGateway{intent: domain.IntentResult{Intent: domain.IntentCookingHelp}}
	repo := &fakeRecipeRepo{findByIDFn: func(id uuid.UUID) (*recipe.Recipe, error) {
		return nil, errors.New("not found")
	}}

	resp, err := newOrchestrator(gw, repo, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{
		Message: "help",
		Context: RequestContext{RecipeID: uuid.NewString()},
	})
	require.NoError(t, err)
	assert.Equal(t, "chat reply", resp.Message)
	assert.Equal(t, []domain.Source{domain.SourceAI}, resp.Sources)
}

func TestChatErrorPropagates(t *testing.T) {
	gw := &fakeGateway{
		intent: domain.IntentResult{Intent: domain.IntentGeneralQuestion},
		chatFn: func(messages []domain.ChatMessage, model string, opts outbound.ChatOptions) (*outbound.ChatResult, error) {
			return nil, errors.New("upstream 500")
		},
	}

	_, err := newOrchestrator(gw, &fakeRecipeRepo{}, &fakeSearchAPI{}).HandleMessage(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
}

func TestExtractRecipeIDs(t *testing.T) {
	id := uuid.New()
	ids := extractRecipeIDs("see recipe_id_"+id.String()+" and junk recipe-id-not-a-uuid", "")
	require.Len(t, ids, 1)
	assert.Equal(t, id, ids[0])
}
