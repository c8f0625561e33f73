package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caribbeanrecipe/assistant/internal/domain/assistant"
	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// completionBody builds an upstream response whose single choice contains the
// given content.
func completionBody(contentText string, totalTokens int) string {
	resp := map[string]interface{}{
		"id":    "gen-123",
		"model": ModelGPT35Turbo,
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"role": "assistant", "content": contentText},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     totalTokens / 2,
			"completion_tokens": totalTokens - totalTokens/2,
			"total_tokens":      totalTokens,
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.OpenRouterConfig{
		APIKey:   "test-key",
		BaseURL:  srv.URL,
		SiteName: "CaribbeanRecipe AI",
		SiteURL:  "https://caribbeanrecipe.com",
	}, zap.NewNop(), nil)
}

func TestChat(t *testing.T) {
	t.Run("sends attribution headers and default sampling parameters", func(t *testing.T) {
		var gotReq chatCompletionRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "https://caribbeanrecipe.com", r.Header.Get("HTTP-Referer"))
			assert.Equal(t, "CaribbeanRecipe AI", r.Header.Get("X-Title"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			fmt.Fprint(w, completionBody("hello", 42))
		})

		result, err := client.Chat(context.Background(), []assistant.ChatMessage{
			{Role: assistant.RoleUser, Content: "hi"},
		}, ModelGPT35Turbo, outbound.ChatOptions{})

		require.NoError(t, err)
		assert.Equal(t, "hello", result.Content)
		assert.Equal(t, 42, result.TokensUsed)
		assert.Equal(t, ModelGPT35Turbo, result.Model)

		assert.Equal(t, defaultTemperature, gotReq.Temperature)
		assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
		assert.Equal(t, defaultTopP, gotReq.TopP)
	})

	t.Run("caller options override defaults", func(t *testing.T) {
		var gotReq chatCompletionRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			fmt.Fprint(w, completionBody("ok", 1))
		})

		_, err := client.Chat(context.Background(), nil, ModelGPT4Turbo, outbound.ChatOptions{
			Temperature: 0.3,
			MaxTokens:   200,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.3, gotReq.Temperature)
		assert.Equal(t, 200, gotReq.MaxTokens)
	})

	t.Run("non-2xx carries upstream status and body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":"rate limited"}`)
		})

		_, err := client.Chat(context.Background(), nil, ModelGPT4Turbo, outbound.ChatOptions{})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("empty choices yields empty content", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"gen-1","model":"m","choices":[],"usage":{"total_tokens":7}}`)
		})

		result, err := client.Chat(context.Background(), nil, "", outbound.ChatOptions{})
		require.NoError(t, err)
		assert.Empty(t, result.Content)
		assert.Equal(t, 7, result.TokensUsed)
	})
}

func TestDetectIntent(t *testing.T) {
	t.Run("parses classification with search params", func(t *testing.T) {
		body := completionBody(`{"intent":"recipe_search","confidence":0.92,"extractedParams":{"query":"jerk chicken","cuisine":"caribbean"},"shouldCallAPI":true}`, 50)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})

		result := client.DetectIntent(context.Background(), "find me jerk chicken recipes")
		assert.Equal(t, assistant.IntentRecipeSearch, result.Intent)
		assert.Equal(t, 0.92, result.Confidence)
		assert.Equal(t, "jerk chicken", result.Params.Query)
		assert.Equal(t, "caribbean", result.Params.Cuisine)
		assert.True(t, result.ShouldCallAPI)
	})

	t.Run("content params lifted only for content_generation", func(t *testing.T) {
		body := completionBody(`{"intent":"content_generation","confidence":0.8,"extractedParams":{"type":"cooking-hack","difficulty":"easy"},"shouldCallAPI":false}`, 50)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})

		result := client.DetectIntent(context.Background(), "give me a cooking hack")
		assert.Equal(t, assistant.IntentContentGeneration, result.Intent)
		assert.Equal(t, "cooking-hack", result.Params.ContentType)
		assert.Equal(t, "easy", result.Params.Difficulty)
		assert.Empty(t, result.Params.Query)
	})

	t.Run("prose without JSON falls back", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionBody("I think the user wants recipes.", 30))
		})

		result := client.DetectIntent(context.Background(), "anything")
		assert.Equal(t, assistant.IntentGeneralQuestion, result.Intent)
		assert.Equal(t, 0.5, result.Confidence)
		assert.False(t, result.ShouldCallAPI)
	})

	t.Run("upstream failure falls back instead of erroring", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		result := client.DetectIntent(context.Background(), "anything")
		assert.Equal(t, assistant.IntentGeneralQuestion, result.Intent)
		assert.Equal(t, 0.3, result.Confidence)
		assert.False(t, result.ShouldCallAPI)
	})

	t.Run("unknown intent name falls back", func(t *testing.T) {
		body := completionBody(`{"intent":"order_pizza","confidence":0.9,"extractedParams":{},"shouldCallAPI":false}`, 20)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})

		result := client.DetectIntent(context.Background(), "anything")
		assert.Equal(t, assistant.IntentGeneralQuestion, result.Intent)
	})
}

func TestGenerateContent(t *testing.T) {
	t.Run("parses content with unescaped newlines in string values", func(t *testing.T) {
		raw := "Here is your tip:\n{\"title\": \"Sharpen Smart\", \"content\": \"Paragraph one.\nParagraph two.\", \"category\": \"knife-skills\"}"
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionBody(raw, 120))
		})

		generated, err := client.GenerateContent(context.Background(), content.TypeKitchenTip, outbound.ContentOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Sharpen Smart", generated.Title)
		assert.Equal(t, "Paragraph one.\nParagraph two.", generated.Content)
		assert.Equal(t, "knife-skills", generated.Category)
	})

	t.Run("no JSON object is a terminal error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionBody("Sorry, I cannot do that.", 10))
		})

		_, err := client.GenerateContent(context.Background(), content.TypeKitchenTip, outbound.ContentOptions{})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeAIResponseMalformed))
	})

	t.Run("unparseable JSON error includes the offending text", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionBody(`{"title": "Broken", "content": oops}`, 10))
		})

		_, err := client.GenerateContent(context.Background(), content.TypeFoodTrend, outbound.ContentOptions{})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeAIResponseMalformed))
		assert.Contains(t, err.Error(), "oops")
	})

	t.Run("hack difficulty hint reaches the prompt", func(t *testing.T) {
		var gotReq chatCompletionRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			fmt.Fprint(w, completionBody(`{"title":"T","content":"C","difficulty":"advanced"}`, 10))
		})

		generated, err := client.GenerateContent(context.Background(), content.TypeCookingHack, outbound.ContentOptions{Difficulty: "advanced"})
		require.NoError(t, err)
		assert.Equal(t, "advanced", generated.Difficulty)
		require.Len(t, gotReq.Messages, 2)
		assert.Contains(t, gotReq.Messages[1].Content, "Difficulty: advanced")
		assert.Equal(t, 0.8, gotReq.Temperature)
	})
}

func TestGenerateGroceryList(t *testing.T) {
	t.Run("computes total items locally", func(t *testing.T) {
		raw := `{"byCategory":{"dairy":[{"item":"milk","amount":"3 cups"}],"produce":[{"item":"tomatoes","amount":"4"},{"item":"onions","amount":"2"}]}}`
		var gotReq chatCompletionRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			fmt.Fprint(w, completionBody(raw, 200))
		})

		recipes := []recipe.Recipe{
			{Title: "A", Ingredients: []recipe.Ingredient{{Amount: "1", Unit: "cup", Name: "milk"}}},
			{Title: "B", Ingredients: []recipe.Ingredient{{Amount: "2", Unit: "cups", Name: "milk"}, {Amount: "4", Name: "tomatoes"}}},
		}

		list, err := client.GenerateGroceryList(context.Background(), recipes)
		require.NoError(t, err)
		assert.Equal(t, 3, list.TotalItems)
		assert.Len(t, list.ByCategory["produce"], 2)

		// every ingredient line is handed to the model
		require.Len(t, gotReq.Messages, 2)
		assert.Contains(t, gotReq.Messages[1].Content, "1 cup milk")
		assert.Contains(t, gotReq.Messages[1].Content, "2 cups milk")
		assert.Contains(t, gotReq.Messages[1].Content, "4 tomatoes")
	})

	t.Run("missing JSON is a terminal error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionBody("no list for you", 10))
		})

		_, err := client.GenerateGroceryList(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeAIResponseMalformed))
	})
}

func TestChatWithRecipeContext(t *testing.T) {
	rec := &recipe.Recipe{
		Title:    "Oxtail Stew",
		Servings: 4,
		PrepTime: 30,
		CookTime: 180,
		Ingredients: []recipe.Ingredient{
			{Amount: "2", Unit: "lbs", Name: "oxtail"},
			{Amount: "1", Name: "scotch bonnet pepper"},
		},
		Directions: []recipe.Direction{
			{StepNumber: 1, Instruction: "Brown the oxtail."},
			{StepNumber: 2, Instruction: "Simmer until tender."},
		},
		Nutrition: &recipe.Nutrition{Calories: 520, Protein: 40, Carbs: 12, Fat: 30},
	}

	var gotReq chatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, completionBody("Simmer low and slow.", 80))
	})

	history := []assistant.ChatMessage{
		{Role: assistant.RoleUser, Content: "Can I use a pressure cooker?"},
		{Role: assistant.RoleAssistant, Content: "Yes, about 45 minutes at high pressure."},
	}

	result, err := client.ChatWithRecipeContext(context.Background(), rec, "How long on the stove?", history, ModelGPT4Turbo)
	require.NoError(t, err)
	assert.Equal(t, "Simmer low and slow.", result.Content)
	assert.Equal(t, 80, result.TokensUsed)

	require.Len(t, gotReq.Messages, 4)
	system := gotReq.Messages[0].Content
	assert.Contains(t, system, "**Oxtail Stew**")
	assert.Contains(t, system, "1. 2 lbs oxtail")
	assert.Contains(t, system, "2. 1 scotch bonnet pepper")
	assert.Contains(t, system, "Step 2: Simmer until tender.")
	assert.Contains(t, system, "Calories: 520")
	assert.Contains(t, system, "Never hallucinate ingredient quantities")
	assert.Equal(t, assistant.RoleUser, gotReq.Messages[3].Role)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestRecommendedModel(t *testing.T) {
	tests := []struct {
		task string
		want string
	}{
		{"creative writing", ModelClaude35Sonnet},
		{"content generation", ModelClaude35Sonnet},
		{"quick response", ModelGPT35Turbo},
		{"simple lookup", ModelGPT35Turbo},
		{"complex analysis", ModelGPT4Turbo},
		{"reasoning", ModelGPT4Turbo},
		{"search ranking", ModelGeminiPro},
		{"classify this", ModelGeminiPro},
		{"anything else", DefaultModel},
		{"", DefaultModel},
		// first matching rule wins on overlapping keywords
		{"creative search", ModelClaude35Sonnet},
		{"quick classify", ModelGPT35Turbo},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendedModel(tt.task))
		})
	}
}
