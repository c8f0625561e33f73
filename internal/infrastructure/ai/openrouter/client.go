// Package openrouter provides the model gateway: a stateless client for the
// OpenRouter multi-model chat completion API. It hides model selection,
// prompt shaping, and response parsing from callers.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caribbeanrecipe/assistant/internal/domain/assistant"
	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/monitoring"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/caribbeanrecipe/assistant/pkg/jsonextract"
	"go.uber.org/zap"
)

// Default sampling parameters applied when the caller leaves options zero.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
	defaultTopP        = 1.0
)

// Client implements outbound.ModelGateway against the OpenRouter API.
// It holds only configuration; concurrent use is safe. Every call maps 1:1
// to an upstream request: no caching, no deduplication, no retries.
type Client struct {
	apiKey   string
	baseURL  string
	siteName string
	siteURL  string
	client   *http.Client
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewClient creates a new OpenRouter client.
func NewClient(cfg config.OpenRouterConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		siteName: cfg.SiteName,
		siteURL:  cfg.SiteURL,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		metrics:  metrics,
	}
}

var _ outbound.ModelGateway = (*Client)(nil)

// chatCompletionRequest is the OpenRouter request body.
type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []assistant.ChatMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
	MaxTokens   int                     `json:"max_tokens"`
	TopP        float64                 `json:"top_p"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends messages to the given model and returns the completion content
// with its token cost. Non-2xx responses surface as errors carrying the
// upstream status and body; retry policy is the caller's choice.
func (c *Client) Chat(ctx context.Context, messages []assistant.ChatMessage, model string, opts outbound.ChatOptions) (*outbound.ChatResult, error) {
	if model == "" {
		model = DefaultModel
	}

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	}
	if reqBody.Temperature == 0 {
		reqBody.Temperature = defaultTemperature
	}
	if reqBody.MaxTokens == 0 {
		reqBody.MaxTokens = defaultMaxTokens
	}
	if reqBody.TopP == 0 {
		reqBody.TopP = defaultTopP
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.ObserveUpstream("openrouter", time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("OpenRouter", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError("OpenRouter", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamError("OpenRouter", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var completion string
	if len(chatResp.Choices) > 0 {
		completion = chatResp.Choices[0].Message.Content
	}

	c.metrics.AddTokens(chatResp.Model, chatResp.Usage.TotalTokens)
	c.logger.Debug("chat completion finished",
		zap.String("model", chatResp.Model),
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens),
	)

	return &outbound.ChatResult{
		Content:    completion,
		TokensUsed: chatResp.Usage.TotalTokens,
		Model:      chatResp.Model,
	}, nil
}

// intentWire mirrors the JSON the classifier prompt requests.
type intentWire struct {
	Intent          string                 `json:"intent"`
	Confidence      float64                `json:"confidence"`
	ExtractedParams map[string]interface{} `json:"extractedParams"`
	ShouldCallAPI   bool                   `json:"shouldCallAPI"`
}

// DetectIntent classifies a user message into one of the supported intents.
// It never fails past this boundary: transport errors, missing JSON, and
// parse errors all degrade to the general_question fallback.
func (c *Client) DetectIntent(ctx context.Context, userMessage string) assistant.IntentResult {
	messages := []assistant.ChatMessage{
		{Role: assistant.RoleSystem, Content: intentSystemPrompt},
		{Role: assistant.RoleUser, Content: userMessage},
	}

	result, err := c.Chat(ctx, messages, ModelGPT35Turbo, outbound.ChatOptions{
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		c.logger.Warn("intent detection call failed, using fallback", zap.Error(err))
		return assistant.FallbackIntent(0.3)
	}

	var wire intentWire
	if err := jsonextract.Unmarshal(result.Content, &wire); err != nil {
		if errors.Is(err, jsonextract.ErrNoObject) {
			return assistant.FallbackIntent(0.5)
		}
		c.logger.Warn("intent detection returned unparseable JSON, using fallback", zap.Error(err))
		return assistant.FallbackIntent(0.3)
	}

	intent := assistant.Intent(wire.Intent)
	if !intent.IsValid() {
		return assistant.FallbackIntent(0.5)
	}

	return assistant.IntentResult{
		Intent:        intent,
		Confidence:    wire.Confidence,
		Params:        paramsForIntent(intent, wire.ExtractedParams),
		ShouldCallAPI: wire.ShouldCallAPI,
	}
}

// paramsForIntent lifts only the keys the detected intent's handler reads out
// of the open parameter map. Absent or non-string keys stay zero and the
// handler applies its own default.
func paramsForIntent(intent assistant.Intent, raw map[string]interface{}) assistant.IntentParams {
	var p assistant.IntentParams
	switch intent {
	case assistant.IntentRecipeSearch:
		p.Query = stringParam(raw, "query")
		p.Cuisine = stringParam(raw, "cuisine")
		p.Diet = stringParam(raw, "diet")
		p.Occasion = stringParam(raw, "occasion")
	case assistant.IntentContentGeneration:
		p.ContentType = stringParam(raw, "type")
		p.Category = stringParam(raw, "category")
		p.Difficulty = stringParam(raw, "difficulty")
	}
	return p
}

func stringParam(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ChatWithRecipeContext answers a cooking question about a specific recipe.
// The recipe is serialized into the system prompt; the prompt forbids
// fabricating ingredient quantities.
func (c *Client) ChatWithRecipeContext(ctx context.Context, rec *recipe.Recipe, userMessage string, history []assistant.ChatMessage, model string) (*outbound.ChatResult, error) {
	var sb strings.Builder
	sb.WriteString("You are a professional cooking assistant helping with this recipe:\n\n")
	fmt.Fprintf(&sb, "**%s**\n", rec.Title)
	fmt.Fprintf(&sb, "- Servings: %d\n", rec.Servings)
	fmt.Fprintf(&sb, "- Prep: %dmin | Cook: %dmin\n\n", rec.PrepTime, rec.CookTime)

	sb.WriteString("**Ingredients:**\n")
	for i, ing := range rec.Ingredients {
		if ing.Unit != "" {
			fmt.Fprintf(&sb, "%d. %s %s %s\n", i+1, ing.Amount, ing.Unit, ing.Name)
		} else {
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, ing.Amount, ing.Name)
		}
	}

	sb.WriteString("\n**Directions:**\n")
	for _, dir := range rec.Directions {
		fmt.Fprintf(&sb, "Step %d: %s\n", dir.StepNumber, dir.Instruction)
	}

	if rec.Nutrition != nil {
		sb.WriteString("\n**Nutrition (per serving):**\n")
		fmt.Fprintf(&sb, "Calories: %d | Protein: %gg | Carbs: %gg | Fat: %gg\n",
			rec.Nutrition.Calories, rec.Nutrition.Protein, rec.Nutrition.Carbs, rec.Nutrition.Fat)
	}

	sb.WriteString("\nAnswer cooking questions concisely and helpfully. If asked about substitutions, provide specific ratios and tips. Never hallucinate ingredient quantities.")

	messages := make([]assistant.ChatMessage, 0, len(history)+2)
	messages = append(messages, assistant.ChatMessage{Role: assistant.RoleSystem, Content: sb.String()})
	messages = append(messages, history...)
	messages = append(messages, assistant.ChatMessage{Role: assistant.RoleUser, Content: userMessage})

	return c.Chat(ctx, messages, model, outbound.ChatOptions{MaxTokens: 500})
}

// GenerateContent produces a kitchen tip, cooking hack, or food trend as
// structured content. It fails with an explicit error when the model response
// contains no JSON object, and with a distinct parse error (carrying the
// sanitized text) when extraction succeeds but parsing fails. No
// partial-content fallback exists.
func (c *Client) GenerateContent(ctx context.Context, contentType string, opts outbound.ContentOptions) (*assistant.GeneratedContent, error) {
	model := opts.Model
	if model == "" {
		model = ModelClaude35Sonnet
	}

	var prompt string
	switch contentType {
	case content.TypeCookingHack:
		hint := ""
		if opts.Difficulty != "" {
			hint = "Difficulty: " + opts.Difficulty
		}
		prompt = fmt.Sprintf(cookingHackPromptTemplate, hint)
	case content.TypeFoodTrend:
		prompt = foodTrendPrompt
	default:
		hint := ""
		if opts.Category != "" {
			hint = "Category: " + opts.Category
		}
		prompt = fmt.Sprintf(kitchenTipPromptTemplate, hint)
	}

	messages := []assistant.ChatMessage{
		{Role: assistant.RoleSystem, Content: contentCreatorSystemPrompt},
		{Role: assistant.RoleUser, Content: prompt},
	}

	// Higher temperature for variety between generations
	result, err := c.Chat(ctx, messages, model, outbound.ChatOptions{Temperature: 0.8})
	if err != nil {
		return nil, err
	}

	var generated assistant.GeneratedContent
	if err := jsonextract.Unmarshal(result.Content, &generated); err != nil {
		var parseErr *jsonextract.ParseError
		if errors.As(err, &parseErr) {
			c.logger.Error("generated content failed to parse",
				zap.Error(parseErr.Err),
				zap.String("json", parseErr.Sanitized),
			)
			return nil, apperrors.NewMalformedResponseError("failed to parse generated content", parseErr.Sanitized)
		}
		return nil, apperrors.NewMalformedResponseError("model did not return content in the expected format", result.Content)
	}

	return &generated, nil
}

// groceryWire mirrors the JSON the grocery prompt requests; totalItems is
// computed locally, not trusted from the model.
type groceryWire struct {
	ByCategory map[string][]assistant.GroceryItem `json:"byCategory"`
}

// GenerateGroceryList flattens the recipes' ingredient lines and asks the
// model to bucket them into store categories, merging duplicate quantities.
// The model performs the unit arithmetic; no local quantity parsing happens.
func (c *Client) GenerateGroceryList(ctx context.Context, recipes []recipe.Recipe) (*assistant.GroceryList, error) {
	var lines []string
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			if ing.Unit != "" {
				lines = append(lines, fmt.Sprintf("%s %s %s", ing.Amount, ing.Unit, ing.Name))
			} else {
				lines = append(lines, fmt.Sprintf("%s %s", ing.Amount, ing.Name))
			}
		}
	}

	messages := []assistant.ChatMessage{
		{Role: assistant.RoleSystem, Content: grocerySystemPrompt},
		{Role: assistant.RoleUser, Content: "Organize these ingredients:\n" + strings.Join(lines, "\n")},
	}

	result, err := c.Chat(ctx, messages, ModelGPT4Turbo, outbound.ChatOptions{
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, err
	}

	var wire groceryWire
	if err := jsonextract.Unmarshal(result.Content, &wire); err != nil {
		var parseErr *jsonextract.ParseError
		if errors.As(err, &parseErr) {
			return nil, apperrors.NewMalformedResponseError("failed to parse grocery list", parseErr.Sanitized)
		}
		return nil, apperrors.NewMalformedResponseError("model did not return a grocery list in the expected format", result.Content)
	}

	totalItems := 0
	for _, items := range wire.ByCategory {
		totalItems += len(items)
	}

	return &assistant.GroceryList{
		ByCategory: wire.ByCategory,
		TotalItems: totalItems,
	}, nil
}

// RecommendedModel implements outbound.ModelGateway.
func (c *Client) RecommendedModel(task string) string {
	return RecommendedModel(task)
}
