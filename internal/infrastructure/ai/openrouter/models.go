package openrouter

import "strings"

// Supported OpenRouter model identifiers.
const (
	ModelGPT4Turbo      = "openai/gpt-4-turbo"
	ModelGPT35Turbo     = "openai/gpt-3.5-turbo"
	ModelClaude3Opus    = "anthropic/claude-3-opus"
	ModelClaude35Sonnet = "anthropic/claude-3.5-sonnet"
	ModelGeminiPro      = "google/gemini-pro"
	ModelLlama370B      = "meta-llama/llama-3-70b-instruct"
	ModelGeminiFlash    = "google/gemini-flash-1.5:free"
	ModelLlama318B      = "meta-llama/llama-3.1-8b-instruct:free"
)

// DefaultModel is used when no routing rule matches.
const DefaultModel = ModelGPT4Turbo

// modelRule pairs task keywords with the model they route to. Rules are
// evaluated in order; the first match wins, so changing the order changes
// observable behavior.
type modelRule struct {
	keywords []string
	model    string
}

var modelRules = []modelRule{
	{keywords: []string{"creative", "content"}, model: ModelClaude35Sonnet},
	{keywords: []string{"quick", "simple"}, model: ModelGPT35Turbo},
	{keywords: []string{"complex", "reasoning"}, model: ModelGPT4Turbo},
	{keywords: []string{"search", "classify"}, model: ModelGeminiPro},
}

// RecommendedModel maps a task description to a model identifier. The policy
// is advisory keyword routing, not cost optimization.
func RecommendedModel(task string) string {
	taskLower := strings.ToLower(task)
	for _, rule := range modelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(taskLower, kw) {
				return rule.model
			}
		}
	}
	return DefaultModel
}
