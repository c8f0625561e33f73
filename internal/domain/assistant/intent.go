// Package assistant defines the domain types for the AI request orchestrator:
// intent classification results, the response envelope, and the payload shapes
// shared between the model gateway and the orchestrator.
package assistant

// Intent classifies a free-text user message into one of the supported
// fulfillment strategies.
type Intent string

const (
	IntentRecipeSearch      Intent = "recipe_search"
	IntentCookingHelp       Intent = "cooking_help"
	IntentSubstitution      Intent = "substitution"
	IntentMealPlanning      Intent = "meal_planning"
	IntentGroceryList       Intent = "grocery_list"
	IntentGeneralQuestion   Intent = "general_question"
	IntentContentGeneration Intent = "content_generation"
)

// IsValid reports whether the intent is one of the supported values.
func (i Intent) IsValid() bool {
	switch i {
	case IntentRecipeSearch, IntentCookingHelp, IntentSubstitution,
		IntentMealPlanning, IntentGroceryList, IntentGeneralQuestion,
		IntentContentGeneration:
		return true
	}
	return false
}

// IntentParams carries the parameters the classifier extracted from the user
// message. Only the fields the detected intent's handler reads are populated;
// a zero value means the handler falls back to its own default.
type IntentParams struct {
	// recipe_search
	Query    string `json:"query,omitempty"`
	Cuisine  string `json:"cuisine,omitempty"`
	Diet     string `json:"diet,omitempty"`
	Occasion string `json:"occasion,omitempty"`

	// content_generation
	ContentType string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// IntentResult is the outcome of classifying one user message. It is produced
// fresh per message and consumed immediately by the orchestrator's dispatch.
type IntentResult struct {
	Intent        Intent       `json:"intent"`
	Confidence    float64      `json:"confidence"`
	Params        IntentParams `json:"extractedParams"`
	ShouldCallAPI bool         `json:"shouldCallAPI"`
}

// FallbackIntent is the safe default returned whenever intent detection cannot
// produce a usable classification. Detection degrades to this instead of
// failing the request.
func FallbackIntent(confidence float64) IntentResult {
	return IntentResult{
		Intent:        IntentGeneralQuestion,
		Confidence:    confidence,
		ShouldCallAPI: false,
	}
}
