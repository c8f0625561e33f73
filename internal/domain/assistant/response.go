package assistant

// ResponseType tags the shape of a response envelope's data payload.
type ResponseType string

const (
	ResponseText        ResponseType = "text"
	ResponseRecipes     ResponseType = "recipes"
	ResponseGroceryList ResponseType = "grocery_list"
	ResponseContent     ResponseType = "content"
)

// Source identifies a collaborator that contributed to a response. Sources are
// recorded for observability only, never for correctness.
type Source string

const (
	SourceDatabase    Source = "database"
	SourceSpoonacular Source = "spoonacular"
	SourceAI          Source = "ai"
)

// Response is the normalized envelope returned by the orchestrator for every
// handled request.
type Response struct {
	Type       ResponseType `json:"type"`
	Message    string       `json:"message"`
	Data       interface{}  `json:"data,omitempty"`
	TokensUsed int          `json:"tokensUsed"`
	Sources    []Source     `json:"sources"`
}

// Role tags a chat message participant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in a model conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GroceryItem is a single consolidated shopping line.
type GroceryItem struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// GroceryList buckets consolidated ingredients by store category. Category
// keys are drawn from: produce, dairy, meat, pantry, spices, frozen, bakery,
// other.
type GroceryList struct {
	ByCategory map[string][]GroceryItem `json:"byCategory"`
	TotalItems int                      `json:"totalItems"`
}

// GeneratedContent is the parsed output of a content generation call before it
// is persisted as an editorial record.
type GeneratedContent struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Summary    string `json:"summary,omitempty"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}
