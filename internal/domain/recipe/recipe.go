// Package recipe defines the read models the orchestrator consumes from the
// local recipe store and the external recipe API. The store's schema and CRUD
// surface are owned elsewhere; this core only searches and reads.
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
	Name   string `json:"name"`
}

// Direction is one numbered preparation step.
type Direction struct {
	StepNumber  int    `json:"stepNumber"`
	Instruction string `json:"instruction"`
}

// Nutrition holds per-serving macros.
type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is a full recipe with ingredients and directions, as needed for
// recipe-context chat and grocery list generation.
type Recipe struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Cuisine     string       `json:"cuisine,omitempty"`
	Occasion    string       `json:"occasion,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Servings    int          `json:"servings"`
	PrepTime    int          `json:"prepTime"`
	CookTime    int          `json:"cookTime"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Directions  []Direction  `json:"directions,omitempty"`
	Nutrition   *Nutrition   `json:"nutrition,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Summary is a lightweight search hit. Results fused from the local store and
// the external API share this shape; Source records where each hit came from.
type Summary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	ReadyInMinutes int    `json:"readyInMinutes,omitempty"`
	Servings       int    `json:"servings,omitempty"`
	Source         string `json:"source"`
}

// SearchQuery describes a filtered search against the local store. Query
// matches title/description case-insensitively; Cuisine and Occasion are
// substring filters. Results are newest-first, capped at Limit.
type SearchQuery struct {
	Query    string
	Cuisine  string
	Occasion string
	Limit    int
}

// SearchResults pairs the fused recipe list with its count for the envelope
// payload.
type SearchResults struct {
	Recipes      []Summary `json:"recipes"`
	TotalResults int       `json:"totalResults"`
}
