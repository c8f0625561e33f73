// Package content defines the editorial content records produced by the AI
// content generator: kitchen tips, cooking hacks, and trend posts.
package content

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the three content tables.
type Kind string

const (
	KindTip   Kind = "tip"
	KindHack  Kind = "hack"
	KindTrend Kind = "trend"
)

// Kinds lists all content kinds in a fixed order.
func Kinds() []Kind {
	return []Kind{KindTip, KindHack, KindTrend}
}

// IsValid reports whether the kind names a known content table.
func (k Kind) IsValid() bool {
	return k == KindTip || k == KindHack || k == KindTrend
}

// GeneratedType values name the prompt variants the model gateway supports.
const (
	TypeKitchenTip  = "kitchen-tip"
	TypeCookingHack = "cooking-hack"
	TypeFoodTrend   = "food-trend"
)

// TypeForKind maps a content kind to its generation prompt type.
func TypeForKind(k Kind) string {
	switch k {
	case KindHack:
		return TypeCookingHack
	case KindTrend:
		return TypeFoodTrend
	default:
		return TypeKitchenTip
	}
}

// Default classification values applied when neither the model nor the caller
// supplies one.
const (
	DefaultTipCategory    = "cooking-basics"
	DefaultHackDifficulty = "easy"
)

// TipCategories is the fixed category rotation for batch tip generation.
var TipCategories = []string{
	"knife-skills",
	"food-safety",
	"storage",
	"meal-prep",
	"cooking-basics",
}

// HackDifficulties is the fixed difficulty rotation for batch hack generation.
var HackDifficulties = []string{"easy", "medium", "advanced"}

// KitchenTip is a generated practical tip for home cooks.
type KitchenTip struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"publishedAt"`
}

// CookingHack is a generated cooking shortcut with a crude read-time estimate.
type CookingHack struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Difficulty  string    `json:"difficulty"`
	TimeToRead  int       `json:"timeToRead"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"publishedAt"`
}

// TrendPost is a generated food trend summary.
type TrendPost struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"publishedAt"`
}

// FeaturedSet groups the currently featured records across all kinds.
type FeaturedSet struct {
	Tips   []KitchenTip  `json:"tips"`
	Hacks  []CookingHack `json:"hacks"`
	Trends []TrendPost   `json:"trends"`
}

// ReadTimeSeconds estimates reading time from content length, at roughly 200
// characters per 10 seconds.
func ReadTimeSeconds(content string) int {
	n := len(content)
	if n == 0 {
		return 0
	}
	return ((n + 199) / 200) * 10
}
