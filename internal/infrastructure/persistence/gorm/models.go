// Package gorm provides GORM-based repository implementations
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel is the database model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null;index"`
	Description string    `gorm:"type:text"`
	Cuisine     string    `gorm:"size:100;index"`
	Occasion    string    `gorm:"size:100;index"`
	ImageURL    string    `gorm:"size:500"`
	Servings    int
	PrepTime    int
	CookTime    int
	Calories    int
	Protein     float64
	Carbs       float64
	Fat         float64

	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Directions  []DirectionModel  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for RecipeModel
func (RecipeModel) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an ID when none is set
func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IngredientModel is the database model for recipe ingredients
type IngredientModel struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position int       `gorm:"not null"`
	Amount   string    `gorm:"size:50"`
	Unit     string    `gorm:"size:50"`
	Name     string    `gorm:"size:255;not null"`
}

// TableName returns the table name for IngredientModel
func (IngredientModel) TableName() string {
	return "recipe_ingredients"
}

// DirectionModel is the database model for recipe directions
type DirectionModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StepNumber  int       `gorm:"not null"`
	Instruction string    `gorm:"type:text;not null"`
}

// TableName returns the table name for DirectionModel
func (DirectionModel) TableName() string {
	return "recipe_directions"
}

// KitchenTipModel is the database model for kitchen tips
type KitchenTipModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex"`
	Content     string    `gorm:"type:text;not null"`
	Category    string    `gorm:"size:100;index"`
	Featured    bool      `gorm:"index"`
	PublishedAt time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for KitchenTipModel
func (KitchenTipModel) TableName() string {
	return "kitchen_tips"
}

// BeforeCreate assigns an ID when none is set
func (m *KitchenTipModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CookingHackModel is the database model for cooking hacks
type CookingHackModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex"`
	Content     string    `gorm:"type:text;not null"`
	Difficulty  string    `gorm:"size:50;index"`
	TimeToRead  int
	Featured    bool      `gorm:"index"`
	PublishedAt time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for CookingHackModel
func (CookingHackModel) TableName() string {
	return "cooking_hacks"
}

// BeforeCreate assigns an ID when none is set
func (m *CookingHackModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TrendPostModel is the database model for food trend posts
type TrendPostModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex"`
	Summary     string    `gorm:"type:text"`
	Content     string    `gorm:"type:text;not null"`
	Featured    bool      `gorm:"index"`
	PublishedAt time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for TrendPostModel
func (TrendPostModel) TableName() string {
	return "trend_posts"
}

// BeforeCreate assigns an ID when none is set
func (m *TrendPostModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AllModels lists every model for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&RecipeModel{},
		&IngredientModel{},
		&DirectionModel{},
		&KitchenTipModel{},
		&CookingHackModel{},
		&TrendPostModel{},
	}
}
