package gorm

import (
	"fmt"
	"sort"

	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
)

// LocalSource tags search hits that came from the local store.
const LocalSource = "database"

// RecipeToModel converts a domain recipe to its database model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	model := &RecipeModel{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Cuisine:     r.Cuisine,
		Occasion:    r.Occasion,
		ImageURL:    r.ImageURL,
		Servings:    r.Servings,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		CreatedAt:   r.CreatedAt,
	}
	if r.Nutrition != nil {
		model.Calories = r.Nutrition.Calories
		model.Protein = r.Nutrition.Protein
		model.Carbs = r.Nutrition.Carbs
		model.Fat = r.Nutrition.Fat
	}
	for i, ing := range r.Ingredients {
		model.Ingredients = append(model.Ingredients, IngredientModel{
			RecipeID: r.ID,
			Position: i + 1,
			Amount:   ing.Amount,
			Unit:     ing.Unit,
			Name:     ing.Name,
		})
	}
	for _, dir := range r.Directions {
		model.Directions = append(model.Directions, DirectionModel{
			RecipeID:    r.ID,
			StepNumber:  dir.StepNumber,
			Instruction: dir.Instruction,
		})
	}
	return model
}

// ModelToRecipe converts a database model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	r := &recipe.Recipe{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Cuisine:     m.Cuisine,
		Occasion:    m.Occasion,
		ImageURL:    m.ImageURL,
		Servings:    m.Servings,
		PrepTime:    m.PrepTime,
		CookTime:    m.CookTime,
		CreatedAt:   m.CreatedAt,
	}
	if m.Calories > 0 || m.Protein > 0 || m.Carbs > 0 || m.Fat > 0 {
		r.Nutrition = &recipe.Nutrition{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		}
	}

	ingredients := make([]IngredientModel, len(m.Ingredients))
	copy(ingredients, m.Ingredients)
	sort.Slice(ingredients, func(i, j int) bool {
		return ingredients[i].Position < ingredients[j].Position
	})
	for _, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Name:   ing.Name,
		})
	}

	directions := make([]DirectionModel, len(m.Directions))
	copy(directions, m.Directions)
	sort.Slice(directions, func(i, j int) bool {
		return directions[i].StepNumber < directions[j].StepNumber
	})
	for _, dir := range directions {
		r.Directions = append(r.Directions, recipe.Direction{
			StepNumber:  dir.StepNumber,
			Instruction: dir.Instruction,
		})
	}
	return r
}

// ModelToSummary converts a recipe model to a search hit
func ModelToSummary(m *RecipeModel) recipe.Summary {
	return recipe.Summary{
		ID:             m.ID.String(),
		Title:          m.Title,
		Description:    m.Description,
		ImageURL:       m.ImageURL,
		ReadyInMinutes: m.PrepTime + m.CookTime,
		Servings:       m.Servings,
		Source:         LocalSource,
	}
}

// TipToModel converts a domain kitchen tip to its database model
func TipToModel(t *content.KitchenTip) *KitchenTipModel {
	return &KitchenTipModel{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		Content:     t.Content,
		Category:    t.Category,
		Featured:    t.Featured,
		PublishedAt: t.PublishedAt,
	}
}

// ModelToTip converts a database model to a domain kitchen tip
func ModelToTip(m *KitchenTipModel) content.KitchenTip {
	return content.KitchenTip{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Content:     m.Content,
		Category:    m.Category,
		Featured:    m.Featured,
		PublishedAt: m.PublishedAt,
	}
}

// HackToModel converts a domain cooking hack to its database model
func HackToModel(h *content.CookingHack) *CookingHackModel {
	return &CookingHackModel{
		ID:          h.ID,
		Title:       h.Title,
		Slug:        h.Slug,
		Content:     h.Content,
		Difficulty:  h.Difficulty,
		TimeToRead:  h.TimeToRead,
		Featured:    h.Featured,
		PublishedAt: h.PublishedAt,
	}
}

// ModelToHack converts a database model to a domain cooking hack
func ModelToHack(m *CookingHackModel) content.CookingHack {
	return content.CookingHack{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Content:     m.Content,
		Difficulty:  m.Difficulty,
		TimeToRead:  m.TimeToRead,
		Featured:    m.Featured,
		PublishedAt: m.PublishedAt,
	}
}

// TrendToModel converts a domain trend post to its database model
func TrendToModel(t *content.TrendPost) *TrendPostModel {
	return &TrendPostModel{
		ID:          t.ID,
		Title:       t.Title,
		Slug:        t.Slug,
		Summary:     t.Summary,
		Content:     t.Content,
		Featured:    t.Featured,
		PublishedAt: t.PublishedAt,
	}
}

// ModelToTrend converts a database model to a domain trend post
func ModelToTrend(m *TrendPostModel) content.TrendPost {
	return content.TrendPost{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Summary:     m.Summary,
		Content:     m.Content,
		Featured:    m.Featured,
		PublishedAt: m.PublishedAt,
	}
}

// tableForKind maps a content kind to its model for bulk queries
func tableForKind(kind content.Kind) (interface{}, error) {
	switch kind {
	case content.KindTip:
		return &KitchenTipModel{}, nil
	case content.KindHack:
		return &CookingHackModel{}, nil
	case content.KindTrend:
		return &TrendPostModel{}, nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
}
