package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/caribbeanrecipe/assistant/internal/domain/recipe"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Search runs a filtered search against the local store. Query matches title
// and description case-insensitively; cuisine and occasion are substring
// filters. Results are newest-first, capped at the query limit.
func (r *RecipeRepository) Search(ctx context.Context, q recipe.SearchQuery) ([]recipe.Summary, error) {
	tx := r.db.WithContext(ctx).Model(&RecipeModel{})

	if q.Query != "" {
		pattern := "%" + strings.ToLower(q.Query) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if q.Cuisine != "" {
		tx = tx.Where("LOWER(cuisine) LIKE ?", "%"+strings.ToLower(q.Cuisine)+"%")
	}
	if q.Occasion != "" {
		tx = tx.Where("LOWER(occasion) LIKE ?", "%"+strings.ToLower(q.Occasion)+"%")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	var models []RecipeModel
	if err := tx.Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, apperrors.NewDatabaseError("search recipes", err)
	}

	summaries := make([]recipe.Summary, len(models))
	for i := range models {
		summaries[i] = ModelToSummary(&models[i])
	}
	return summaries, nil
}

// FindByID loads one recipe with its ingredients and directions.
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Directions").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return ModelToRecipe(&model), nil
}

// FindByIDs loads the matching recipes with their ingredients. Unknown ids
// are skipped.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []RecipeModel
	err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Directions").
		Where("id IN ?", ids).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("find recipes", err)
	}

	recipes := make([]recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = *ModelToRecipe(&models[i])
	}
	return recipes, nil
}

// Create inserts a recipe with its ingredients and directions. Search and
// grocery flows only read; this exists for seeding and fixtures.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	if err := r.db.WithContext(ctx).Create(RecipeToModel(rec)).Error; err != nil {
		return apperrors.NewDatabaseError("create recipe", err)
	}
	return nil
}
