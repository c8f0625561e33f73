package gorm

import (
	"context"
	"errors"

	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	apperrors "github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRepository implements the content repository interface using GORM
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) outbound.ContentRepository {
	return &ContentRepository{db: db}
}

// CreateTip inserts a kitchen tip
func (r *ContentRepository) CreateTip(ctx context.Context, tip *content.KitchenTip) error {
	model := TipToModel(tip)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("create kitchen tip", err)
	}
	tip.ID = model.ID
	return nil
}

// CreateHack inserts a cooking hack
func (r *ContentRepository) CreateHack(ctx context.Context, hack *content.CookingHack) error {
	model := HackToModel(hack)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("create cooking hack", err)
	}
	hack.ID = model.ID
	return nil
}

// CreateTrend inserts a trend post
func (r *ContentRepository) CreateTrend(ctx context.Context, trend *content.TrendPost) error {
	model := TrendToModel(trend)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.NewDatabaseError("create trend post", err)
	}
	trend.ID = model.ID
	return nil
}

// Featured returns up to limit featured records per kind, newest-first.
func (r *ContentRepository) Featured(ctx context.Context, limit int) (*content.FeaturedSet, error) {
	set := &content.FeaturedSet{}

	var tips []KitchenTipModel
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Find(&tips).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("load featured tips", err)
	}
	for i := range tips {
		set.Tips = append(set.Tips, ModelToTip(&tips[i]))
	}

	var hacks []CookingHackModel
	err = r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Find(&hacks).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("load featured hacks", err)
	}
	for i := range hacks {
		set.Hacks = append(set.Hacks, ModelToHack(&hacks[i]))
	}

	var trends []TrendPostModel
	err = r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("published_at DESC").
		Limit(limit).
		Find(&trends).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("load featured trends", err)
	}
	for i := range trends {
		set.Trends = append(set.Trends, ModelToTrend(&trends[i]))
	}

	return set, nil
}

// ListTips returns the most recently published tips
func (r *ContentRepository) ListTips(ctx context.Context, limit int) ([]content.KitchenTip, error) {
	var models []KitchenTipModel
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list kitchen tips", err)
	}
	tips := make([]content.KitchenTip, len(models))
	for i := range models {
		tips[i] = ModelToTip(&models[i])
	}
	return tips, nil
}

// ListHacks returns the most recently published hacks
func (r *ContentRepository) ListHacks(ctx context.Context, limit int) ([]content.CookingHack, error) {
	var models []CookingHackModel
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list cooking hacks", err)
	}
	hacks := make([]content.CookingHack, len(models))
	for i := range models {
		hacks[i] = ModelToHack(&models[i])
	}
	return hacks, nil
}

// ListTrends returns the most recently published trend posts
func (r *ContentRepository) ListTrends(ctx context.Context, limit int) ([]content.TrendPost, error) {
	var models []TrendPostModel
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list trend posts", err)
	}
	trends := make([]content.TrendPost, len(models))
	for i := range models {
		trends[i] = ModelToTrend(&models[i])
	}
	return trends, nil
}

// TipBySlug loads one tip by slug
func (r *ContentRepository) TipBySlug(ctx context.Context, slug string) (*content.KitchenTip, error) {
	var model KitchenTipModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("kitchen tip")
		}
		return nil, apperrors.NewDatabaseError("find kitchen tip", err)
	}
	tip := ModelToTip(&model)
	return &tip, nil
}

// HackBySlug loads one hack by slug
func (r *ContentRepository) HackBySlug(ctx context.Context, slug string) (*content.CookingHack, error) {
	var model CookingHackModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("cooking hack")
		}
		return nil, apperrors.NewDatabaseError("find cooking hack", err)
	}
	hack := ModelToHack(&model)
	return &hack, nil
}

// TrendBySlug loads one trend post by slug
func (r *ContentRepository) TrendBySlug(ctx context.Context, slug string) (*content.TrendPost, error) {
	var model TrendPostModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("trend post")
		}
		return nil, apperrors.NewDatabaseError("find trend post", err)
	}
	trend := ModelToTrend(&model)
	return &trend, nil
}

// SlugExists reports whether a slug is already taken within a kind.
func (r *ContentRepository) SlugExists(ctx context.Context, kind content.Kind, slug string) (bool, error) {
	model, err := tableForKind(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, apperrors.NewDatabaseError("check slug", err)
	}
	return count > 0, nil
}

// SetFeatured toggles the featured flag on one record.
func (r *ContentRepository) SetFeatured(ctx context.Context, kind content.Kind, id uuid.UUID, featured bool) error {
	model, err := tableForKind(kind)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("featured", featured)
	if result.Error != nil {
		return apperrors.NewDatabaseError("update featured flag", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(string(kind))
	}
	return nil
}

// RecentIDs returns the ids of the limit most recently published records of a
// kind, newest-first.
func (r *ContentRepository) RecentIDs(ctx context.Context, kind content.Kind, limit int) ([]uuid.UUID, error) {
	model, err := tableForKind(kind)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	err = r.db.WithContext(ctx).Model(model).
		Order("published_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recent content ids", err)
	}
	return ids, nil
}

// ReplaceFeatured atomically clears every featured flag of the kind and sets
// it on exactly the selected ids. Runs in a transaction so readers never see
// an empty featured set mid-rotation.
func (r *ContentRepository) ReplaceFeatured(ctx context.Context, kind content.Kind, selected []uuid.UUID) error {
	model, err := tableForKind(kind)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model).Where("featured = ?", true).Update("featured", false).Error; err != nil {
			return err
		}
		if len(selected) == 0 {
			return nil
		}
		return tx.Model(model).Where("id IN ?", selected).Update("featured", true).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError("replace featured content", err)
	}
	return nil
}
