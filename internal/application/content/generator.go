// Package content implements the editorial content pipeline: AI generation of
// kitchen tips, cooking hacks, and trend posts, batch and daily runs, and the
// featured-content read surface with its rotation job.
package content

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/caribbeanrecipe/assistant/internal/domain/content"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	"github.com/caribbeanrecipe/assistant/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service generates, persists, and curates editorial content.
type Service struct {
	gateway outbound.ModelGateway
	repo    outbound.ContentRepository
	cache   outbound.FeaturedCache
	cfg     config.ContentConfig
	logger  *zap.Logger
	rng     *rand.Rand
	now     func() time.Time
}

// NewService creates a new content service.
func NewService(
	gateway outbound.ModelGateway,
	repo outbound.ContentRepository,
	cache outbound.FeaturedCache,
	cfg config.ContentConfig,
	logger *zap.Logger,
) *Service {
	if cfg.FeaturedPerKind <= 0 {
		cfg.FeaturedPerKind = 3
	}
	if cfg.RotationPool <= 0 {
		cfg.RotationPool = 10
	}
	return &Service{
		gateway: gateway,
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// DailyContent is the result of one daily generation run.
type DailyContent struct {
	Tips   []content.KitchenTip  `json:"tips"`
	Hacks  []content.CookingHack `json:"hacks"`
	Trends []content.TrendPost   `json:"trends"`
}

// GenerateTip generates and persists one kitchen tip. An empty category lets
// the model pick one.
func (s *Service) GenerateTip(ctx context.Context, category string) (*content.KitchenTip, error) {
	generated, err := s.gateway.GenerateContent(ctx, content.TypeKitchenTip, outbound.ContentOptions{
		Category: category,
	})
	if err != nil {
		return nil, err
	}

	resolved := generated.Category
	if resolved == "" {
		resolved = category
	}
	if resolved == "" {
		resolved = content.DefaultTipCategory
	}

	slug, err := s.uniqueSlug(ctx, content.KindTip, generated.Title)
	if err != nil {
		return nil, err
	}

	tip := &content.KitchenTip{
		Title:       generated.Title,
		Slug:        slug,
		Content:     generated.Content,
		Category:    resolved,
		PublishedAt: s.now(),
	}
	if err := s.repo.CreateTip(ctx, tip); err != nil {
		return nil, err
	}
	s.logger.Info("kitchen tip generated",
		zap.String("slug", tip.Slug),
		zap.String("category", tip.Category),
	)
	return tip, nil
}

// GenerateHack generates and persists one cooking hack.
func (s *Service) GenerateHack(ctx context.Context, difficulty string) (*content.CookingHack, error) {
	generated, err := s.gateway.GenerateContent(ctx, content.TypeCookingHack, outbound.ContentOptions{
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, err
	}

	resolved := generated.Difficulty
	if resolved == "" {
		resolved = difficulty
	}
	if resolved == "" {
		resolved = content.DefaultHackDifficulty
	}

	slug, err := s.uniqueSlug(ctx, content.KindHack, generated.Title)
	if err != nil {
		return nil, err
	}

	hack := &content.CookingHack{
		Title:       generated.Title,
		Slug:        slug,
		Content:     generated.Content,
		Difficulty:  resolved,
		TimeToRead:  content.ReadTimeSeconds(generated.Content),
		PublishedAt: s.now(),
	}
	if err := s.repo.CreateHack(ctx, hack); err != nil {
		return nil, err
	}
	s.logger.Info("cooking hack generated",
		zap.String("slug", hack.Slug),
		zap.String("difficulty", hack.Difficulty),
	)
	return hack, nil
}

// GenerateTrend generates and persists one trend post. A missing model summary
// falls back to the leading content text.
func (s *Service) GenerateTrend(ctx context.Context) (*content.TrendPost, error) {
	generated, err := s.gateway.GenerateContent(ctx, content.TypeFoodTrend, outbound.ContentOptions{})
	if err != nil {
		return nil, err
	}

	summary := generated.Summary
	if summary == "" {
		summary = truncateRunes(generated.Content, 200)
	}

	slug, err := s.uniqueSlug(ctx, content.KindTrend, generated.Title)
	if err != nil {
		return nil, err
	}

	trend := &content.TrendPost{
		Title:       generated.Title,
		Slug:        slug,
		Summary:     summary,
		Content:     generated.Content,
		PublishedAt: s.now(),
	}
	if err := s.repo.CreateTrend(ctx, trend); err != nil {
		return nil, err
	}
	s.logger.Info("trend post generated", zap.String("slug", trend.Slug))
	return trend, nil
}

// BatchGenerateTips generates count tips, cycling through the category
// rotation with a pacing delay between calls. Individual failures are logged
// and skipped; a partial batch is a valid outcome.
func (s *Service) BatchGenerateTips(ctx context.Context, count int) ([]content.KitchenTip, error) {
	var tips []content.KitchenTip
	for i := 0; i < count; i++ {
		if i > 0 {
			if err := s.pace(ctx); err != nil {
				return tips, err
			}
		}
		category := content.TipCategories[i%len(content.TipCategories)]
		tip, err := s.GenerateTip(ctx, category)
		if err != nil {
			s.logger.Error("tip generation failed, continuing batch",
				zap.Int("index", i),
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}
		tips = append(tips, *tip)
	}
	return tips, nil
}

// BatchGenerateHacks generates count hacks, cycling through the difficulty
// rotation.
func (s *Service) BatchGenerateHacks(ctx context.Context, count int) ([]content.CookingHack, error) {
	var hacks []content.CookingHack
	for i := 0; i < count; i++ {
		if i > 0 {
			if err := s.pace(ctx); err != nil {
				return hacks, err
			}
		}
		difficulty := content.HackDifficulties[i%len(content.HackDifficulties)]
		hack, err := s.GenerateHack(ctx, difficulty)
		if err != nil {
			s.logger.Error("hack generation failed, continuing batch",
				zap.Int("index", i),
				zap.String("difficulty", difficulty),
				zap.Error(err),
			)
			continue
		}
		hacks = append(hacks, *hack)
	}
	return hacks, nil
}

// GenerateDaily runs the daily editorial batch: exactly one tip, one hack,
// and one trend post, generated sequentially with the configured pacing
// delay. A failure in one kind does not block the others.
func (s *Service) GenerateDaily(ctx context.Context) (*DailyContent, error) {
	daily := &DailyContent{}

	tip, err := s.GenerateTip(ctx, "")
	if err != nil {
		s.logger.Error("tip generation failed in daily run", zap.Error(err))
	} else {
		daily.Tips = append(daily.Tips, *tip)
	}

	if err := s.pace(ctx); err != nil {
		return daily, err
	}
	hack, err := s.GenerateHack(ctx, "")
	if err != nil {
		s.logger.Error("hack generation failed in daily run", zap.Error(err))
	} else {
		daily.Hacks = append(daily.Hacks, *hack)
	}

	if err := s.pace(ctx); err != nil {
		return daily, err
	}
	trend, err := s.GenerateTrend(ctx)
	if err != nil {
		s.logger.Error("trend generation failed in daily run", zap.Error(err))
	} else {
		daily.Trends = append(daily.Trends, *trend)
	}

	s.logger.Info("daily content run complete",
		zap.Int("tips", len(daily.Tips)),
		zap.Int("hacks", len(daily.Hacks)),
		zap.Int("trends", len(daily.Trends)),
	)
	return daily, nil
}

// Featured returns the current featured set, reading through the cache.
func (s *Service) Featured(ctx context.Context) (*content.FeaturedSet, error) {
	if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
		return cached, nil
	}

	set, err := s.repo.Featured(ctx, s.cfg.FeaturedPerKind)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, set); err != nil {
		s.logger.Warn("failed to cache featured set", zap.Error(err))
	}
	return set, nil
}

// SetFeatured toggles one record's featured flag and drops the cached set.
func (s *Service) SetFeatured(ctx context.Context, kind content.Kind, id uuid.UUID, featured bool) error {
	if !kind.IsValid() {
		return errors.NewBadRequestError(fmt.Sprintf("unknown content kind %q", kind))
	}
	if err := s.repo.SetFeatured(ctx, kind, id, featured); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

// RotateFeatured replaces each kind's featured records with a random pick
// from its most recent publications. Each kind's swap is atomic so readers
// never observe an empty featured set.
func (s *Service) RotateFeatured(ctx context.Context) error {
	for _, kind := range content.Kinds() {
		recent, err := s.repo.RecentIDs(ctx, kind, s.cfg.RotationPool)
		if err != nil {
			return err
		}
		if len(recent) == 0 {
			continue
		}

		selected := s.pick(recent, s.cfg.FeaturedPerKind)
		if err := s.repo.ReplaceFeatured(ctx, kind, selected); err != nil {
			return err
		}
		s.logger.Info("featured content rotated",
			zap.String("kind", string(kind)),
			zap.Int("selected", len(selected)),
		)
	}
	return s.cache.Invalidate(ctx)
}

// pick selects up to n ids uniformly at random without replacement.
func (s *Service) pick(ids []uuid.UUID, n int) []uuid.UUID {
	shuffled := make([]uuid.UUID, len(ids))
	copy(shuffled, ids)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// uniqueSlug derives a slug from the title and retries once with a numeric
// suffix on collision.
func (s *Service) uniqueSlug(ctx context.Context, kind content.Kind, title string) (string, error) {
	slug := content.Slugify(title)
	if slug == "" {
		return "", errors.NewBadRequestError("generated title produced an empty slug")
	}

	taken, err := s.repo.SlugExists(ctx, kind, slug)
	if err != nil {
		return "", err
	}
	if !taken {
		return slug, nil
	}

	retry := slug + "-2"
	taken, err = s.repo.SlugExists(ctx, kind, retry)
	if err != nil {
		return "", err
	}
	if taken {
		return "", errors.NewBadRequestError(fmt.Sprintf("slug %q already exists", slug))
	}
	return retry, nil
}

// truncateRunes cuts s to at most n runes, never splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// pace sleeps the configured generation delay, respecting cancellation.
func (s *Service) pace(ctx context.Context) error {
	if s.cfg.GenerationDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.GenerationDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
