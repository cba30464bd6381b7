package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
)

const (
	keyAllTags        = "tags:all"
	keyAllIngredients = "ingredients:all"
)

// Service is the read side of the tag and ingredient catalog.
type Service interface {
	ListTags(ctx context.Context) ([]*models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	TagsByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	ListIngredients(ctx context.Context, name string) ([]*models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	IngredientsByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error)
}

type service struct {
	tags        TagRepository
	ingredients IngredientRepository
	cache       *readCache
	log         *slog.Logger
}

func NewService(tags TagRepository, ingredients IngredientRepository, cacheSize int) *service {
	return &service{
		tags:        tags,
		ingredients: ingredients,
		cache:       newReadCache(cacheSize, config.CacheExpiration),
		log:         slog.With("service", "catalog"),
	}
}

func (s *service) ListTags(ctx context.Context) ([]*models.Tag, error) {
	v, err := s.cache.load(ctx, keyAllTags, func(ctx context.Context) (interface{}, error) {
		return s.tags.GetAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return v.([]*models.Tag), nil
}

func (s *service) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	v, err := s.cache.load(ctx, fmt.Sprintf("tag:%d", id), func(ctx context.Context) (interface{}, error) {
		return s.tags.GetByID(ctx, id)
	})
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}
	return v.(*models.Tag), nil
}

// TagsByIDs resolves every id or fails with NotFound naming the first
// missing one. The result follows the order of ids.
func (s *service) TagsByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	all, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Tag, len(all))
	for _, tag := range all {
		byID[tag.ID] = tag
	}

	var missing bool
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = true
			break
		}
	}
	if missing {
		// the cached list may predate a seed run
		fresh, err := s.tags.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load tags: %w", err)
		}
		for _, tag := range fresh {
			byID[tag.ID] = tag
		}
	}

	result := make([]*models.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("tag", id)
		}
		result = append(result, tag)
	}
	return result, nil
}

// ListIngredients returns the whole catalog for an empty name, otherwise
// the ingredients whose name starts with or contains name followed by
// fuzzy matches.
func (s *service) ListIngredients(ctx context.Context, name string) ([]*models.Ingredient, error) {
	all, err := s.allIngredients(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return all, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	substring, err := s.ingredients.SearchByName(searchCtx, name, config.MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}

	result := rankIngredients(name, substring, all, config.MaxSearchResults)
	s.log.Debug("Ingredient search",
		slog.String("query", name),
		slog.Int("substring_matches", len(substring)),
		slog.Int("results", len(result)))
	return result, nil
}

func (s *service) allIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	v, err := s.cache.load(ctx, keyAllIngredients, func(ctx context.Context) (interface{}, error) {
		return s.ingredients.GetAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return v.([]*models.Ingredient), nil
}

func (s *service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	v, err := s.cache.load(ctx, fmt.Sprintf("ingredient:%d", id), func(ctx context.Context) (interface{}, error) {
		return s.ingredients.GetByID(ctx, id)
	})
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}
	return v.(*models.Ingredient), nil
}

// IngredientsByIDs resolves every id or fails with NotFound naming the first
// missing one. The result follows the order of ids.
func (s *service) IngredientsByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error) {
	found, err := s.ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	byID := make(map[int64]*models.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	result := make([]*models.Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFound("ingredient", id)
		}
		result = append(result, ing)
	}
	return result, nil
}
