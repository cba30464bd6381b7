package repositories

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
)

type TagRepository interface {
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]*models.Tag, error)
	BulkCreate(ctx context.Context, tags []*models.Tag) (int, error)
}

type IngredientRepository interface {
	GetAll(ctx context.Context) ([]*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error)
	SearchByName(ctx context.Context, fragment string, limit int) ([]*models.Ingredient, error)
	BulkCreate(ctx context.Context, ingredients []*models.Ingredient) (int, error)
}

type tagRepository struct {
	*BaseRepository
}

func NewTagRepository(db *bun.DB) TagRepository {
	return &tagRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *tagRepository) GetAll(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.SelectWithTimeout(ctx, "get_all", "tag", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&tags).Order("t.id ASC").Scan(ctx)
	})
	return tags, err
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	tag := new(models.Tag)
	err := r.SelectOneWithTimeout(ctx, "get", "tag", id, func(ctx context.Context) error {
		return r.db.NewSelect().Model(tag).Where("t.id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []*models.Tag
	err := r.SelectWithTimeout(ctx, "get_by_ids", "tag", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&tags).Where("t.id IN (?)", bun.In(ids)).Order("t.id ASC").Scan(ctx)
	})
	return tags, err
}

func (r *tagRepository) GetBySlugs(ctx context.Context, slugs []string) ([]*models.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var tags []*models.Tag
	err := r.SelectWithTimeout(ctx, "get_by_slugs", "tag", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&tags).Where("t.slug IN (?)", bun.In(slugs)).Scan(ctx)
	})
	return tags, err
}

// BulkCreate inserts tags, skipping any that collide with an existing
// name, color or slug. It returns the number of rows inserted.
func (r *tagRepository) BulkCreate(ctx context.Context, tags []*models.Tag) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewInsert().
		Model(&tags).
		On("CONFLICT DO NOTHING").
		Returning("NULL").
		Exec(timeoutCtx)
	if err != nil {
		return 0, r.HandleError("bulk_create", "tag", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type ingredientRepository struct {
	*BaseRepository
}

func NewIngredientRepository(db *bun.DB) IngredientRepository {
	return &ingredientRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *ingredientRepository) GetAll(ctx context.Context) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	err := r.SelectWithTimeout(ctx, "get_all", "ingredient", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&ingredients).Order("ing.name ASC", "ing.measurement_unit ASC").Scan(ctx)
	})
	return ingredients, err
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient := new(models.Ingredient)
	err := r.SelectOneWithTimeout(ctx, "get", "ingredient", id, func(ctx context.Context) error {
		return r.db.NewSelect().Model(ingredient).Where("ing.id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []*models.Ingredient
	err := r.SelectWithTimeout(ctx, "get_by_ids", "ingredient", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&ingredients).Where("ing.id IN (?)", bun.In(ids)).Scan(ctx)
	})
	return ingredients, err
}

// SearchByName returns ingredients whose name contains fragment,
// case-insensitively, with prefix matches first.
func (r *ingredientRepository) SearchByName(ctx context.Context, fragment string, limit int) ([]*models.Ingredient, error) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	pattern := "%" + escapeLike(fragment) + "%"

	var ingredients []*models.Ingredient
	err := r.SelectWithTimeout(ctx, "search", "ingredient", func(ctx context.Context) error {
		return r.db.NewSelect().
			Model(&ingredients).
			Where("lower(ing.name) LIKE ?", pattern).
			OrderExpr("position(? in lower(ing.name)) ASC", fragment).
			Order("ing.name ASC").
			Limit(limit).
			Scan(ctx)
	})
	return ingredients, err
}

// BulkCreate inserts ingredients, skipping duplicates of (name, measurement_unit).
func (r *ingredientRepository) BulkCreate(ctx context.Context, ingredients []*models.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	timeoutCtx, cancel := r.WithCustomTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	res, err := r.db.NewInsert().
		Model(&ingredients).
		On("CONFLICT (name, measurement_unit) DO NOTHING").
		Returning("NULL").
		Exec(timeoutCtx)
	if err != nil {
		return 0, r.HandleError("bulk_create", "ingredient", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
