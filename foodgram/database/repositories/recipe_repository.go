package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

// RecipeQuery narrows a recipe listing. Zero values disable a filter.
type RecipeQuery struct {
	TagIDs      []int64
	TagSlugs    []string
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
	Offset      int
	Limit       int
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error
	Update(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetSummary(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, query RecipeQuery) ([]*models.Recipe, int, error)
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type recipeRepository struct {
	*BaseRepository
}

func NewRecipeRepository(db *bun.DB) RecipeRepository {
	return &recipeRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts the recipe row, its tag links and its ingredient amounts in
// one transaction. recipe.ID is populated on success.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error {
	recipe.CreatedAt = time.Now()

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(recipe).Returning("id").Exec(ctx); err != nil {
			return err
		}
		return writeRecipeRelations(ctx, tx, recipe.ID, tagIDs, ingredients)
	})
	return r.HandleError("create", "recipe", err)
}

// Update replaces the scalar fields and the full tag and ingredient sets.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(recipe).
			Column("name", "text", "cooking_time", "image").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}

		if _, err := tx.NewDelete().
			Model((*models.RecipeTag)(nil)).
			Where("recipe_id = ?", recipe.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.IngredientInRecipe)(nil)).
			Where("recipe_id = ?", recipe.ID).
			Exec(ctx); err != nil {
			return err
		}

		return writeRecipeRelations(ctx, tx, recipe.ID, tagIDs, ingredients)
	})
	return r.HandleErrorWithID("update", "recipe", recipe.ID, err)
}

func writeRecipeRelations(ctx context.Context, tx bun.Tx, recipeID int64, tagIDs []int64, ingredients []*models.IngredientInRecipe) error {
	if len(tagIDs) > 0 {
		links := make([]*models.RecipeTag, len(tagIDs))
		for i, tagID := range tagIDs {
			links[i] = &models.RecipeTag{RecipeID: recipeID, TagID: tagID}
		}
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return err
		}
	}

	if len(ingredients) > 0 {
		for _, item := range ingredients {
			item.RecipeID = recipeID
		}
		if _, err := tx.NewInsert().Model(&ingredients).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the recipe. Join rows, favorites and cart entries go with it
// through ON DELETE CASCADE.
func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.ExecWithTimeout(ctx, "delete", "recipe", func(ctx context.Context) (sql.Result, error) {
		return r.db.NewDelete().
			Model((*models.Recipe)(nil)).
			Where("id = ?", id).
			Exec(ctx)
	})
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "recipe", ID: id}
	}
	return nil
}

func (r *recipeRepository) withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Author").
		Relation("Tags", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("t.id ASC")
		}).
		Relation("Ingredients", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("iir.id ASC")
		}).
		Relation("Ingredients.Ingredient")
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe := new(models.Recipe)
	err := r.SelectOneWithTimeout(ctx, "get", "recipe", id, func(ctx context.Context) error {
		return r.withRelations(r.db.NewSelect().Model(recipe)).
			Where("r.id = ?", id).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetSummary loads the recipe row alone.
func (r *recipeRepository) GetSummary(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe := new(models.Recipe)
	err := r.SelectOneWithTimeout(ctx, "get_summary", "recipe", id, func(ctx context.Context) error {
		return r.db.NewSelect().Model(recipe).Where("r.id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, query RecipeQuery) ([]*models.Recipe, int, error) {
	var recipes []*models.Recipe
	var total int

	err := r.SelectWithTimeout(ctx, "list", "recipe", func(ctx context.Context) error {
		q := r.withRelations(r.db.NewSelect().Model(&recipes))
		q = applyRecipeFilters(r.db, q, query).
			Order("r.created_at DESC", "r.id DESC").
			Offset(query.Offset)
		if query.Limit > 0 {
			q = q.Limit(query.Limit)
		}

		var err error
		total, err = q.ScanAndCount(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func applyRecipeFilters(db *bun.DB, q *bun.SelectQuery, query RecipeQuery) *bun.SelectQuery {
	if len(query.TagIDs) > 0 || len(query.TagSlugs) > 0 {
		// a recipe matches when it carries any of the requested tags
		tagged := db.NewSelect().
			TableExpr("recipe_tags AS rtf").
			Join("JOIN tags AS tf ON tf.id = rtf.tag_id").
			ColumnExpr("1").
			Where("rtf.recipe_id = r.id").
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				if len(query.TagIDs) > 0 {
					q = q.WhereOr("tf.id IN (?)", bun.In(query.TagIDs))
				}
				if len(query.TagSlugs) > 0 {
					q = q.WhereOr("tf.slug IN (?)", bun.In(query.TagSlugs))
				}
				return q
			})
		q = q.Where("EXISTS (?)", tagged)
	}

	if query.AuthorID > 0 {
		q = q.Where("r.author_id = ?", query.AuthorID)
	}

	if query.FavoritedBy > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM favorites AS ff WHERE ff.recipe_id = r.id AND ff.user_id = ?)", query.FavoritedBy)
	}

	if query.InCartOf > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM shopping_carts AS cf WHERE cf.recipe_id = r.id AND cf.user_id = ?)", query.InCartOf)
	}

	return q
}

// ListByAuthor returns the author's newest recipes without relations.
// A non-positive limit returns all of them.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.SelectWithTimeout(ctx, "list_by_author", "recipe", func(ctx context.Context) error {
		q := r.db.NewSelect().
			Model(&recipes).
			Where("r.author_id = ?", authorID).
			Order("r.created_at DESC", "r.id DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Scan(ctx)
	})
	return recipes, err
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	return r.Count(ctx, "recipe",
		r.db.NewSelect().Model((*models.Recipe)(nil)).Where("r.author_id = ?", authorID))
}

func (r *recipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.BaseRepository.Exists(ctx, "recipe",
		r.db.NewSelect().Model((*models.Recipe)(nil)).Where("r.id = ?", id))
}
