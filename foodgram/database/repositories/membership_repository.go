package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

// MembershipRepository stores the favorites and shopping cart sets. Both
// tables share one shape and are selected by kind.
type MembershipRepository interface {
	Add(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) error
	Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) (bool, error)
	Exists(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) (bool, error)
	MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID int64, recipeIDs []int64) ([]int64, error)
	Count(ctx context.Context, kind models.MembershipKind, userID int64) (int, error)
	CartIngredientRows(ctx context.Context, userID int64) ([]models.CartIngredientRow, error)
}

type membershipRepository struct {
	*BaseRepository
}

func NewMembershipRepository(db *bun.DB) MembershipRepository {
	return &membershipRepository{BaseRepository: NewBaseRepository(db)}
}

func membershipModel(kind models.MembershipKind, userID, recipeID int64) (interface{}, error) {
	now := time.Now()
	switch kind {
	case models.KindFavorites:
		return &models.Favorite{UserID: userID, RecipeID: recipeID, CreatedAt: now}, nil
	case models.KindShoppingCart:
		return &models.ShoppingCart{UserID: userID, RecipeID: recipeID, CreatedAt: now}, nil
	}
	return nil, fmt.Errorf("unknown membership kind %q", kind)
}

func membershipTable(kind models.MembershipKind) (string, error) {
	switch kind {
	case models.KindFavorites, models.KindShoppingCart:
		return string(kind), nil
	}
	return "", fmt.Errorf("unknown membership kind %q", kind)
}

// Add inserts the pair. A second insert of the same pair fails on the
// table's unique constraint and comes back as a ConflictError.
func (r *membershipRepository) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) error {
	row, err := membershipModel(kind, userID, recipeID)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.db.NewInsert().Model(row).Exec(timeoutCtx)
	return r.HandleErrorWithID("add", string(kind), recipeID, err)
}

// Remove deletes the pair and reports whether a row was affected.
func (r *membershipRepository) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) (bool, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return false, err
	}

	res, err := r.ExecWithTimeout(ctx, "remove", table, func(ctx context.Context) (sql.Result, error) {
		return r.db.NewDelete().
			TableExpr("? AS m", bun.Ident(table)).
			Where("m.user_id = ? AND m.recipe_id = ?", userID, recipeID).
			Exec(ctx)
	})
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *membershipRepository) Exists(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) (bool, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return false, err
	}
	return r.BaseRepository.Exists(ctx, table, r.db.NewSelect().
		TableExpr("? AS m", bun.Ident(table)).
		Where("m.user_id = ? AND m.recipe_id = ?", userID, recipeID))
}

// MemberRecipeIDs returns the subset of recipeIDs present in the user's set.
func (r *membershipRepository) MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID int64, recipeIDs []int64) ([]int64, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return nil, err
	}
	if userID == 0 || len(recipeIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err = r.SelectWithTimeout(ctx, "member_ids", table, func(ctx context.Context) error {
		return r.db.NewSelect().
			TableExpr("? AS m", bun.Ident(table)).
			Column("m.recipe_id").
			Where("m.user_id = ?", userID).
			Where("m.recipe_id IN (?)", bun.In(recipeIDs)).
			Scan(ctx, &ids)
	})
	return ids, err
}

func (r *membershipRepository) Count(ctx context.Context, kind models.MembershipKind, userID int64) (int, error) {
	table, err := membershipTable(kind)
	if err != nil {
		return 0, err
	}
	return r.BaseRepository.Count(ctx, table, r.db.NewSelect().
		TableExpr("? AS m", bun.Ident(table)).
		Where("m.user_id = ?", userID))
}

// CartIngredientRows returns every ingredient amount of every recipe in the
// user's shopping cart, joined with its catalog ingredient.
func (r *membershipRepository) CartIngredientRows(ctx context.Context, userID int64) ([]models.CartIngredientRow, error) {
	var rows []models.CartIngredientRow
	err := r.SelectWithTimeout(ctx, "cart_ingredients", "shopping_cart", func(ctx context.Context) error {
		return r.db.NewSelect().
			TableExpr("ingredient_in_recipe AS iir").
			ColumnExpr("iir.recipe_id, ing.name, ing.measurement_unit, iir.amount").
			Join("JOIN ingredients AS ing ON ing.id = iir.ingredient_id").
			Join("JOIN shopping_carts AS sc ON sc.recipe_id = iir.recipe_id").
			Where("sc.user_id = ?", userID).
			OrderExpr("ing.name ASC, ing.measurement_unit ASC, iir.id ASC").
			Scan(ctx, &rows)
	})
	return rows, err
}
