package recipes

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
)

type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error
	Update(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetSummary(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, query repositories.RecipeQuery) ([]*models.Recipe, int, error)
}

// Catalog resolves referenced tags and ingredients, failing with NotFound
// for unknown ids.
type Catalog interface {
	TagsByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	IngredientsByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error)
}

type MembershipReader interface {
	MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID int64, recipeIDs []int64) ([]int64, error)
}

type SubscriptionReader interface {
	SubscribedAuthorIDs(ctx context.Context, userID int64, authorIDs []int64) ([]int64, error)
}

// ImageStore keeps recipe pictures outside the database. Put returns the
// reference persisted on the recipe row.
type ImageStore interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ctx context.Context, ref string) error
}
