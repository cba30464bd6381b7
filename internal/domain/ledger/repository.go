package ledger

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type Repository interface {
	Add(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) error
	Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID int64) (bool, error)
}

// RecipeReader loads the short form of a recipe.
type RecipeReader interface {
	GetSummary(ctx context.Context, id int64) (*models.Recipe, error)
}
