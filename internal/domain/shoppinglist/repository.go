package shoppinglist

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type Repository interface {
	Count(ctx context.Context, kind models.MembershipKind, userID int64) (int, error)
	CartIngredientRows(ctx context.Context, userID int64) ([]models.CartIngredientRow, error)
}

// Renderer turns the plain-text list into the exported document body.
type Renderer interface {
	Render(ctx context.Context, title, text string) ([]byte, error)
}
