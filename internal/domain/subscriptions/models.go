package subscriptions

import (
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/users"
)

// AuthorView is a followed author with a preview of their recipes.
// RecipesCount is never capped by the preview limit.
type AuthorView struct {
	*users.Profile
	Recipes      []*recipes.RecipeSummary
	RecipesCount int
}
