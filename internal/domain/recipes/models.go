package recipes

import (
	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/users"
)

type IngredientAmount struct {
	ID     int64
	Amount int
}

// Image is an uploaded picture already decoded from its transport encoding.
type Image struct {
	Data []byte
	Ext  string
}

// RecipeInput is the full write payload for create and update. A nil Image
// on update keeps the stored one.
type RecipeInput struct {
	Tags        []int64
	Ingredients []IngredientAmount
	Name        string
	Text        string
	CookingTime int
	Image       *Image
}

type IngredientLine struct {
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int
}

// RecipeView is the read shape of a recipe for one viewer.
type RecipeView struct {
	ID               int64
	Tags             []*models.Tag
	Author           *users.Profile
	Ingredients      []IngredientLine
	IsFavorited      bool
	IsInShoppingCart bool
	Name             string
	Image            string
	Text             string
	CookingTime      int
}

// RecipeSummary is the short form used by membership and subscription
// responses.
type RecipeSummary struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int
}

func NewSummary(recipe *models.Recipe) *RecipeSummary {
	return &RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       imageRef(recipe),
		CookingTime: recipe.CookingTime,
	}
}

// Filter narrows List. Tags holds tag ids or slugs; a recipe matches when
// it carries any of them. The membership flags only apply to
// authenticated viewers.
type Filter struct {
	Tags             []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	pagination.Params
}

func imageRef(recipe *models.Recipe) string {
	if recipe.Image == nil {
		return ""
	}
	return *recipe.Image
}
