package models

import (
	dbmodels "github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/subscriptions"
	"github.com/foodgram/foodgram/internal/domain/users"
)

// ImageURLFunc turns a stored image reference into a public URL.
type ImageURLFunc func(ref string) string

// =============================================================================
// REQUESTS
// =============================================================================

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,notblank,max=150"`
	FirstName string `json:"first_name" validate:"required,notblank,max=150"`
	LastName  string `json:"last_name" validate:"required,notblank,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RecipeIngredientRequest struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount"`
}

// RecipeRequest is the create and update payload. Image is a base64 data
// URI; on update an empty image keeps the stored one.
type RecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"dive"`
	Tags        []int64                   `json:"tags" validate:"dive,gt=0"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type UserResponse struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           *UserResponse              `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type AuthorWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int                   `json:"recipes_count"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func NewUserResponse(p *users.Profile) UserResponse {
	return UserResponse{
		Email:        p.Email,
		ID:           p.ID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsSubscribed: p.IsSubscribed,
	}
}

func NewTagResponse(t *dbmodels.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func NewIngredientResponse(i *dbmodels.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func NewRecipeResponse(v *recipes.RecipeView, imageURL ImageURLFunc) RecipeResponse {
	resp := RecipeResponse{
		ID:               v.ID,
		Tags:             make([]TagResponse, len(v.Tags)),
		Ingredients:      make([]RecipeIngredientResponse, len(v.Ingredients)),
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            imageURL(v.Image),
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
	for i, tag := range v.Tags {
		resp.Tags[i] = NewTagResponse(tag)
	}
	for i, line := range v.Ingredients {
		resp.Ingredients[i] = RecipeIngredientResponse{
			ID:              line.ID,
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		}
	}
	if v.Author != nil {
		author := NewUserResponse(v.Author)
		resp.Author = &author
	}
	return resp
}

func NewRecipeShortResponse(s *recipes.RecipeSummary, imageURL ImageURLFunc) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          s.ID,
		Name:        s.Name,
		Image:       imageURL(s.Image),
		CookingTime: s.CookingTime,
	}
}

func NewAuthorWithRecipesResponse(a *subscriptions.AuthorView, imageURL ImageURLFunc) AuthorWithRecipesResponse {
	resp := AuthorWithRecipesResponse{
		UserResponse: NewUserResponse(a.Profile),
		Recipes:      make([]RecipeShortResponse, len(a.Recipes)),
		RecipesCount: a.RecipesCount,
	}
	for i, summary := range a.Recipes {
		resp.Recipes[i] = NewRecipeShortResponse(summary, imageURL)
	}
	return resp
}
