package models

import (
	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/database/repositories"
)

// Repositories groups all repository interfaces for easy injection
type Repositories struct {
	User         repositories.UserRepository
	Tag          repositories.TagRepository
	Ingredient   repositories.IngredientRepository
	Recipe       repositories.RecipeRepository
	Membership   repositories.MembershipRepository
	Subscription repositories.SubscriptionRepository
}

// NewRepositories creates every repository over one database handle
func NewRepositories(db *bun.DB) *Repositories {
	return &Repositories{
		User:         repositories.NewUserRepository(db),
		Tag:          repositories.NewTagRepository(db),
		Ingredient:   repositories.NewIngredientRepository(db),
		Recipe:       repositories.NewRecipeRepository(db),
		Membership:   repositories.NewMembershipRepository(db),
		Subscription: repositories.NewSubscriptionRepository(db),
	}
}
