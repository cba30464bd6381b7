package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	AuthorID    int64     `bun:"author_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Image       *string   `bun:"image"`
	Text        string    `bun:"text,notnull"`
	CookingTime int       `bun:"cooking_time,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// Relations
	Author      *User                 `bun:"rel:belongs-to,join:author_id=id"`
	Tags        []*Tag                `bun:"m2m:recipe_tags,join:Recipe=Tag"`
	Ingredients []*IngredientInRecipe `bun:"rel:has-many,join:id=recipe_id"`
}

// RecipeTag is the recipe <-> tag join row.
type RecipeTag struct {
	bun.BaseModel `bun:"table:recipe_tags,alias:rt"`

	RecipeID int64   `bun:"recipe_id,pk"`
	Recipe   *Recipe `bun:"rel:belongs-to,join:recipe_id=id"`
	TagID    int64   `bun:"tag_id,pk"`
	Tag      *Tag    `bun:"rel:belongs-to,join:tag_id=id"`
}

// IngredientInRecipe carries the amount of one ingredient a recipe needs.
type IngredientInRecipe struct {
	bun.BaseModel `bun:"table:ingredient_in_recipe,alias:iir"`

	ID           int64       `bun:"id,pk,autoincrement"`
	RecipeID     int64       `bun:"recipe_id,notnull"`
	IngredientID int64       `bun:"ingredient_id,notnull"`
	Amount       int         `bun:"amount,notnull"`
	Ingredient   *Ingredient `bun:"rel:belongs-to,join:ingredient_id=id"`
}
