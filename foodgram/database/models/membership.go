package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MembershipKind selects one of the per-user recipe sets.
type MembershipKind string

const (
	KindFavorites    MembershipKind = "favorites"
	KindShoppingCart MembershipKind = "shopping_carts"
)

type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	RecipeID  int64     `bun:"recipe_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type ShoppingCart struct {
	bun.BaseModel `bun:"table:shopping_carts,alias:sc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	RecipeID  int64     `bun:"recipe_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions,alias:sub"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	AuthorID  int64     `bun:"author_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// CartIngredientRow is one ingredient_in_recipe row reachable from a user's cart.
type CartIngredientRow struct {
	RecipeID        int64  `bun:"recipe_id"`
	Name            string `bun:"name"`
	MeasurementUnit string `bun:"measurement_unit"`
	Amount          int    `bun:"amount"`
}
