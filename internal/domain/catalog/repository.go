package catalog

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type TagRepository interface {
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
}

type IngredientRepository interface {
	GetAll(ctx context.Context) ([]*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error)
	SearchByName(ctx context.Context, fragment string, limit int) ([]*models.Ingredient, error)
}
