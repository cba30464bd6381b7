package subscriptions

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type Repository interface {
	Add(ctx context.Context, userID, authorID int64) error
	Remove(ctx context.Context, userID, authorID int64) (bool, error)
	ListAuthors(ctx context.Context, userID int64, offset, limit int) ([]*models.User, int, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type RecipeReader interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}
