package users

import (
	"context"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int, error)
}

// SubscriptionReader answers which of a set of authors a user follows.
type SubscriptionReader interface {
	SubscribedAuthorIDs(ctx context.Context, userID int64, authorIDs []int64) ([]int64, error)
}
