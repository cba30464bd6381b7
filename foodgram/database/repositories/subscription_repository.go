package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type SubscriptionRepository interface {
	Add(ctx context.Context, userID, authorID int64) error
	Remove(ctx context.Context, userID, authorID int64) (bool, error)
	SubscribedAuthorIDs(ctx context.Context, userID int64, authorIDs []int64) ([]int64, error)
	ListAuthors(ctx context.Context, userID int64, offset, limit int) ([]*models.User, int, error)
}

type subscriptionRepository struct {
	*BaseRepository
}

func NewSubscriptionRepository(db *bun.DB) SubscriptionRepository {
	return &subscriptionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *subscriptionRepository) Add(ctx context.Context, userID, authorID int64) error {
	sub := &models.Subscription{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	_, err := r.ExecWithTimeout(ctx, "add", "subscription", func(ctx context.Context) (sql.Result, error) {
		return r.db.NewInsert().Model(sub).Exec(ctx)
	})
	return err
}

func (r *subscriptionRepository) Remove(ctx context.Context, userID, authorID int64) (bool, error) {
	res, err := r.ExecWithTimeout(ctx, "remove", "subscription", func(ctx context.Context) (sql.Result, error) {
		return r.db.NewDelete().
			Model((*models.Subscription)(nil)).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Exec(ctx)
	})
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SubscribedAuthorIDs returns the subset of authorIDs the user follows.
func (r *subscriptionRepository) SubscribedAuthorIDs(ctx context.Context, userID int64, authorIDs []int64) ([]int64, error) {
	if userID == 0 || len(authorIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err := r.SelectWithTimeout(ctx, "subscribed_ids", "subscription", func(ctx context.Context) error {
		return r.db.NewSelect().
			Model((*models.Subscription)(nil)).
			Column("sub.author_id").
			Where("sub.user_id = ?", userID).
			Where("sub.author_id IN (?)", bun.In(authorIDs)).
			Scan(ctx, &ids)
	})
	return ids, err
}

// ListAuthors pages through the authors the user follows, most recent
// subscription first.
func (r *subscriptionRepository) ListAuthors(ctx context.Context, userID int64, offset, limit int) ([]*models.User, int, error) {
	var authors []*models.User
	var total int
	err := r.SelectWithTimeout(ctx, "list_authors", "subscription", func(ctx context.Context) error {
		var err error
		total, err = r.db.NewSelect().
			Model(&authors).
			Join("JOIN subscriptions AS sub ON sub.author_id = u.id").
			Where("sub.user_id = ?", userID).
			Order("sub.created_at DESC", "sub.id DESC").
			Offset(offset).
			Limit(limit).
			ScanAndCount(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
