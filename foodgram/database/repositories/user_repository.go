package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now()

	_, err := r.ExecWithTimeout(ctx, "create", "user", func(ctx context.Context) (sql.Result, error) {
		return r.db.NewInsert().Model(user).Returning("id").Exec(ctx)
	})
	if err != nil {
		slog.Warn("Failed to create user",
			slog.String("type", "db"),
			slog.String("username", user.Username),
			slog.Any("error", err))
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.SelectOneWithTimeout(ctx, "get", "user", id, func(ctx context.Context) error {
		return r.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user := new(models.User)
	err := r.SelectOneWithTimeout(ctx, "get_by_email", "user", email, func(ctx context.Context) error {
		return r.db.NewSelect().Model(user).Where("u.email = ?", email).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*models.User
	err := r.SelectWithTimeout(ctx, "get_by_ids", "user", func(ctx context.Context) error {
		return r.db.NewSelect().Model(&users).Where("u.id IN (?)", bun.In(ids)).Scan(ctx)
	})
	return users, err
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int, error) {
	var users []*models.User
	var total int
	err := r.SelectWithTimeout(ctx, "list", "user", func(ctx context.Context) error {
		var err error
		total, err = r.db.NewSelect().
			Model(&users).
			Order("u.id ASC").
			Offset(offset).
			Limit(limit).
			ScanAndCount(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.BaseRepository.Exists(ctx, "user",
		r.db.NewSelect().Model((*models.User)(nil)).Where("u.id = ?", id))
}
