package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/users"
)

type Service interface {
	Subscribe(ctx context.Context, principal access.Principal, authorID int64, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, principal access.Principal, authorID int64) error
	ListSubscriptions(ctx context.Context, principal access.Principal, params pagination.Params, recipesLimit int) (*pagination.Page[*AuthorView], error)
}

type service struct {
	repository Repository
	users      UserReader
	recipes    RecipeReader
	log        *slog.Logger
}

func NewService(repository Repository, userReader UserReader, recipeReader RecipeReader) *service {
	return &service{
		repository: repository,
		users:      userReader,
		recipes:    recipeReader,
		log:        slog.With("service", "subscriptions"),
	}
}

// Subscribe makes the caller follow authorID. A repeated subscription is
// rejected by the unique constraint on insert.
func (s *service) Subscribe(ctx context.Context, principal access.Principal, authorID int64, recipesLimit int) (*AuthorView, error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}
	if principal.UserID == authorID {
		return nil, apperrors.Validation(apperrors.CodeSelfSubscription, "you cannot subscribe to yourself")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}

	if err := s.repository.Add(ctx, principal.UserID, authorID); err != nil {
		var conflict *repositories.ConflictError
		if errors.As(err, &conflict) {
			return nil, apperrors.Conflict(apperrors.CodeAlreadySubscribed, "you are already subscribed to this author")
		}
		return nil, fmt.Errorf("failed to subscribe: %w", apperrors.FromRepository(err))
	}

	s.log.Info("Subscribed",
		slog.Int64("user_id", principal.UserID),
		slog.Int64("author_id", authorID))
	return s.authorView(ctx, author, recipesLimit)
}

func (s *service) Unsubscribe(ctx context.Context, principal access.Principal, authorID int64) error {
	if err := access.RequireAuthenticated(principal); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return apperrors.FromRepository(err)
	}

	removed, err := s.repository.Remove(ctx, principal.UserID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if !removed {
		return apperrors.NotFound("subscription", authorID)
	}
	return nil
}

// ListSubscriptions pages through the followed authors. Each author on the
// page is enriched concurrently.
func (s *service) ListSubscriptions(ctx context.Context, principal access.Principal, params pagination.Params, recipesLimit int) (*pagination.Page[*AuthorView], error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}
	params = params.Normalize()

	authors, total, err := s.repository.ListAuthors(ctx, principal.UserID, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views := make([]*AuthorView, len(authors))
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(config.MaxParallelQueries))

	for i, author := range authors {
		i, author := i, author
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			view, err := s.authorView(gctx, author, recipesLimit)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pagination.NewPage(views, total, params), nil
}

// authorView loads the recipe preview and total count. The viewer follows
// every author it is built for.
func (s *service) authorView(ctx context.Context, author *models.User, recipesLimit int) (*AuthorView, error) {
	list, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes of author %d: %w", author.ID, err)
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes of author %d: %w", author.ID, err)
	}

	summaries := make([]*recipes.RecipeSummary, len(list))
	for i, recipe := range list {
		summaries[i] = recipes.NewSummary(recipe)
	}
	return &AuthorView{
		Profile:      users.NewProfile(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}
