package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/recipes"
)

// Kind selects one of the per-user recipe sets.
type Kind = models.MembershipKind

const (
	Favorites    Kind = models.KindFavorites
	ShoppingCart Kind = models.KindShoppingCart
)

type Service interface {
	Add(ctx context.Context, principal access.Principal, kind Kind, recipeID int64) (*recipes.RecipeSummary, error)
	Remove(ctx context.Context, principal access.Principal, kind Kind, recipeID int64) error
}

type service struct {
	repository Repository
	recipes    RecipeReader
	log        *slog.Logger
}

func NewService(repository Repository, recipeReader RecipeReader) *service {
	return &service{
		repository: repository,
		recipes:    recipeReader,
		log:        slog.With("service", "ledger"),
	}
}

func describe(kind Kind) string {
	if kind == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

// Add puts the recipe into the caller's set. Duplicates are detected by the
// unique constraint on insert.
func (s *service) Add(ctx context.Context, principal access.Principal, kind Kind, recipeID int64) (*recipes.RecipeSummary, error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetSummary(ctx, recipeID)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}

	if err := s.repository.Add(ctx, kind, principal.UserID, recipeID); err != nil {
		var conflict *repositories.ConflictError
		if errors.As(err, &conflict) {
			return nil, apperrors.Conflict(apperrors.CodeAlreadyMember,
				fmt.Sprintf("recipe is already in %s", describe(kind)))
		}
		return nil, fmt.Errorf("failed to add to %s: %w", describe(kind), apperrors.FromRepository(err))
	}

	s.log.Debug("Recipe added",
		slog.String("kind", string(kind)),
		slog.Int64("user_id", principal.UserID),
		slog.Int64("recipe_id", recipeID))
	return recipes.NewSummary(recipe), nil
}

func (s *service) Remove(ctx context.Context, principal access.Principal, kind Kind, recipeID int64) error {
	if err := access.RequireAuthenticated(principal); err != nil {
		return err
	}

	if _, err := s.recipes.GetSummary(ctx, recipeID); err != nil {
		return apperrors.FromRepository(err)
	}

	removed, err := s.repository.Remove(ctx, kind, principal.UserID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove from %s: %w", describe(kind), err)
	}
	if !removed {
		return apperrors.Validation(apperrors.CodeNotMember,
			fmt.Sprintf("recipe is not in %s", describe(kind)))
	}
	return nil
}
