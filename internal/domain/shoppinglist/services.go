package shoppinglist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
)

const pdfContentType = "application/pdf"

type Service interface {
	Compute(ctx context.Context, principal access.Principal) ([]Line, error)
	Export(ctx context.Context, principal access.Principal) (*Document, error)
}

type service struct {
	repository Repository
	renderer   Renderer
	log        *slog.Logger
}

func NewService(repository Repository, renderer Renderer) *service {
	return &service{
		repository: repository,
		renderer:   renderer,
		log:        slog.With("service", "shoppinglist"),
	}
}

func (s *service) Compute(ctx context.Context, principal access.Principal) ([]Line, error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	count, err := s.repository.Count(ctx, models.KindShoppingCart, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cart: %w", err)
	}
	if count == 0 {
		return nil, apperrors.Validation(apperrors.CodeEmptyCart, "shopping cart is empty")
	}

	rows, err := s.repository.CartIngredientRows(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart ingredients: %w", err)
	}
	return Aggregate(rows), nil
}

func (s *service) Export(ctx context.Context, principal access.Principal) (*Document, error) {
	lines, err := s.Compute(ctx, principal)
	if err != nil {
		return nil, err
	}

	renderCtx, cancel := context.WithTimeout(ctx, config.RenderTimeout)
	defer cancel()

	body, err := s.renderer.Render(renderCtx, config.ShoppingCartTitle, Render(lines))
	if err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}

	s.log.Info("Shopping list exported",
		slog.Int64("user_id", principal.UserID),
		slog.Int("lines", len(lines)),
		slog.Int("bytes", len(body)))
	return &Document{
		Filename:    config.ShoppingCartFile,
		ContentType: pdfContentType,
		Body:        body,
	}, nil
}
