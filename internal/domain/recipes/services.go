package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/users"
)

type Service interface {
	Create(ctx context.Context, principal access.Principal, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, principal access.Principal, id int64, input RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, principal access.Principal, id int64) error
	Get(ctx context.Context, principal access.Principal, id int64) (*RecipeView, error)
	List(ctx context.Context, principal access.Principal, filter Filter) (*pagination.Page[*RecipeView], error)
}

type service struct {
	repository    Repository
	catalog       Catalog
	membership    MembershipReader
	subscriptions SubscriptionReader
	images        ImageStore
	log           *slog.Logger
}

func NewService(repository Repository, catalog Catalog, membership MembershipReader, subscriptions SubscriptionReader, images ImageStore) *service {
	return &service{
		repository:    repository,
		catalog:       catalog,
		membership:    membership,
		subscriptions: subscriptions,
		images:        images,
		log:           slog.With("service", "recipes"),
	}
}

func (s *service) Create(ctx context.Context, principal access.Principal, input RecipeInput) (*RecipeView, error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}
	if err := validateInput(input, true); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	ref, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    principal.UserID,
		Name:        strings.TrimSpace(input.Name),
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Image:       &ref,
	}
	if err := s.repository.Create(ctx, recipe, input.Tags, ingredientRows(input.Ingredients)); err != nil {
		s.discardImage(ctx, ref)
		return nil, fmt.Errorf("failed to create recipe: %w", apperrors.FromRepository(err))
	}

	s.log.Info("Recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.Int64("author_id", principal.UserID))
	return s.Get(ctx, principal, recipe.ID)
}

func (s *service) Update(ctx context.Context, principal access.Principal, id int64, input RecipeInput) (*RecipeView, error) {
	if err := access.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	existing, err := s.repository.GetSummary(ctx, id)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}
	if !principal.CanModify(existing.AuthorID) {
		return nil, apperrors.Forbidden("only the author can change this recipe")
	}

	if err := validateInput(input, false); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	previous := imageRef(existing)
	current := previous
	if input.Image != nil {
		if current, err = s.storeImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}

	recipe := &models.Recipe{
		ID:          id,
		AuthorID:    existing.AuthorID,
		Name:        strings.TrimSpace(input.Name),
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Image:       existing.Image,
	}
	if current != "" {
		recipe.Image = &current
	}

	if err := s.repository.Update(ctx, recipe, input.Tags, ingredientRows(input.Ingredients)); err != nil {
		if current != previous {
			s.discardImage(ctx, current)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", apperrors.FromRepository(err))
	}
	if current != previous {
		s.discardImage(ctx, previous)
	}

	return s.Get(ctx, principal, id)
}

func (s *service) Delete(ctx context.Context, principal access.Principal, id int64) error {
	if err := access.RequireAuthenticated(principal); err != nil {
		return err
	}

	existing, err := s.repository.GetSummary(ctx, id)
	if err != nil {
		return apperrors.FromRepository(err)
	}
	if !principal.CanModify(existing.AuthorID) {
		return apperrors.Forbidden("only the author can delete this recipe")
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return apperrors.FromRepository(err)
	}
	s.discardImage(ctx, imageRef(existing))

	s.log.Info("Recipe deleted",
		slog.Int64("recipe_id", id),
		slog.Int64("user_id", principal.UserID))
	return nil
}

func (s *service) Get(ctx context.Context, principal access.Principal, id int64) (*RecipeView, error) {
	recipe, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}

	views, err := s.buildViews(ctx, principal, []*models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *service) List(ctx context.Context, principal access.Principal, filter Filter) (*pagination.Page[*RecipeView], error) {
	params := filter.Params.Normalize()

	query := repositories.RecipeQuery{
		AuthorID: filter.AuthorID,
		Offset:   params.Offset(),
		Limit:    params.Limit,
	}
	for _, tag := range filter.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if id, err := strconv.ParseInt(tag, 10, 64); err == nil {
			query.TagIDs = append(query.TagIDs, id)
		} else {
			query.TagSlugs = append(query.TagSlugs, tag)
		}
	}
	if principal.IsAuthenticated() {
		if filter.IsFavorited {
			query.FavoritedBy = principal.UserID
		}
		if filter.IsInShoppingCart {
			query.InCartOf = principal.UserID
		}
	}

	list, total, err := s.repository.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	views, err := s.buildViews(ctx, principal, list)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(views, total, params), nil
}

// checkReferences fails with NotFound when a tag or ingredient id is unknown.
func (s *service) checkReferences(ctx context.Context, input RecipeInput) error {
	if _, err := s.catalog.TagsByIDs(ctx, input.Tags); err != nil {
		return err
	}

	ids := make([]int64, len(input.Ingredients))
	for i, item := range input.Ingredients {
		ids[i] = item.ID
	}
	if _, err := s.catalog.IngredientsByIDs(ctx, ids); err != nil {
		return err
	}
	return nil
}

func (s *service) storeImage(ctx context.Context, image *Image) (string, error) {
	if image == nil {
		return "", nil
	}
	ref, err := s.images.Put(ctx, image.Data, image.Ext)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

func (s *service) discardImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		s.log.Warn("Failed to delete recipe image",
			slog.String("ref", ref),
			slog.Any("error", err))
	}
}

func ingredientRows(items []IngredientAmount) []*models.IngredientInRecipe {
	rows := make([]*models.IngredientInRecipe, len(items))
	for i, item := range items {
		rows[i] = &models.IngredientInRecipe{IngredientID: item.ID, Amount: item.Amount}
	}
	return rows
}

// buildViews joins recipes with the viewer's favorites, cart and
// subscriptions. Anonymous viewers get every flag false.
func (s *service) buildViews(ctx context.Context, principal access.Principal, list []*models.Recipe) ([]*RecipeView, error) {
	favorited := make(map[int64]bool)
	inCart := make(map[int64]bool)
	subscribed := make(map[int64]bool)

	if principal.IsAuthenticated() && len(list) > 0 {
		recipeIDs := make([]int64, len(list))
		authorSet := make(map[int64]struct{})
		authorIDs := make([]int64, 0, len(list))
		for i, recipe := range list {
			recipeIDs[i] = recipe.ID
			if _, ok := authorSet[recipe.AuthorID]; !ok {
				authorSet[recipe.AuthorID] = struct{}{}
				authorIDs = append(authorIDs, recipe.AuthorID)
			}
		}

		if err := s.markMembers(ctx, models.KindFavorites, principal.UserID, recipeIDs, favorited); err != nil {
			return nil, err
		}
		if err := s.markMembers(ctx, models.KindShoppingCart, principal.UserID, recipeIDs, inCart); err != nil {
			return nil, err
		}

		ids, err := s.subscriptions.SubscribedAuthorIDs(ctx, principal.UserID, authorIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load subscriptions: %w", err)
		}
		for _, id := range ids {
			subscribed[id] = true
		}
	}

	views := make([]*RecipeView, len(list))
	for i, recipe := range list {
		views[i] = newView(recipe, favorited[recipe.ID], inCart[recipe.ID], subscribed[recipe.AuthorID])
	}
	return views, nil
}

func (s *service) markMembers(ctx context.Context, kind models.MembershipKind, userID int64, recipeIDs []int64, into map[int64]bool) error {
	ids, err := s.membership.MemberRecipeIDs(ctx, kind, userID, recipeIDs)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}
	for _, id := range ids {
		into[id] = true
	}
	return nil
}

func newView(recipe *models.Recipe, favorited, inCart, subscribed bool) *RecipeView {
	view := &RecipeView{
		ID:               recipe.ID,
		Tags:             recipe.Tags,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            imageRef(recipe),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Ingredients:      make([]IngredientLine, 0, len(recipe.Ingredients)),
	}
	if view.Tags == nil {
		view.Tags = []*models.Tag{}
	}
	if recipe.Author != nil {
		view.Author = users.NewProfile(recipe.Author, subscribed)
	}
	for _, item := range recipe.Ingredients {
		line := IngredientLine{ID: item.IngredientID, Amount: item.Amount}
		if item.Ingredient != nil {
			line.Name = item.Ingredient.Name
			line.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, line)
	}
	return view
}
