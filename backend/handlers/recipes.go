package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/foodgram/services"
	"github.com/foodgram/foodgram/internal/domain/recipes"
)

// =============================================================================
// RECIPES
// =============================================================================

func RecipesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := recipes.Filter{
			Tags:             utils.QueryValues(c, "tags"),
			IsFavorited:      utils.QueryFlag(c, "is_favorited"),
			IsInShoppingCart: utils.QueryFlag(c, "is_in_shopping_cart"),
			Params:           utils.ParsePagination(c),
		}
		if author := c.QueryInt("author", 0); author > 0 {
			filter.AuthorID = int64(author)
		}

		page, err := webApp.Recipes.List(c.Context(), utils.ExtractPrincipal(c), filter)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewPageResponse(page, requestURL(c),
			func(v *recipes.RecipeView) webmodels.RecipeResponse {
				return webmodels.NewRecipeResponse(v, webApp.imageURL)
			}))
	}
}

func RecipesDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Recipe not found")
		}

		view, err := webApp.Recipes.Get(c.Context(), utils.ExtractPrincipal(c), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewRecipeResponse(view, webApp.imageURL))
	}
}

func RecipesCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, details := parseRecipeRequest(c)
		if details != nil {
			return utils.SendBadRequest(c, "Invalid recipe", details)
		}

		view, err := webApp.Recipes.Create(c.Context(), utils.ExtractPrincipal(c), input)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		slog.Info("Recipe created successfully",
			slog.Int64("recipe_id", view.ID),
			slog.String("name", view.Name))

		return utils.SendCreated(c, webmodels.NewRecipeResponse(view, webApp.imageURL))
	}
}

// RecipesUpdate serves both PUT and PATCH. Every field except the image is
// required either way.
func RecipesUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Recipe not found")
		}

		input, details := parseRecipeRequest(c)
		if details != nil {
			return utils.SendBadRequest(c, "Invalid recipe", details)
		}

		view, err := webApp.Recipes.Update(c.Context(), utils.ExtractPrincipal(c), id, input)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewRecipeResponse(view, webApp.imageURL))
	}
}

func RecipesDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Recipe not found")
		}

		if err := webApp.Recipes.Delete(c.Context(), utils.ExtractPrincipal(c), id); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// parseRecipeRequest decodes the body and its inline image. Domain rules
// are left to the service.
func parseRecipeRequest(c *fiber.Ctx) (recipes.RecipeInput, map[string]string) {
	var req webmodels.RecipeRequest
	if details := utils.ParseBody(c, &req); details != nil {
		return recipes.RecipeInput{}, details
	}

	input := recipes.RecipeInput{
		Tags:        req.Tags,
		Ingredients: make([]recipes.IngredientAmount, len(req.Ingredients)),
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	for i, item := range req.Ingredients {
		input.Ingredients[i] = recipes.IngredientAmount{ID: item.ID, Amount: item.Amount}
	}

	if image := strings.TrimSpace(req.Image); image != "" {
		data, ext, err := services.DecodeDataURI(image)
		if err != nil {
			return recipes.RecipeInput{}, map[string]string{"image": err.Error()}
		}
		input.Image = &recipes.Image{Data: data, Ext: ext}
	}
	return input, nil
}
