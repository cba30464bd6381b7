package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
)

func TagsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := webApp.Catalog.ListTags(c.Context())
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		resp := make([]webmodels.TagResponse, len(tags))
		for i, tag := range tags {
			resp[i] = webmodels.NewTagResponse(tag)
		}
		return utils.SendJSON(c, fiber.StatusOK, resp)
	}
}

func TagsDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Tag not found")
		}

		tag, err := webApp.Catalog.GetTag(c.Context(), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewTagResponse(tag))
	}
}

// IngredientsList searches by ?name= when given.
func IngredientsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ingredients, err := webApp.Catalog.ListIngredients(c.Context(), c.Query("name"))
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		resp := make([]webmodels.IngredientResponse, len(ingredients))
		for i, ingredient := range ingredients {
			resp[i] = webmodels.NewIngredientResponse(ingredient)
		}
		return utils.SendJSON(c, fiber.StatusOK, resp)
	}
}

func IngredientsDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Ingredient not found")
		}

		ingredient, err := webApp.Catalog.GetIngredient(c.Context(), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewIngredientResponse(ingredient))
	}
}
