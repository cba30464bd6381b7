package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/internal/domain/subscriptions"
	"github.com/foodgram/foodgram/internal/domain/users"
)

// =============================================================================
// USERS
// =============================================================================

func UsersList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := webApp.Users.List(c.Context(), utils.ExtractPrincipal(c), utils.ParsePagination(c))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewPageResponse(page, requestURL(c), webmodels.NewUserResponse))
	}
}

func UsersRegister(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RegisterRequest
		if details := utils.ParseBody(c, &req); details != nil {
			return utils.SendBadRequest(c, "Invalid registration", details)
		}

		profile, err := webApp.Users.Register(c.Context(), users.RegisterInput{
			Email:     req.Email,
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewUserResponse(profile))
	}
}

func UsersMe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := webApp.Users.Me(c.Context(), utils.ExtractPrincipal(c))
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewUserResponse(profile))
	}
}

func UsersDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "User not found")
		}

		profile, err := webApp.Users.Get(c.Context(), utils.ExtractPrincipal(c), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewUserResponse(profile))
	}
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func Subscribe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "User not found")
		}
		recipesLimit, err := utils.ParseNonNegativeQuery(c, "recipes_limit")
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), map[string]string{"recipes_limit": err.Error()})
		}

		author, err := webApp.Subscriptions.Subscribe(c.Context(), utils.ExtractPrincipal(c), id, recipesLimit)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewAuthorWithRecipesResponse(author, webApp.imageURL))
	}
}

func Unsubscribe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "User not found")
		}

		if err := webApp.Subscriptions.Unsubscribe(c.Context(), utils.ExtractPrincipal(c), id); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

func SubscriptionsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipesLimit, err := utils.ParseNonNegativeQuery(c, "recipes_limit")
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), map[string]string{"recipes_limit": err.Error()})
		}

		page, err := webApp.Subscriptions.ListSubscriptions(c.Context(), utils.ExtractPrincipal(c),
			utils.ParsePagination(c), recipesLimit)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		return utils.SendJSON(c, fiber.StatusOK, webmodels.NewPageResponse(page, requestURL(c),
			func(a *subscriptions.AuthorView) webmodels.AuthorWithRecipesResponse {
				return webmodels.NewAuthorWithRecipesResponse(a, webApp.imageURL)
			}))
	}
}
