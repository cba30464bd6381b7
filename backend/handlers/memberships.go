package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/internal/domain/ledger"
)

// MembershipAdd puts the recipe into the caller's favorites or cart.
func MembershipAdd(webApp *WebApp, kind ledger.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Recipe not found")
		}

		summary, err := webApp.Ledger.Add(c.Context(), utils.ExtractPrincipal(c), kind, id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewRecipeShortResponse(summary, webApp.imageURL))
	}
}

func MembershipRemove(webApp *WebApp, kind ledger.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseInt64Param(c, "id")
		if !ok {
			return utils.SendNotFound(c, "Recipe not found")
		}

		if err := webApp.Ledger.Remove(c.Context(), utils.ExtractPrincipal(c), kind, id); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// DownloadShoppingCart sends the aggregated cart as an attachment.
func DownloadShoppingCart(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := utils.ExtractPrincipal(c)

		doc, err := webApp.ShoppingList.Export(c.Context(), principal)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		slog.Info("Shopping list exported",
			slog.Int64("user_id", principal.UserID),
			slog.Int("size", len(doc.Body)))

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return c.Status(fiber.StatusOK).Send(doc.Body)
	}
}
