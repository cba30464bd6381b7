package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
)

func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LoginRequest
		if details := utils.ParseBody(c, &req); details != nil {
			return utils.SendBadRequest(c, "Invalid credentials payload", details)
		}

		principal, err := webApp.Users.Authenticate(c.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			return utils.SendDomainError(c, err)
		}

		token, err := webApp.Tokens.Issue(principal)
		if err != nil {
			slog.Error("Failed to issue token",
				slog.Int64("user_id", principal.UserID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to issue token")
		}

		slog.Info("User logged in", slog.Int64("user_id", principal.UserID))
		return utils.SendJSON(c, fiber.StatusOK, webmodels.TokenResponse{AuthToken: token})
	}
}

// Logout is stateless; tokens simply expire.
func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slog.Info("User logged out", slog.Int64("user_id", utils.ExtractPrincipal(c).UserID))
		return utils.SendNoContent(c)
	}
}
