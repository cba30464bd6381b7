package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/internal/domain/access"
)

// TokenVerifier resolves a bearer token to the principal it was issued for.
type TokenVerifier interface {
	Verify(token string) (access.Principal, error)
}

// OptionalAuth stores the caller in the context. Requests without an
// Authorization header continue as anonymous; a bad token is rejected.
func OptionalAuth(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Locals(utils.PrincipalKey, access.Anonymous)
			return c.Next()
		}

		principal, err := tokens.Verify(token)
		if err != nil {
			slog.Debug("Optional auth: invalid token",
				slog.String("ip", c.IP()),
				slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Invalid token")
		}

		c.Locals(utils.PrincipalKey, principal)
		return c.Next()
	}
}

// AuthRequired rejects anonymous callers. It must run after OptionalAuth.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !utils.ExtractPrincipal(c).IsAuthenticated() {
			return utils.SendUnauthorized(c, "Authentication credentials were not provided")
		}
		return c.Next()
	}
}

// bearerToken accepts both "Token <t>" and "Bearer <t>" schemes.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
