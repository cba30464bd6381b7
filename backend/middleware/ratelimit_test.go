package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/internal/domain/access"
)

func TestRateLimit_keysCallers(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		principal := access.Anonymous
		if id, err := strconv.ParseInt(c.Get("X-Test-User"), 10, 64); err == nil {
			principal = access.Principal{UserID: id}
		}
		c.Locals(utils.PrincipalKey, principal)
		return c.Next()
	})
	app.Use(RateLimit("test", 1, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	get := func(user, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusNoContent, get("1", ""))
	assert.Equal(t, fiber.StatusTooManyRequests, get("1", ""))
	assert.Equal(t, fiber.StatusNoContent, get("2", ""))

	assert.Equal(t, fiber.StatusNoContent, get("", "203.0.113.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, get("", "203.0.113.2"))
}
