package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/foodgram/foodgram/backend/utils"
	"github.com/foodgram/foodgram/foodgram/config"
)

// RateLimit allows max requests per window for each caller. Callers are
// keyed by user id once authenticated, by client IP otherwise. c.IP() only
// honours a proxy header when the app trusts the peer.
func RateLimit(name string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		KeyGenerator:      callerKey,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			slog.Warn("Rate limit exceeded",
				slog.String("limiter", name),
				slog.String("caller", callerKey(c)),
				slog.String("path", c.Path()),
				slog.String("method", c.Method()),
				slog.Int("limit", max),
				slog.Duration("window", window))

			return utils.SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please try again later.", nil)
		},
	})
}

func callerKey(c *fiber.Ctx) string {
	if principal := utils.ExtractPrincipal(c); principal.IsAuthenticated() {
		return "user:" + strconv.FormatInt(principal.UserID, 10)
	}
	return "ip:" + c.IP()
}

// AuthRateLimit limits login and registration attempts. Build it once and
// share it between those routes.
func AuthRateLimit() fiber.Handler {
	return RateLimit("auth", config.AuthRateLimit, config.RateLimitWindow)
}

// APIRateLimit limits API requests.
func APIRateLimit() fiber.Handler {
	return RateLimit("api", config.GlobalRateLimit, config.RateLimitWindow)
}
