package backend

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/foodgram/foodgram/backend/config"
	"github.com/foodgram/foodgram/backend/handlers"
	"github.com/foodgram/foodgram/backend/middleware"
	"github.com/foodgram/foodgram/backend/utils"
	appconfig "github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/internal/domain/ledger"
)

// ServerOptions holds what the router needs besides the handlers.
type ServerOptions struct {
	Tokens   middleware.TokenVerifier
	MediaDir string // served under the media URL prefix when non-empty
}

// NewApp builds the fiber application with global middleware and routes.
func NewApp(webApp *handlers.WebApp, opts ServerOptions) *fiber.App {
	cfg := fiber.Config{
		AppName:           "Foodgram API",
		ServerHeader:      "Foodgram",
		ErrorHandler:      middleware.CustomErrorHandler,
		BodyLimit:         appconfig.MaxRequestSize,
		ReadTimeout:       appconfig.RequestTimeout,
		EnablePrintRoutes: webApp.Config != nil && webApp.Config.Debug,
	}
	if webApp.Config != nil && webApp.Config.Config != nil && webApp.Config.Config.Web.ProxyHeader != "" {
		web := webApp.Config.Config.Web
		cfg.ProxyHeader = web.ProxyHeader
		cfg.EnableTrustedProxyCheck = true
		cfg.TrustedProxies = web.TrustedProxies
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(webApp.Config),
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With",
	}))
	app.Use(middleware.LoggingMiddleware())

	if opts.MediaDir != "" && webApp.Config != nil {
		app.Static(webApp.Config.Config.Media.URLPrefix, opts.MediaDir)
	}

	SetupRoutes(app, webApp, opts.Tokens)
	return app
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, webApp *handlers.WebApp, tokens middleware.TokenVerifier) {
	app.Get("/health", handlers.HealthCheck(webApp))

	api := app.Group("/api", middleware.OptionalAuth(tokens), middleware.APIRateLimit())
	api.Get("/health", handlers.HealthCheck(webApp))
	authRequired := middleware.AuthRequired()
	authLimit := middleware.AuthRateLimit()

	auth := api.Group("/auth/token")
	auth.Post("/login", authLimit, handlers.Login(webApp))
	auth.Post("/logout", authRequired, handlers.Logout(webApp))

	api.Get("/tags", handlers.TagsList(webApp))
	api.Get("/tags/:id", handlers.TagsDetail(webApp))
	api.Get("/ingredients", handlers.IngredientsList(webApp))
	api.Get("/ingredients/:id", handlers.IngredientsDetail(webApp))

	// static segments go before /:id
	users := api.Group("/users")
	users.Get("/", handlers.UsersList(webApp))
	users.Post("/", authLimit, handlers.UsersRegister(webApp))
	users.Get("/me", authRequired, handlers.UsersMe(webApp))
	users.Get("/subscriptions", authRequired, handlers.SubscriptionsList(webApp))
	users.Get("/:id", handlers.UsersDetail(webApp))
	users.Post("/:id/subscribe", authRequired, handlers.Subscribe(webApp))
	users.Delete("/:id/subscribe", authRequired, handlers.Unsubscribe(webApp))

	recipes := api.Group("/recipes")
	recipes.Get("/", handlers.RecipesList(webApp))
	recipes.Post("/", authRequired, handlers.RecipesCreate(webApp))
	recipes.Get("/download_shopping_cart", authRequired, handlers.DownloadShoppingCart(webApp))
	recipes.Get("/:id", handlers.RecipesDetail(webApp))
	recipes.Put("/:id", authRequired, handlers.RecipesUpdate(webApp))
	recipes.Patch("/:id", authRequired, handlers.RecipesUpdate(webApp))
	recipes.Delete("/:id", authRequired, handlers.RecipesDelete(webApp))
	recipes.Post("/:id/favorite", authRequired, handlers.MembershipAdd(webApp, ledger.Favorites))
	recipes.Delete("/:id/favorite", authRequired, handlers.MembershipRemove(webApp, ledger.Favorites))
	recipes.Post("/:id/shopping_cart", authRequired, handlers.MembershipAdd(webApp, ledger.ShoppingCart))
	recipes.Delete("/:id/shopping_cart", authRequired, handlers.MembershipRemove(webApp, ledger.ShoppingCart))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return utils.SendNotFound(c, "The requested endpoint does not exist")
	})
}

func allowOrigins(cfg *config.WebAppConfig) string {
	if cfg == nil {
		return "*"
	}
	return cfg.AllowOrigins()
}
