package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/foodgram/foodgram/backend"
	"github.com/foodgram/foodgram/backend/config"
	"github.com/foodgram/foodgram/backend/handlers"
	webmodels "github.com/foodgram/foodgram/backend/models"
	webservices "github.com/foodgram/foodgram/backend/services"
	"github.com/foodgram/foodgram/foodgram"
	appconfig "github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database"
	"github.com/foodgram/foodgram/foodgram/logger"
	"github.com/foodgram/foodgram/foodgram/services"
	"github.com/foodgram/foodgram/internal/domain/catalog"
	"github.com/foodgram/foodgram/internal/domain/ledger"
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/shoppinglist"
	"github.com/foodgram/foodgram/internal/domain/subscriptions"
	"github.com/foodgram/foodgram/internal/domain/users"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig("Foodgram-API")
		if err != nil {
			return err
		}

		logger.LogSystem("Starting Foodgram API",
			slog.String("version", Version),
			slog.String("commit", Commit))

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		slog.Info("Connecting to database...")
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		slog.Info("Database connected successfully")

		images, imageURL, mediaDir, err := newImageStore(ctx, cfg)
		if err != nil {
			return err
		}
		renderer := newRenderer(ctx, cfg)

		tokens, err := webservices.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, appconfig.TokenExpiration)
		if err != nil {
			return fmt.Errorf("failed to create token service: %w", err)
		}

		repos := webmodels.NewRepositories(db.BunDB())
		catalogService := catalog.NewService(repos.Tag, repos.Ingredient, cfg.Cache.Size)

		webApp := &handlers.WebApp{
			Config:        config.NewWebAppConfig(cfg),
			DB:            db,
			Recipes:       recipes.NewService(repos.Recipe, catalogService, repos.Membership, repos.Subscription, images),
			Ledger:        ledger.NewService(repos.Membership, repos.Recipe),
			ShoppingList:  shoppinglist.NewService(repos.Membership, renderer),
			Subscriptions: subscriptions.NewService(repos.Subscription, repos.User, repos.Recipe),
			Users:         users.NewService(repos.User, repos.Subscription),
			Catalog:       catalogService,
			Tokens:        tokens,
			ImageURL:      imageURL,
			Version:       Version,
			Commit:        Commit,
		}

		app := backend.NewApp(webApp, backend.ServerOptions{Tokens: tokens, MediaDir: mediaDir})

		address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		slog.Info("Starting backend server",
			slog.String("address", address),
			slog.String("environment", webApp.Config.Environment))

		listenErr := make(chan error, 1)
		go func() {
			listenErr <- app.Listen(address)
		}()

		// Graceful shutdown
		s := make(chan os.Signal, 1)
		signal.Notify(s, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-listenErr:
			return fmt.Errorf("server stopped: %w", err)
		case <-s:
		}

		slog.Info("Shutting down backend server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", slog.String("error", err.Error()))
		}

		slog.Info("Backend server shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newImageStore picks Spaces when enabled, otherwise a directory served
// by the API itself. mediaDir is empty for Spaces.
func newImageStore(ctx context.Context, cfg *foodgram.Config) (recipes.ImageStore, webmodels.ImageURLFunc, string, error) {
	if cfg.Spaces.Enabled {
		spaces, err := services.NewSpacesService(ctx, services.SpacesOptions{
			Key:       cfg.Spaces.Key,
			Secret:    cfg.Spaces.Secret,
			Region:    cfg.Spaces.Region,
			Bucket:    cfg.Spaces.Bucket,
			Endpoint:  cfg.Spaces.Endpoint,
			PublicURL: cfg.Spaces.PublicURL,
			ImageRoot: cfg.Spaces.ImageRoot,
		})
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to create spaces client: %w", err)
		}
		slog.Info("Storing recipe images in Spaces",
			slog.String("bucket", spaces.GetBucket()),
			slog.String("region", spaces.GetRegion()))
		return spaces, spaces.URL, "", nil
	}

	local := services.NewLocalImageStore(cfg.Media.Dir, cfg.Media.URLPrefix, cfg.Spaces.ImageRoot)
	slog.Info("Storing recipe images on disk", slog.String("dir", local.Dir()))
	return local, local.URL, local.Dir(), nil
}

// newRenderer falls back to plain text when PDF output is disabled or no
// browser can be started.
func newRenderer(ctx context.Context, cfg *foodgram.Config) shoppinglist.Renderer {
	if !cfg.PDF.Enabled {
		return services.PlainRenderer{}
	}

	pdf := services.NewPDFRenderer()
	if err := pdf.Available(ctx); err != nil {
		logger.LogError("PDF renderer unavailable, exporting plain text", err)
		return services.PlainRenderer{}
	}
	return pdf
}
