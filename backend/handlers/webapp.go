package handlers

import (
	"context"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/foodgram/foodgram/backend/config"
	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/catalog"
	"github.com/foodgram/foodgram/internal/domain/ledger"
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/shoppinglist"
	"github.com/foodgram/foodgram/internal/domain/subscriptions"
	"github.com/foodgram/foodgram/internal/domain/users"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenIssuer signs auth tokens for logged in users.
type TokenIssuer interface {
	Issue(principal access.Principal) (string, error)
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config        *config.WebAppConfig
	DB            Pinger
	Recipes       recipes.Service
	Ledger        ledger.Service
	ShoppingList  shoppinglist.Service
	Subscriptions subscriptions.Service
	Users         users.Service
	Catalog       catalog.Service
	Tokens        TokenIssuer
	ImageURL      webmodels.ImageURLFunc
	Version       string
	Commit        string
}

// imageURL falls back to the bare reference when no resolver is set.
func (w *WebApp) imageURL(ref string) string {
	if w.ImageURL == nil || ref == "" {
		return ref
	}
	return w.ImageURL(ref)
}

// requestURL is the absolute URL of the current request, used for page links.
func requestURL(c *fiber.Ctx) *url.URL {
	u, err := url.Parse(c.BaseURL() + c.OriginalURL())
	if err != nil {
		return nil
	}
	return u
}
