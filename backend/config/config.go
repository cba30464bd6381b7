package config

import (
	"strings"

	"github.com/foodgram/foodgram/foodgram"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config      *foodgram.Config
	Debug       bool
	Environment string
}

// NewWebAppConfig creates a new web app configuration
func NewWebAppConfig(cfg *foodgram.Config) *WebAppConfig {
	environment := "production"
	if cfg.Web.Debug {
		environment = "development"
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       cfg.Web.Debug,
		Environment: environment,
	}
}

// AllowOrigins joins the configured CORS origins for the fiber middleware.
func (w *WebAppConfig) AllowOrigins() string {
	origins := w.Config.Web.AllowOrigins
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
