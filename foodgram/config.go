package foodgram

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/foodgram/foodgram/foodgram/database"
)

// LoadConfig reads the TOML file at path, applies .env / FOODGRAM_* overrides
// and fills in defaults for anything left unset.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.DB.LogQueries = cfg.Log.Queries
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Web    WebConfig         `toml:"web"`
	Auth   AuthConfig        `toml:"auth"`
	Spaces SpacesConfig      `toml:"spaces"`
	Media  MediaConfig       `toml:"media"`
	PDF    PDFConfig         `toml:"pdf"`
	Cache  CacheConfig       `toml:"cache"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
	Queries   bool       `toml:"queries"`
}

type WebConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
	Debug        bool     `toml:"debug"`
	// ProxyHeader is trusted only for requests coming from TrustedProxies.
	ProxyHeader    string   `toml:"proxy_header"`
	TrustedProxies []string `toml:"trusted_proxies"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

type SpacesConfig struct {
	Enabled   bool   `toml:"enabled"`
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	Endpoint  string `toml:"endpoint"`
	PublicURL string `toml:"public_url"`
	ImageRoot string `toml:"image_root"`
}

// MediaConfig is the local image store used when Spaces is disabled.
type MediaConfig struct {
	Dir       string `toml:"dir"`
	URLPrefix string `toml:"url_prefix"`
}

type PDFConfig struct {
	Enabled bool `toml:"enabled"`
}

type CacheConfig struct {
	Size int `toml:"size"`
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FOODGRAM_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("FOODGRAM_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("FOODGRAM_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOODGRAM_SPACES_KEY"); v != "" {
		c.Spaces.Key = v
	}
	if v := os.Getenv("FOODGRAM_SPACES_SECRET"); v != "" {
		c.Spaces.Secret = v
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Host == "" {
		c.DB.Host = "localhost"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.PoolSize == 0 {
		c.DB.PoolSize = 10
	}
	if c.Web.Host == "" {
		c.Web.Host = "0.0.0.0"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8000
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "foodgram"
	}
	if c.Spaces.ImageRoot == "" {
		c.Spaces.ImageRoot = "recipes/images"
	}
	if c.Media.Dir == "" {
		c.Media.Dir = "media"
	}
	if c.Media.URLPrefix == "" {
		c.Media.URLPrefix = "/media"
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 1024
	}
}
