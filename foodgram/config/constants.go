package config

import "time"

// Application-wide constants organized by domain

// Recipe constraints
const (
	MaxRecipeNameLength = 50
	MinCookingTime      = 1
	MaxCookingTime      = 1000
	MinIngredientAmount = 1
	MaxIngredientAmount = 10000

	MaxCatalogNameLength = 200
	MaxTagSlugLength     = 200
)

// Pagination
const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout = 30 * time.Second
	SearchTimeout       = 10 * time.Second
	BatchQueryTimeout   = 30 * time.Second
	NetworkDialTimeout  = 5 * time.Second
	RenderTimeout       = 15 * time.Second
	UploadTimeout       = 30 * time.Second

	// Cache settings
	CacheExpiration = 5 * time.Minute
	CacheSize       = 10000

	// Batch processing
	DefaultBatchSize   = 1000
	MaxParallelQueries = 4
	MaxRetries         = 3
	RetryInterval      = time.Second
)

// File and Storage Constants
const (
	MaxImageSize      = 10 * 1024 * 1024 // 10MB
	RecipeImageRoot   = "recipes/images"
	ShoppingCartFile  = "shopping_cart.pdf"
	ShoppingCartTitle = "Shopping list"
)

// API and Rate Limiting Constants
const (
	GlobalRateLimit = 100
	AuthRateLimit   = 5
	RateLimitWindow = 1 * time.Minute

	MaxRequestSize = 12 * 1024 * 1024 // images arrive inline as base64
	RequestTimeout = 30 * time.Second
)

// Search parameters
const (
	MaxSearchResults = 100
)

// Security Constants
const (
	TokenExpiration = 7 * 24 * time.Hour
)
