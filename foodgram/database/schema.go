package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

const schemaVersion = 1 // bump when schema/migrations change

type tableSpec struct {
	model       interface{}
	foreignKeys []string
}

// tables lists every application table in foreign-key order
var tables = []tableSpec{
	{model: (*models.User)(nil)},
	{model: (*models.Tag)(nil)},
	{model: (*models.Ingredient)(nil)},
	{
		model: (*models.Recipe)(nil),
		foreignKeys: []string{
			`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.RecipeTag)(nil),
		foreignKeys: []string{
			`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
			`("tag_id") REFERENCES "tags" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.IngredientInRecipe)(nil),
		foreignKeys: []string{
			`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
			`("ingredient_id") REFERENCES "ingredients" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.Favorite)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.ShoppingCart)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.Subscription)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
}

type constraintSpec struct {
	table      string
	name       string
	definition string
}

// constraints are added by name so that repositories can recognise them in
// violation errors
var constraints = []constraintSpec{
	{"ingredients", "unique_ingredient_name_unit", "UNIQUE (name, measurement_unit)"},
	{"ingredient_in_recipe", "unique_recipe_ingredient", "UNIQUE (recipe_id, ingredient_id)"},
	{"ingredient_in_recipe", "check_amount_range", "CHECK (amount BETWEEN 1 AND 10000)"},
	{"recipes", "check_cooking_time_range", "CHECK (cooking_time BETWEEN 1 AND 1000)"},
	{"tags", "check_color_hex", "CHECK (color ~ '^#[0-9A-Fa-f]{6}$')"},
	{"favorites", "unique_favorite", "UNIQUE (user_id, recipe_id)"},
	{"shopping_carts", "unique_shopping_cart", "UNIQUE (user_id, recipe_id)"},
	{"subscriptions", "unique_subscription", "UNIQUE (user_id, author_id)"},
	{"subscriptions", "check_no_self_subscription", "CHECK (user_id <> author_id)"},
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_recipes_author_id ON recipes(author_id);",
	"CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes(created_at DESC);",
	"CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag_id ON recipe_tags(tag_id);",
	"CREATE INDEX IF NOT EXISTS idx_ingredient_in_recipe_recipe_id ON ingredient_in_recipe(recipe_id);",
	"CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(lower(name));",
	"CREATE INDEX IF NOT EXISTS idx_favorites_recipe_id ON favorites(recipe_id);",
	"CREATE INDEX IF NOT EXISTS idx_shopping_carts_recipe_id ON shopping_carts(recipe_id);",
	"CREATE INDEX IF NOT EXISTS idx_subscriptions_author_id ON subscriptions(author_id);",
}

// InitializeSchema creates all required database tables, constraints and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureAppMeta(ctx); err == nil {
		if v, _ := db.getAppMeta(ctx, "schema_version"); v == fmt.Sprintf("%d", schemaVersion) {
			slog.Info("Schema up-to-date, skipping initialization",
				slog.Int("schema_version", schemaVersion))
			return nil
		}
	}

	for _, spec := range tables {
		query := db.bunDB.NewCreateTable().
			Model(spec.model).
			IfNotExists()
		for _, fk := range spec.foreignKeys {
			query = query.ForeignKey(fk)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, c := range constraints {
		if _, err := db.ExecWithLog(ctx, "constraint:"+c.name, addConstraintSQL(c)); err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, "index", idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err == nil {
		_ = db.setAppMeta(ctx, "schema_version", fmt.Sprintf("%d", schemaVersion))
	}

	return nil
}

func addConstraintSQL(c constraintSpec) string {
	return fmt.Sprintf(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
				ALTER TABLE %s ADD CONSTRAINT %s %s;
			END IF;
		END $$;`, c.name, c.table, c.name, c.definition)
}

// ensureAppMeta creates the app_meta table if not exists
func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.ExecWithLog(ctx, "app_meta", `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	row := db.pool.QueryRow(ctx, `SELECT value FROM app_meta WHERE key = $1`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		return "", err
	}
	return v, nil
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	sql := `INSERT INTO app_meta(key, value) VALUES($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := db.pool.Exec(ctx, sql, key, value)
	return err
}

// ResetAppTables truncates application tables for a fresh start
func (db *DB) ResetAppTables(ctx context.Context) error {
	names := []string{
		"subscriptions",
		"shopping_carts",
		"favorites",
		"ingredient_in_recipe",
		"recipe_tags",
		"recipes",
		"ingredients",
		"tags",
		"users",
	}

	stmt := "TRUNCATE TABLE " + joinIdentifiers(names) + " RESTART IDENTITY CASCADE;"
	if _, err := db.ExecWithLog(ctx, "reset", stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	slog.Info("App tables truncated successfully", "tables", names)
	return nil
}

// joinIdentifiers joins identifiers with proper quoting
func joinIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
