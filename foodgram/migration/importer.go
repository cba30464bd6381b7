package migration

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
)

var tagColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type TagWriter interface {
	BulkCreate(ctx context.Context, tags []*models.Tag) (int, error)
}

type IngredientWriter interface {
	BulkCreate(ctx context.Context, ingredients []*models.Ingredient) (int, error)
}

// Importer seeds the catalog. Records that already exist are skipped.
type Importer struct {
	tags        TagWriter
	ingredients IngredientWriter
	pool        *pgxpool.Pool
	batchSize   int
	stats       ImportStats
}

func NewImporter(tags TagWriter, ingredients IngredientWriter) *Importer {
	return &Importer{
		tags:        tags,
		ingredients: ingredients,
		batchSize:   config.DefaultBatchSize,
		stats:       ImportStats{StartTime: time.Now()},
	}
}

func (im *Importer) SetBatchSize(size int) {
	if size > 0 {
		im.batchSize = size
	}
}

// UsePool switches ingredient import to pgx CopyFrom.
func (im *Importer) UsePool(pool *pgxpool.Pool) { im.pool = pool }

func (im *Importer) Stats() ImportStats {
	stats := im.stats
	stats.EndTime = time.Now()
	return stats
}

// NormalizeIngredients trims names and units, drops invalid records and
// keeps the first of any (name, unit) duplicates.
func NormalizeIngredients(records []CatalogIngredient) (valid []*models.Ingredient, invalid int) {
	seen := make(map[[2]string]struct{}, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		unit := strings.TrimSpace(r.MeasurementUnit)
		if name == "" || unit == "" ||
			utf8.RuneCountInString(name) > config.MaxCatalogNameLength ||
			utf8.RuneCountInString(unit) > config.MaxCatalogNameLength {
			invalid++
			continue
		}
		key := [2]string{name, unit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, &models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return valid, invalid
}

func NormalizeTags(records []CatalogTag) (valid []*models.Tag, invalid int) {
	for _, r := range records {
		tag := &models.Tag{
			Name:  strings.TrimSpace(r.Name),
			Color: strings.ToUpper(strings.TrimSpace(r.Color)),
			Slug:  strings.TrimSpace(r.Slug),
		}
		if tag.Name == "" || tag.Slug == "" || !tagColorPattern.MatchString(tag.Color) ||
			utf8.RuneCountInString(tag.Slug) > config.MaxTagSlugLength {
			invalid++
			continue
		}
		valid = append(valid, tag)
	}
	return valid, invalid
}

func (im *Importer) ImportIngredients(ctx context.Context, records []CatalogIngredient) error {
	stats := im.stats.table("ingredients")
	rows, invalid := NormalizeIngredients(records)
	stats.Processed += len(records)
	stats.Invalid += invalid

	logProgress("Importing ingredients", "records", len(records), "valid", len(rows))

	for start := 0; start < len(rows); start += im.batchSize {
		end := min(start+im.batchSize, len(rows))
		batch := rows[start:end]

		var inserted int
		var err error
		if im.pool != nil {
			inserted, err = im.copyIngredients(ctx, batch)
		} else {
			inserted, err = im.ingredients.BulkCreate(ctx, batch)
		}
		if err != nil {
			return fmt.Errorf("failed to import ingredients %d-%d: %w", start, end, err)
		}
		stats.Inserted += inserted
		stats.Skipped += len(batch) - inserted
	}

	logProgress("Ingredients imported", "inserted", stats.Inserted, "skipped", stats.Skipped)
	return nil
}

func (im *Importer) ImportTags(ctx context.Context, records []CatalogTag) error {
	stats := im.stats.table("tags")
	rows, invalid := NormalizeTags(records)
	stats.Processed += len(records)
	stats.Invalid += invalid

	inserted, err := im.tags.BulkCreate(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to import tags: %w", err)
	}
	stats.Inserted += inserted
	stats.Skipped += len(rows) - inserted

	logProgress("Tags imported", "inserted", inserted, "skipped", len(rows)-inserted)
	return nil
}

// copyIngredients streams a batch into a temp table and merges it into
// ingredients, skipping pairs that already exist.
func (im *Importer) copyIngredients(ctx context.Context, batch []*models.Ingredient) (int, error) {
	tx, err := im.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	createSQL := `CREATE TEMP TABLE tmp_ingredients (
		name TEXT NOT NULL,
		measurement_unit TEXT NOT NULL
	) ON COMMIT DROP`
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("failed to create temp table: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"tmp_ingredients"},
		[]string{"name", "measurement_unit"},
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			return []any{batch[i].Name, batch[i].MeasurementUnit}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy to temp failed: %w", err)
	}

	tag, err := tx.Exec(ctx, `INSERT INTO ingredients (name, measurement_unit)
		SELECT name, measurement_unit FROM tmp_ingredients
		ON CONFLICT ON CONSTRAINT unique_ingredient_name_unit DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("merge from temp failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
