package migration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type recordingWriter struct {
	ingredients [][]*models.Ingredient
	existing    map[string]bool
}

func (w *recordingWriter) BulkCreate(_ context.Context, rows []*models.Ingredient) (int, error) {
	w.ingredients = append(w.ingredients, rows)
	inserted := 0
	for _, row := range rows {
		if !w.existing[row.Name+"|"+row.MeasurementUnit] {
			inserted++
		}
	}
	return inserted, nil
}

type tagWriter struct {
	got []*models.Tag
}

func (w *tagWriter) BulkCreate(_ context.Context, tags []*models.Tag) (int, error) {
	w.got = append(w.got, tags...)
	return len(tags), nil
}

func TestNormalizeIngredients(t *testing.T) {
	rows, invalid := NormalizeIngredients([]CatalogIngredient{
		{Name: " flour ", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: "", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: " "},
		{Name: strings.Repeat("x", 201), MeasurementUnit: "g"},
	})

	assert.Equal(t, 3, invalid)
	require.Len(t, rows, 2)
	assert.Equal(t, "flour", rows[0].Name)
	assert.Equal(t, "g", rows[0].MeasurementUnit)
	assert.Equal(t, "kg", rows[1].MeasurementUnit)
}

func TestNormalizeTags(t *testing.T) {
	rows, invalid := NormalizeTags([]CatalogTag{
		{Name: "Breakfast", Color: "#e26c2d", Slug: "breakfast"},
		{Name: "Lunch", Color: "green", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: ""},
	})

	assert.Equal(t, 2, invalid)
	require.Len(t, rows, 1)
	assert.Equal(t, "#E26C2D", rows[0].Color)
}

func TestImporter_ImportIngredients_batches(t *testing.T) {
	writer := &recordingWriter{existing: map[string]bool{"sugar|g": true}}
	im := NewImporter(&tagWriter{}, writer)
	im.SetBatchSize(2)

	err := im.ImportIngredients(context.Background(), []CatalogIngredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "sugar", MeasurementUnit: "g"},
	})
	require.NoError(t, err)

	assert.Len(t, writer.ingredients, 2)
	stats := im.Stats().Tables["ingredients"]
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
}

func TestImporter_ImportTags(t *testing.T) {
	tags := &tagWriter{}
	im := NewImporter(tags, &recordingWriter{})

	err := im.ImportTags(context.Background(), []CatalogTag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	})
	require.NoError(t, err)
	require.Len(t, tags.got, 1)
	assert.Equal(t, 1, im.Stats().Tables["tags"].Inserted)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "ingredients.json")
	require.NoError(t, os.WriteFile(jsonPath,
		[]byte(`[{"name":"flour","measurement_unit":"g"},{"name":"milk","measurement_unit":"ml"}]`), 0o644))

	var dump bytes.Buffer
	for _, rec := range []CatalogIngredient{{Name: "flour", MeasurementUnit: "g"}, {Name: "eggs", MeasurementUnit: "pcs"}} {
		doc, err := bson.Marshal(rec)
		require.NoError(t, err)
		dump.Write(doc)
	}
	bsonPath := filepath.Join(dir, "ingredients.bson")
	require.NoError(t, os.WriteFile(bsonPath, dump.Bytes(), 0o644))

	fromJSON, err := ReadFile[CatalogIngredient](jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []CatalogIngredient{{Name: "flour", MeasurementUnit: "g"}, {Name: "milk", MeasurementUnit: "ml"}}, fromJSON)

	fromBSON, err := ReadFile[CatalogIngredient](bsonPath)
	require.NoError(t, err)
	assert.Equal(t, []CatalogIngredient{{Name: "flour", MeasurementUnit: "g"}, {Name: "eggs", MeasurementUnit: "pcs"}}, fromBSON)

	_, err = ReadFile[CatalogIngredient](filepath.Join(dir, "ingredients.csv"))
	assert.Error(t, err)
}

func TestReadBSON_truncated(t *testing.T) {
	doc, err := bson.Marshal(CatalogTag{Name: "Lunch"})
	require.NoError(t, err)

	count, err := readBSON(bytes.NewReader(doc[:len(doc)-3]), func([]byte) error { return nil })
	assert.Error(t, err)
	assert.Zero(t, count)
}
