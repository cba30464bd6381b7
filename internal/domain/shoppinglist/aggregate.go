package shoppinglist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

type lineKey struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit) pair. The same name with a
// different unit stays a separate line. Output is sorted by name, then unit.
func Aggregate(rows []models.CartIngredientRow) []Line {
	totals := make(map[lineKey]int, len(rows))
	for _, row := range rows {
		totals[lineKey{name: row.Name, unit: row.MeasurementUnit}] += row.Amount
	}

	lines := make([]Line, 0, len(totals))
	for key, total := range totals {
		lines = append(lines, Line{Name: key.name, MeasurementUnit: key.unit, Total: total})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].MeasurementUnit < lines[j].MeasurementUnit
	})
	return lines
}

// Render formats lines as the plain-text list body.
func Render(lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.Name)
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(line.Total))
		b.WriteByte(' ')
		b.WriteString(line.MeasurementUnit)
		b.WriteString("\n\n")
	}
	return b.String()
}
