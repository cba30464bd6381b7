package migration

import "time"

// CatalogIngredient is one record of an ingredient seed file.
type CatalogIngredient struct {
	Name            string `json:"name" bson:"name"`
	MeasurementUnit string `json:"measurement_unit" bson:"measurement_unit"`
}

// CatalogTag is one record of a tag seed file.
type CatalogTag struct {
	Name  string `json:"name" bson:"name"`
	Color string `json:"color" bson:"color"`
	Slug  string `json:"slug" bson:"slug"`
}

// ImportStats tracks the outcome of one import run
type ImportStats struct {
	Tables    map[string]*TableStats `json:"tables"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
}

// TableStats tracks stats for individual tables
type TableStats struct {
	TableName string `json:"table_name"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Invalid   int    `json:"invalid"`
}

func (s *ImportStats) table(name string) *TableStats {
	if s.Tables == nil {
		s.Tables = make(map[string]*TableStats)
	}
	t, ok := s.Tables[name]
	if !ok {
		t = &TableStats{TableName: name}
		s.Tables[name] = t
	}
	return t
}
