package models

import "github.com/uptrace/bun"

type Ingredient struct {
	bun.BaseModel `bun:"table:ingredients,alias:ing"`

	ID              int64  `bun:"id,pk,autoincrement"`
	Name            string `bun:"name,notnull"`
	MeasurementUnit string `bun:"measurement_unit,notnull"`
}
