package models

import "github.com/uptrace/bun"

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull,unique"`
	Color string `bun:"color,notnull,unique"`
	Slug  string `bun:"slug,notnull,unique"`
}
