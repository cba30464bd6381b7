package pagination

import "github.com/foodgram/foodgram/foodgram/config"

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Normalize fills defaults and clamps the limit to the allowed range.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = config.DefaultPageSize
	}
	if p.Limit > config.MaxPageSize {
		p.Limit = config.MaxPageSize
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items []T
	Total int
	Params
}

func NewPage[T any](items []T, total int, params Params) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Params: params}
}

func (p *Page[T]) HasNext() bool {
	return p.Page*p.Limit < p.Total
}

func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}
