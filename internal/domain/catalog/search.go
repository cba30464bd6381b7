package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/foodgram/foodgram/foodgram/database/models"
)

// ingredientItems implements fuzzy.Source over ingredient names
type ingredientItems []*models.Ingredient

func (items ingredientItems) Len() int {
	return len(items)
}

func (items ingredientItems) String(i int) string {
	return strings.ToLower(items[i].Name)
}

// rankIngredients orders name matches for query: substring hits as the
// database returned them (prefix first), then fuzzy hits from the full list
// by score. The result holds at most limit entries and no duplicates.
func rankIngredients(query string, substring, all []*models.Ingredient, limit int) []*models.Ingredient {
	seen := make(map[int64]struct{}, len(substring))
	result := make([]*models.Ingredient, 0, limit)

	for _, ing := range substring {
		if len(result) >= limit {
			return result
		}
		seen[ing.ID] = struct{}{}
		result = append(result, ing)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), ingredientItems(all))
	for _, match := range matches {
		if len(result) >= limit {
			break
		}
		ing := all[match.Index]
		if _, dup := seen[ing.ID]; dup {
			continue
		}
		seen[ing.ID] = struct{}{}
		result = append(result, ing)
	}
	return result
}
