package recipes

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
)

// validateInput checks everything that does not need the store. Tag and
// ingredient sets are checked before the scalar fields.
func validateInput(in RecipeInput, requireImage bool) error {
	if len(in.Tags) == 0 {
		return apperrors.Validation(apperrors.CodeEmptyTagSet, "at least one tag is required").
			WithDetail("tags", "this list may not be empty")
	}
	seenTags := make(map[int64]struct{}, len(in.Tags))
	for _, id := range in.Tags {
		if _, dup := seenTags[id]; dup {
			return apperrors.Validation(apperrors.CodeDuplicateTag, "tags must be unique").
				WithDetail("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = struct{}{}
	}

	if len(in.Ingredients) == 0 {
		return apperrors.Validation(apperrors.CodeEmptyIngredientSet, "at least one ingredient is required").
			WithDetail("ingredients", "this list may not be empty")
	}
	seenIngredients := make(map[int64]struct{}, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, dup := seenIngredients[item.ID]; dup {
			return apperrors.Validation(apperrors.CodeDuplicateIngredient, "ingredients must be unique").
				WithDetail("ingredients", fmt.Sprintf("ingredient %d is listed more than once", item.ID))
		}
		seenIngredients[item.ID] = struct{}{}

		if item.Amount < config.MinIngredientAmount || item.Amount > config.MaxIngredientAmount {
			return apperrors.Validation(apperrors.CodeInvalidAmount, "ingredient amount out of range").
				WithDetail("amount", fmt.Sprintf("ensure the amount is between %d and %d",
					config.MinIngredientAmount, config.MaxIngredientAmount))
		}
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return apperrors.InvalidField("name", "this field may not be blank")
	case utf8.RuneCountInString(name) > config.MaxRecipeNameLength:
		return apperrors.InvalidField("name", fmt.Sprintf("ensure this field has no more than %d characters", config.MaxRecipeNameLength))
	}

	if strings.TrimSpace(in.Text) == "" {
		return apperrors.InvalidField("text", "this field may not be blank")
	}

	if in.CookingTime < config.MinCookingTime || in.CookingTime > config.MaxCookingTime {
		return apperrors.InvalidField("cooking_time", fmt.Sprintf("ensure the cooking time is between %d and %d",
			config.MinCookingTime, config.MaxCookingTime))
	}

	if in.Image == nil {
		if requireImage {
			return apperrors.InvalidField("image", "this field is required")
		}
		return nil
	}
	if len(in.Image.Data) == 0 {
		return apperrors.InvalidField("image", "the submitted file is empty")
	}
	if len(in.Image.Data) > config.MaxImageSize {
		return apperrors.InvalidField("image", "the submitted file is too large")
	}
	return nil
}
