package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("create recipe: %w", Validation(CodeDuplicateTag, "tags must be unique"))

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, CodeDuplicateTag, e.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestHasCodeAndKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		kind Kind
	}{
		{"not found", NotFound("recipe", 3), CodeNotFound, KindNotFound},
		{"forbidden", Forbidden("only the author may edit"), CodeForbidden, KindForbidden},
		{"conflict", Conflict(CodeAlreadyMember, "already in favorites"), CodeAlreadyMember, KindConflict},
		{"unauthorized", Unauthorized(), CodeUnauthorized, KindUnauthorized},
		{"field", InvalidField("cooking_time", "must be at least 1"), CodeInvalidField, KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", tt.err)
			assert.True(t, HasCode(err, tt.code))
			assert.True(t, HasKind(err, tt.kind))
		})
	}
}

func TestErrorsIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("add: %w", Conflict(CodeAlreadyMember, "recipe already in shopping cart"))
	assert.True(t, errors.Is(err, Conflict(CodeAlreadyMember, "")))
	assert.False(t, errors.Is(err, Conflict(CodeAlreadySubscribed, "")))
}

func TestInvalidFieldDetails(t *testing.T) {
	err := InvalidField("name", "ensure this field has no more than 50 characters")
	assert.Equal(t, map[string]string{"name": "ensure this field has no more than 50 characters"}, err.Details)
	assert.Equal(t, "validation", err.Kind.String())
}
