package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/services"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/shoppinglist/mock"
)

var shopper = access.Principal{UserID: 3}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		rows []models.CartIngredientRow
		want []Line
	}{
		{
			name: "empty",
			want: []Line{},
		},
		{
			name: "sums the same ingredient across recipes",
			rows: []models.CartIngredientRow{
				{RecipeID: 1, Name: "flour", MeasurementUnit: "g", Amount: 100},
				{RecipeID: 2, Name: "flour", MeasurementUnit: "g", Amount: 150},
			},
			want: []Line{{Name: "flour", MeasurementUnit: "g", Total: 250}},
		},
		{
			name: "different units stay apart and sort by name then unit",
			rows: []models.CartIngredientRow{
				{RecipeID: 1, Name: "sugar", MeasurementUnit: "g", Amount: 30},
				{RecipeID: 1, Name: "milk", MeasurementUnit: "ml", Amount: 300},
				{RecipeID: 2, Name: "milk", MeasurementUnit: "cup", Amount: 1},
				{RecipeID: 2, Name: "sugar", MeasurementUnit: "g", Amount: 20},
			},
			want: []Line{
				{Name: "milk", MeasurementUnit: "cup", Total: 1},
				{Name: "milk", MeasurementUnit: "ml", Total: 300},
				{Name: "sugar", MeasurementUnit: "g", Total: 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.rows))
		})
	}
}

func TestRender(t *testing.T) {
	lines := []Line{
		{Name: "flour", MeasurementUnit: "g", Total: 250},
		{Name: "milk", MeasurementUnit: "ml", Total: 300},
	}
	assert.Equal(t, "flour\n250 g\n\nmilk\n300 ml\n\n", Render(lines))
	assert.Empty(t, Render(nil))
}

func Test_service_Compute_emptyCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().Count(gomock.Any(), models.KindShoppingCart, int64(3)).Return(0, nil)

	s := NewService(repo, mock.NewMockRenderer(ctrl))
	_, err := s.Compute(context.Background(), shopper)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeEmptyCart))

	_, err = s.Compute(context.Background(), access.Anonymous)
	assert.True(t, apperrors.HasKind(err, apperrors.KindUnauthorized))
}

func Test_service_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	renderer := mock.NewMockRenderer(ctrl)

	repo.EXPECT().Count(gomock.Any(), models.KindShoppingCart, int64(3)).Return(2, nil)
	repo.EXPECT().CartIngredientRows(gomock.Any(), int64(3)).Return([]models.CartIngredientRow{
		{RecipeID: 1, Name: "flour", MeasurementUnit: "g", Amount: 100},
		{RecipeID: 2, Name: "flour", MeasurementUnit: "g", Amount: 150},
	}, nil)
	renderer.EXPECT().Render(gomock.Any(), "Shopping list", "flour\n250 g\n\n").Return([]byte("%PDF-1.4"), nil)

	doc, err := NewService(repo, renderer).Export(context.Background(), shopper)
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Body)
}

func Test_service_Export_plainRendererKeepsPDFHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)

	repo.EXPECT().Count(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().CartIngredientRows(gomock.Any(), gomock.Any()).Return([]models.CartIngredientRow{
		{RecipeID: 1, Name: "flour", MeasurementUnit: "g", Amount: 100},
		{RecipeID: 2, Name: "flour", MeasurementUnit: "g", Amount: 150},
	}, nil)

	doc, err := NewService(repo, services.PlainRenderer{}).Export(context.Background(), shopper)
	require.NoError(t, err)
	assert.Equal(t, "shopping_cart.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("flour\n250 g\n\n"), doc.Body)
}

func Test_service_Export_renderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	renderer := mock.NewMockRenderer(ctrl)

	repo.EXPECT().Count(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().CartIngredientRows(gomock.Any(), gomock.Any()).Return([]models.CartIngredientRow{
		{RecipeID: 1, Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
	}, nil)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("browser crashed"))

	doc, err := NewService(repo, renderer).Export(context.Background(), shopper)
	assert.Nil(t, doc)
	assert.ErrorContains(t, err, "browser crashed")
}
