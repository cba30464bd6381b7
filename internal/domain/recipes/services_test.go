package recipes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/recipes/mock"
)

type mocks struct {
	repo    *mock.MockRepository
	catalog *mock.MockCatalog
	members *mock.MockMembershipReader
	subs    *mock.MockSubscriptionReader
	images  *mock.MockImageStore
}

func newTestService(t *testing.T) (*service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		repo:    mock.NewMockRepository(ctrl),
		catalog: mock.NewMockCatalog(ctrl),
		members: mock.NewMockMembershipReader(ctrl),
		subs:    mock.NewMockSubscriptionReader(ctrl),
		images:  mock.NewMockImageStore(ctrl),
	}
	return NewService(m.repo, m.catalog, m.members, m.subs, m.images), m
}

// expectViewerFlags stubs the per-viewer lookups done while building views.
func (m *mocks) expectViewerFlags(userID int64, favorites, cart, subscribed []int64) {
	m.members.EXPECT().MemberRecipeIDs(gomock.Any(), models.KindFavorites, userID, gomock.Any()).Return(favorites, nil)
	m.members.EXPECT().MemberRecipeIDs(gomock.Any(), models.KindShoppingCart, userID, gomock.Any()).Return(cart, nil)
	m.subs.EXPECT().SubscribedAuthorIDs(gomock.Any(), userID, gomock.Any()).Return(subscribed, nil)
}

func validRecipeInput() RecipeInput {
	return RecipeInput{
		Tags:        []int64{1},
		Ingredients: []IngredientAmount{{ID: 10, Amount: 200}, {ID: 11, Amount: 300}},
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       &Image{Data: []byte{0x89, 'P', 'N', 'G'}, Ext: "png"},
	}
}

var author = access.Principal{UserID: 1}

func Test_service_Create_rejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal access.Principal
		mutate    func(in *RecipeInput)
		wantCode  apperrors.Code
	}{
		{
			name:      "anonymous",
			principal: access.Anonymous,
			mutate:    func(in *RecipeInput) {},
			wantCode:  apperrors.CodeUnauthorized,
		},
		{
			name:     "empty tags",
			mutate:   func(in *RecipeInput) { in.Tags = nil },
			wantCode: apperrors.CodeEmptyTagSet,
		},
		{
			name:     "duplicate tags",
			mutate:   func(in *RecipeInput) { in.Tags = []int64{1, 2, 1} },
			wantCode: apperrors.CodeDuplicateTag,
		},
		{
			name:     "empty ingredients",
			mutate:   func(in *RecipeInput) { in.Ingredients = []IngredientAmount{} },
			wantCode: apperrors.CodeEmptyIngredientSet,
		},
		{
			name:     "duplicate ingredient",
			mutate:   func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: 1, Amount: 2}, {ID: 1, Amount: 3}} },
			wantCode: apperrors.CodeDuplicateIngredient,
		},
		{
			name:     "zero amount",
			mutate:   func(in *RecipeInput) { in.Ingredients[0].Amount = 0 },
			wantCode: apperrors.CodeInvalidAmount,
		},
		{
			name:     "amount over limit",
			mutate:   func(in *RecipeInput) { in.Ingredients[1].Amount = 10001 },
			wantCode: apperrors.CodeInvalidAmount,
		},
		{
			name:     "name too long",
			mutate:   func(in *RecipeInput) { in.Name = "Пирог с капустой, грибами, луком, яйцом и укропом!!" },
			wantCode: apperrors.CodeInvalidField,
		},
		{
			name:     "blank text",
			mutate:   func(in *RecipeInput) { in.Text = "  " },
			wantCode: apperrors.CodeInvalidField,
		},
		{
			name:     "cooking time zero",
			mutate:   func(in *RecipeInput) { in.CookingTime = 0 },
			wantCode: apperrors.CodeInvalidField,
		},
		{
			name:     "missing image",
			mutate:   func(in *RecipeInput) { in.Image = nil },
			wantCode: apperrors.CodeInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no expectations: any store, catalog or image call fails the test
			s, _ := newTestService(t)
			input := validRecipeInput()
			tt.mutate(&input)

			principal := tt.principal
			if tt.name != "anonymous" {
				principal = author
			}

			got, err := s.Create(context.Background(), principal, input)
			assert.Nil(t, got)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func Test_service_Create_missingIngredientPersistsNothing(t *testing.T) {
	s, m := newTestService(t)
	input := validRecipeInput()

	m.catalog.EXPECT().TagsByIDs(gomock.Any(), []int64{1}).Return(mock.Tags[:1], nil)
	m.catalog.EXPECT().IngredientsByIDs(gomock.Any(), []int64{10, 11}).
		Return(nil, apperrors.NotFound("ingredient", int64(11)))

	_, err := s.Create(context.Background(), author, input)
	assert.True(t, apperrors.HasKind(err, apperrors.KindNotFound))
}

func Test_service_Create(t *testing.T) {
	s, m := newTestService(t)
	input := validRecipeInput()

	m.catalog.EXPECT().TagsByIDs(gomock.Any(), []int64{1}).Return(mock.Tags[:1], nil)
	m.catalog.EXPECT().IngredientsByIDs(gomock.Any(), []int64{10, 11}).Return(mock.Ingredients, nil)
	m.images.EXPECT().Put(gomock.Any(), input.Image.Data, "png").Return("recipes/images/pancakes.png", nil)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any(), []int64{1}, gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Recipe, _ []int64, items []*models.IngredientInRecipe) error {
			assert.Equal(t, int64(1), r.AuthorID)
			require.NotNil(t, r.Image)
			assert.Equal(t, "recipes/images/pancakes.png", *r.Image)
			require.Len(t, items, 2)
			assert.Equal(t, 200, items[0].Amount)
			r.ID = 7
			return nil
		})
	m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
	m.expectViewerFlags(1, nil, nil, nil)

	got, err := s.Create(context.Background(), author, input)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "author", got.Author.Username)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, IngredientLine{ID: 10, Name: "flour", MeasurementUnit: "g", Amount: 200}, got.Ingredients[0])
	assert.False(t, got.IsFavorited)
}

func Test_service_Create_rollbackDiscardsImage(t *testing.T) {
	s, m := newTestService(t)
	input := validRecipeInput()

	m.catalog.EXPECT().TagsByIDs(gomock.Any(), gomock.Any()).Return(mock.Tags[:1], nil)
	m.catalog.EXPECT().IngredientsByIDs(gomock.Any(), gomock.Any()).Return(mock.Ingredients, nil)
	m.images.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return("recipes/images/orphan.png", nil)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&repositories.NotFoundError{Entity: "tag", ID: int64(1)})
	m.images.EXPECT().Delete(gomock.Any(), "recipes/images/orphan.png").Return(errors.New("bucket offline"))

	_, err := s.Create(context.Background(), author, input)
	assert.True(t, apperrors.HasKind(err, apperrors.KindNotFound))
}

func Test_service_Update(t *testing.T) {
	tests := []struct {
		name      string
		principal access.Principal
		summary   error
		wantKind  apperrors.Kind
	}{
		{name: "stranger", principal: access.Principal{UserID: 2}, wantKind: apperrors.KindForbidden},
		{name: "anonymous", principal: access.Anonymous, wantKind: apperrors.KindUnauthorized},
		{
			name:      "missing",
			principal: author,
			summary:   &repositories.NotFoundError{Entity: "recipe", ID: int64(7)},
			wantKind:  apperrors.KindNotFound,
		},
		{name: "author"},
		{name: "admin", principal: access.Principal{UserID: 99, IsAdmin: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			principal := tt.principal
			if tt.name == "author" {
				principal = author
			}

			if principal.IsAuthenticated() {
				if tt.summary != nil {
					m.repo.EXPECT().GetSummary(gomock.Any(), int64(7)).Return(nil, tt.summary)
				} else {
					m.repo.EXPECT().GetSummary(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
				}
			}

			input := validRecipeInput()
			input.Image = nil
			input.Name = "Thin pancakes"

			if tt.wantKind == 0 {
				m.catalog.EXPECT().TagsByIDs(gomock.Any(), gomock.Any()).Return(mock.Tags[:1], nil)
				m.catalog.EXPECT().IngredientsByIDs(gomock.Any(), gomock.Any()).Return(mock.Ingredients, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), []int64{1}, gomock.Any()).
					DoAndReturn(func(_ context.Context, r *models.Recipe, _ []int64, _ []*models.IngredientInRecipe) error {
						assert.Equal(t, "Thin pancakes", r.Name)
						require.NotNil(t, r.Image)
						assert.Equal(t, "recipes/images/pancakes.png", *r.Image)
						assert.Equal(t, int64(1), r.AuthorID)
						return nil
					})
				m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
				m.expectViewerFlags(principal.UserID, nil, nil, nil)
			}

			got, err := s.Update(context.Background(), principal, 7, input)
			if tt.wantKind != 0 {
				assert.True(t, apperrors.HasKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), got.ID)
		})
	}
}

func Test_service_Update_replacesImage(t *testing.T) {
	s, m := newTestService(t)
	input := validRecipeInput()

	m.repo.EXPECT().GetSummary(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
	m.catalog.EXPECT().TagsByIDs(gomock.Any(), gomock.Any()).Return(mock.Tags[:1], nil)
	m.catalog.EXPECT().IngredientsByIDs(gomock.Any(), gomock.Any()).Return(mock.Ingredients, nil)
	m.images.EXPECT().Put(gomock.Any(), gomock.Any(), "png").Return("recipes/images/new.png", nil)
	m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.images.EXPECT().Delete(gomock.Any(), "recipes/images/pancakes.png").Return(nil)
	m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
	m.expectViewerFlags(1, nil, nil, nil)

	_, err := s.Update(context.Background(), author, 7, input)
	require.NoError(t, err)
}

func Test_service_Delete(t *testing.T) {
	s, m := newTestService(t)

	m.repo.EXPECT().GetSummary(gomock.Any(), int64(7)).Return(mock.Recipe(), nil).Times(2)
	err := s.Delete(context.Background(), access.Principal{UserID: 5}, 7)
	assert.True(t, apperrors.HasKind(err, apperrors.KindForbidden))

	m.repo.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)
	m.images.EXPECT().Delete(gomock.Any(), "recipes/images/pancakes.png").Return(nil)
	require.NoError(t, s.Delete(context.Background(), author, 7))

	m.repo.EXPECT().GetSummary(gomock.Any(), int64(8)).
		Return(nil, &repositories.NotFoundError{Entity: "recipe", ID: int64(8)})
	err = s.Delete(context.Background(), author, 8)
	assert.True(t, apperrors.HasKind(err, apperrors.KindNotFound))
}

func Test_service_Get_viewerRelativeFlags(t *testing.T) {
	tests := []struct {
		name          string
		viewer        access.Principal
		favorites     []int64
		cart          []int64
		subscribed    []int64
		wantFavorited bool
		wantInCart    bool
		wantFollows   bool
	}{
		{
			name:          "viewer A favorited",
			viewer:        access.Principal{UserID: 2},
			favorites:     []int64{7},
			subscribed:    []int64{1},
			wantFavorited: true,
			wantFollows:   true,
		},
		{
			name:       "viewer B did not",
			viewer:     access.Principal{UserID: 3},
			cart:       []int64{7},
			wantInCart: true,
		},
		{
			name:   "anonymous",
			viewer: access.Anonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			m.repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(mock.Recipe(), nil)
			if tt.viewer.IsAuthenticated() {
				m.expectViewerFlags(tt.viewer.UserID, tt.favorites, tt.cart, tt.subscribed)
			}

			got, err := s.Get(context.Background(), tt.viewer, 7)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFavorited, got.IsFavorited)
			assert.Equal(t, tt.wantInCart, got.IsInShoppingCart)
			assert.Equal(t, tt.wantFollows, got.Author.IsSubscribed)
		})
	}
}

func Test_service_List_filters(t *testing.T) {
	tests := []struct {
		name      string
		viewer    access.Principal
		filter    Filter
		wantQuery repositories.RecipeQuery
	}{
		{
			name:   "tags by id and slug",
			viewer: access.Anonymous,
			filter: Filter{Tags: []string{"1", "lunch", " "}},
			wantQuery: repositories.RecipeQuery{
				TagIDs:   []int64{1},
				TagSlugs: []string{"lunch"},
				Limit:    6,
			},
		},
		{
			name:      "membership flags ignored for anonymous",
			viewer:    access.Anonymous,
			filter:    Filter{IsFavorited: true, IsInShoppingCart: true, Params: pagination.Params{Page: 2, Limit: 10}},
			wantQuery: repositories.RecipeQuery{Offset: 10, Limit: 10},
		},
		{
			name:      "membership flags for viewer",
			viewer:    access.Principal{UserID: 4},
			filter:    Filter{AuthorID: 1, IsFavorited: true, IsInShoppingCart: true},
			wantQuery: repositories.RecipeQuery{AuthorID: 1, FavoritedBy: 4, InCartOf: 4, Limit: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			m.repo.EXPECT().List(gomock.Any(), tt.wantQuery).Return([]*models.Recipe{mock.Recipe()}, 13, nil)
			if tt.viewer.IsAuthenticated() {
				m.expectViewerFlags(tt.viewer.UserID, []int64{7}, []int64{7}, nil)
			}

			page, err := s.List(context.Background(), tt.viewer, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, 13, page.Total)
			require.Len(t, page.Items, 1)
			assert.Equal(t, tt.viewer.IsAuthenticated(), page.Items[0].IsFavorited)
		})
	}
}
