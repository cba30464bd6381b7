package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/foodgram/foodgram/backend/handlers"
	"github.com/foodgram/foodgram/backend/handlers/mock"
	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/services"
	appconfig "github.com/foodgram/foodgram/foodgram/config"
	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/ledger"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/recipes"
	"github.com/foodgram/foodgram/internal/domain/shoppinglist"
	"github.com/foodgram/foodgram/internal/domain/subscriptions"
	"github.com/foodgram/foodgram/internal/domain/users"
)

type testServer struct {
	app    *fiber.App
	tokens *services.TokenService

	recipes       *mock.MockRecipeService
	ledger        *mock.MockLedgerService
	shoppingList  *mock.MockShoppingListService
	subscriptions *mock.MockSubscriptionService
	users         *mock.MockUserService
	catalog       *mock.MockCatalogService
	db            *mock.MockPinger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	tokens, err := services.NewTokenService("test-secret", "foodgram", time.Hour)
	require.NoError(t, err)

	s := &testServer{
		tokens:        tokens,
		recipes:       mock.NewMockRecipeService(ctrl),
		ledger:        mock.NewMockLedgerService(ctrl),
		shoppingList:  mock.NewMockShoppingListService(ctrl),
		subscriptions: mock.NewMockSubscriptionService(ctrl),
		users:         mock.NewMockUserService(ctrl),
		catalog:       mock.NewMockCatalogService(ctrl),
		db:            mock.NewMockPinger(ctrl),
	}

	webApp := &handlers.WebApp{
		DB:            s.db,
		Recipes:       s.recipes,
		Ledger:        s.ledger,
		ShoppingList:  s.shoppingList,
		Subscriptions: s.subscriptions,
		Users:         s.users,
		Catalog:       s.catalog,
		Tokens:        tokens,
		ImageURL:      func(ref string) string { return "https://cdn.test/" + ref },
		Version:       "test",
	}
	s.app = NewApp(webApp, ServerOptions{Tokens: tokens})
	return s
}

func (s *testServer) token(t *testing.T, p access.Principal) string {
	t.Helper()
	token, err := s.tokens.Issue(p)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, target, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

var (
	author = access.Principal{UserID: 1}
	reader = access.Principal{UserID: 2}
)

func pancakesView() *recipes.RecipeView {
	return &recipes.RecipeView{
		ID:     7,
		Tags:   []*models.Tag{{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}},
		Author: &users.Profile{ID: 1, Username: "author"},
		Ingredients: []recipes.IngredientLine{
			{ID: 10, Name: "flour", MeasurementUnit: "g", Amount: 200},
		},
		IsFavorited: true,
		Name:        "Pancakes",
		Image:       "recipes/images/pancakes.png",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantHealth string
	}{
		{name: "healthy", wantStatus: fiber.StatusOK, wantHealth: "healthy"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: fiber.StatusServiceUnavailable, wantHealth: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.db.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			resp := s.do(t, http.MethodGet, "/api/health", "", "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decode[map[string]any](t, resp)
			assert.Equal(t, tt.wantHealth, body["status"])
		})
	}
}

func TestAuth(t *testing.T) {
	t.Run("anonymous mutation is rejected", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodPost, "/api/recipes", "", `{"name":"x"}`)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token is rejected even on reads", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodGet, "/api/tags", "garbage", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bearer scheme is accepted", func(t *testing.T) {
		s := newTestServer(t)
		s.users.EXPECT().Me(gomock.Any(), reader).Return(&users.Profile{ID: 2, Username: "reader"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+s.token(t, reader))
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		s := newTestServer(t)
		s.users.EXPECT().Authenticate(gomock.Any(), "ann@example.com", "hunter22").Return(author, nil)

		resp := s.do(t, http.MethodPost, "/api/auth/token/login", "", `{"email":"ann@example.com","password":"hunter22"}`)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decode[webmodels.TokenResponse](t, resp)
		principal, err := s.tokens.Verify(body.AuthToken)
		require.NoError(t, err)
		assert.Equal(t, author, principal)
	})

	t.Run("bad credentials", func(t *testing.T) {
		s := newTestServer(t)
		s.users.EXPECT().Authenticate(gomock.Any(), "ann@example.com", "nope").
			Return(access.Anonymous, apperrors.InvalidField("credentials", "unable to log in with provided credentials"))

		resp := s.do(t, http.MethodPost, "/api/auth/token/login", "", `{"email":"ann@example.com","password":"nope"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed email never reaches the service", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodPost, "/api/auth/token/login", "", `{"email":"ann","password":"x"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body := decode[webmodels.APIResponse](t, resp)
		require.NotNil(t, body.Error)
		assert.Contains(t, body.Error.Details, "email")
	})

	t.Run("logout", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodPost, "/api/auth/token/logout", s.token(t, author), "")
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})
}

func TestRecipesCreate(t *testing.T) {
	const payload = `{
		"ingredients": [{"id": 10, "amount": 200}],
		"tags": [1],
		"image": "data:image/png;base64,aGVsbG8=",
		"name": "Pancakes",
		"text": "Mix and fry.",
		"cooking_time": 20
	}`

	t.Run("created", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Create(gomock.Any(), author, recipes.RecipeInput{
			Tags:        []int64{1},
			Ingredients: []recipes.IngredientAmount{{ID: 10, Amount: 200}},
			Name:        "Pancakes",
			Text:        "Mix and fry.",
			CookingTime: 20,
			Image:       &recipes.Image{Data: []byte("hello"), Ext: "png"},
		}).Return(pancakesView(), nil)

		resp := s.do(t, http.MethodPost, "/api/recipes", s.token(t, author), payload)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decode[webmodels.RecipeResponse](t, resp)
		assert.Equal(t, int64(7), body.ID)
		assert.Equal(t, "https://cdn.test/recipes/images/pancakes.png", body.Image)
		assert.True(t, body.IsFavorited)
		require.Len(t, body.Ingredients, 1)
		assert.Equal(t, "flour", body.Ingredients[0].Name)
		require.NotNil(t, body.Author)
		assert.Equal(t, "author", body.Author.Username)
	})

	t.Run("broken image", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodPost, "/api/recipes", s.token(t, author),
			`{"tags":[1],"ingredients":[{"id":10,"amount":1}],"image":"hello","name":"x","text":"y","cooking_time":1}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body := decode[webmodels.APIResponse](t, resp)
		require.NotNil(t, body.Error)
		assert.Contains(t, body.Error.Details, "image")
	})

	t.Run("domain validation", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Create(gomock.Any(), author, gomock.Any()).
			Return(nil, apperrors.Validation(apperrors.CodeDuplicateIngredient, "ingredients must be unique"))

		resp := s.do(t, http.MethodPost, "/api/recipes", s.token(t, author), payload)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body := decode[webmodels.APIResponse](t, resp)
		require.NotNil(t, body.Error)
		assert.Equal(t, string(apperrors.CodeDuplicateIngredient), body.Error.Code)
	})
}

func TestRecipesUpdateAndDelete(t *testing.T) {
	t.Run("patch without image keeps it", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Update(gomock.Any(), author, int64(7), gomock.Any()).
			DoAndReturn(func(_ any, _ access.Principal, _ int64, in recipes.RecipeInput) (*recipes.RecipeView, error) {
				assert.Nil(t, in.Image)
				return pancakesView(), nil
			})

		resp := s.do(t, http.MethodPatch, "/api/recipes/7", s.token(t, author),
			`{"tags":[1],"ingredients":[{"id":10,"amount":200}],"name":"Pancakes","text":"Mix and fry.","cooking_time":20}`)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Update(gomock.Any(), reader, int64(7), gomock.Any()).
			Return(nil, apperrors.Forbidden("only the author can change this recipe"))

		resp := s.do(t, http.MethodPut, "/api/recipes/7", s.token(t, reader),
			`{"tags":[1],"ingredients":[{"id":10,"amount":200}],"name":"x","text":"y","cooking_time":20}`)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Delete(gomock.Any(), author, int64(7)).Return(nil)

		resp := s.do(t, http.MethodDelete, "/api/recipes/7", s.token(t, author), "")
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("missing", func(t *testing.T) {
		s := newTestServer(t)
		s.recipes.EXPECT().Delete(gomock.Any(), author, int64(99)).Return(apperrors.NotFound("recipe", int64(99)))

		resp := s.do(t, http.MethodDelete, "/api/recipes/99", s.token(t, author), "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestRecipesList(t *testing.T) {
	s := newTestServer(t)
	s.recipes.EXPECT().List(gomock.Any(), reader, recipes.Filter{
		Tags:        []string{"breakfast", "lunch"},
		AuthorID:    1,
		IsFavorited: true,
		Params:      pagination.Params{Page: 1, Limit: 1},
	}).Return(pagination.NewPage([]*recipes.RecipeView{pancakesView()}, 3, pagination.Params{Page: 1, Limit: 1}), nil)

	resp := s.do(t, http.MethodGet, "/api/recipes?tags=breakfast&tags=lunch&author=1&is_favorited=1&limit=1", s.token(t, reader), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[webmodels.PageResponse[webmodels.RecipeResponse]](t, resp)
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Results, 1)
	require.NotNil(t, body.Next)
	assert.Contains(t, *body.Next, "page=2")
	assert.Contains(t, *body.Next, "tags=lunch")
	assert.Nil(t, body.Previous)
}

func TestMemberships(t *testing.T) {
	summary := &recipes.RecipeSummary{ID: 7, Name: "Pancakes", Image: "recipes/images/pancakes.png", CookingTime: 20}

	tests := []struct {
		name       string
		method     string
		path       string
		kind       ledger.Kind
		err        error
		wantStatus int
	}{
		{name: "favorite", method: http.MethodPost, path: "/api/recipes/7/favorite", kind: ledger.Favorites, wantStatus: fiber.StatusCreated},
		{name: "favorite twice", method: http.MethodPost, path: "/api/recipes/7/favorite", kind: ledger.Favorites,
			err: apperrors.Conflict(apperrors.CodeAlreadyMember, "already there"), wantStatus: fiber.StatusBadRequest},
		{name: "add to cart", method: http.MethodPost, path: "/api/recipes/7/shopping_cart", kind: ledger.ShoppingCart, wantStatus: fiber.StatusCreated},
		{name: "unfavorite", method: http.MethodDelete, path: "/api/recipes/7/favorite", kind: ledger.Favorites, wantStatus: fiber.StatusNoContent},
		{name: "remove from cart when absent", method: http.MethodDelete, path: "/api/recipes/7/shopping_cart", kind: ledger.ShoppingCart,
			err: apperrors.Validation(apperrors.CodeNotMember, "not in cart"), wantStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.method == http.MethodPost {
				var result *recipes.RecipeSummary
				if tt.err == nil {
					result = summary
				}
				s.ledger.EXPECT().Add(gomock.Any(), reader, tt.kind, int64(7)).Return(result, tt.err)
			} else {
				s.ledger.EXPECT().Remove(gomock.Any(), reader, tt.kind, int64(7)).Return(tt.err)
			}

			resp := s.do(t, tt.method, tt.path, s.token(t, reader), "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusCreated {
				body := decode[webmodels.RecipeShortResponse](t, resp)
				assert.Equal(t, "https://cdn.test/recipes/images/pancakes.png", body.Image)
			}
		})
	}
}

func TestDownloadShoppingCart(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		s := newTestServer(t)
		s.shoppingList.EXPECT().Export(gomock.Any(), reader).Return(&shoppinglist.Document{
			Filename:    "shopping_cart.pdf",
			ContentType: "application/pdf",
			Body:        []byte("%PDF-1.4"),
		}, nil)

		resp := s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", s.token(t, reader), "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="shopping_cart.pdf"`, resp.Header.Get("Content-Disposition"))

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(data))
	})

	t.Run("empty cart", func(t *testing.T) {
		s := newTestServer(t)
		s.shoppingList.EXPECT().Export(gomock.Any(), reader).
			Return(nil, apperrors.Validation(apperrors.CodeEmptyCart, "the shopping cart is empty"))

		resp := s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", s.token(t, reader), "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)
	s.catalog.EXPECT().ListIngredients(gomock.Any(), "fl").Return([]*models.Ingredient{
		{ID: 10, Name: "flour", MeasurementUnit: "g"},
	}, nil)
	s.catalog.EXPECT().GetTag(gomock.Any(), int64(5)).Return(nil, apperrors.NotFound("tag", int64(5)))

	resp := s.do(t, http.MethodGet, "/api/ingredients?name=fl", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[[]webmodels.IngredientResponse](t, resp)
	assert.Equal(t, []webmodels.IngredientResponse{{ID: 10, Name: "flour", MeasurementUnit: "g"}}, body)

	resp = s.do(t, http.MethodGet, "/api/tags/5", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUsersRoutes(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		s := newTestServer(t)
		s.users.EXPECT().Register(gomock.Any(), users.RegisterInput{
			Email: "ann@example.com", Username: "ann", FirstName: "Ann", LastName: "Lee", Password: "longpassword",
		}).Return(&users.Profile{ID: 3, Email: "ann@example.com", Username: "ann", FirstName: "Ann", LastName: "Lee"}, nil)

		resp := s.do(t, http.MethodPost, "/api/users", "",
			`{"email":"ann@example.com","username":"ann","first_name":"Ann","last_name":"Lee","password":"longpassword"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decode[webmodels.UserResponse](t, resp)
		assert.Equal(t, int64(3), body.ID)
		assert.False(t, body.IsSubscribed)
	})

	invalid := []struct {
		name, body, field string
	}{
		{
			name:  "short password",
			body:  `{"email":"ann@example.com","username":"ann","first_name":"Ann","last_name":"Lee","password":"short"}`,
			field: "password",
		},
		{
			name:  "malformed email",
			body:  `{"email":"ann@","username":"ann","first_name":"Ann","last_name":"Lee","password":"longpassword"}`,
			field: "email",
		},
		{
			name:  "blank first name",
			body:  `{"email":"ann@example.com","username":"ann","first_name":"  ","last_name":"Lee","password":"longpassword"}`,
			field: "first_name",
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			resp := s.do(t, http.MethodPost, "/api/users", "", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			body := decode[webmodels.APIResponse](t, resp)
			require.NotNil(t, body.Error)
			assert.Contains(t, body.Error.Details, tt.field)
		})
	}

	t.Run("me requires auth", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodGet, "/api/users/me", "", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("profile is viewer relative", func(t *testing.T) {
		s := newTestServer(t)
		s.users.EXPECT().Get(gomock.Any(), reader, int64(1)).
			Return(&users.Profile{ID: 1, Username: "author", IsSubscribed: true}, nil)

		resp := s.do(t, http.MethodGet, "/api/users/1", s.token(t, reader), "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, decode[webmodels.UserResponse](t, resp).IsSubscribed)
	})
}

func TestSubscriptionRoutes(t *testing.T) {
	view := &subscriptions.AuthorView{
		Profile:      &users.Profile{ID: 1, Username: "author", IsSubscribed: true},
		Recipes:      []*recipes.RecipeSummary{{ID: 7, Name: "Pancakes", Image: "recipes/images/pancakes.png", CookingTime: 20}},
		RecipesCount: 4,
	}

	t.Run("subscribe", func(t *testing.T) {
		s := newTestServer(t)
		s.subscriptions.EXPECT().Subscribe(gomock.Any(), reader, int64(1), 1).Return(view, nil)

		resp := s.do(t, http.MethodPost, "/api/users/1/subscribe?recipes_limit=1", s.token(t, reader), "")
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decode[webmodels.AuthorWithRecipesResponse](t, resp)
		assert.True(t, body.IsSubscribed)
		assert.Equal(t, 4, body.RecipesCount)
		assert.Len(t, body.Recipes, 1)
	})

	t.Run("negative recipes limit", func(t *testing.T) {
		s := newTestServer(t)
		resp := s.do(t, http.MethodPost, "/api/users/1/subscribe?recipes_limit=-1", s.token(t, reader), "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("self subscription", func(t *testing.T) {
		s := newTestServer(t)
		s.subscriptions.EXPECT().Subscribe(gomock.Any(), author, int64(1), 0).
			Return(nil, apperrors.Validation(apperrors.CodeSelfSubscription, "cannot subscribe to yourself"))

		resp := s.do(t, http.MethodPost, "/api/users/1/subscribe", s.token(t, author), "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		s := newTestServer(t)
		s.subscriptions.EXPECT().Unsubscribe(gomock.Any(), reader, int64(1)).Return(nil)

		resp := s.do(t, http.MethodDelete, "/api/users/1/subscribe", s.token(t, reader), "")
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("list routes before user detail", func(t *testing.T) {
		s := newTestServer(t)
		s.subscriptions.EXPECT().ListSubscriptions(gomock.Any(), reader, pagination.Params{Page: 1, Limit: 6}, 2).
			Return(pagination.NewPage([]*subscriptions.AuthorView{view}, 1, pagination.Params{Page: 1, Limit: 6}), nil)

		resp := s.do(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=2", s.token(t, reader), "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decode[webmodels.PageResponse[webmodels.AuthorWithRecipesResponse]](t, resp)
		assert.Equal(t, 1, body.Count)
		assert.Nil(t, body.Next)
	})
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.users.EXPECT().Authenticate(gomock.Any(), "ann@example.com", "nope").
		Return(access.Anonymous, apperrors.InvalidField("credentials", "unable to log in with provided credentials")).
		Times(appconfig.AuthRateLimit)

	login := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token/login",
			strings.NewReader(`{"email":"ann@example.com","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	for i := 0; i < appconfig.AuthRateLimit; i++ {
		assert.Equal(t, fiber.StatusBadRequest, login(fmt.Sprintf("203.0.113.%d", i)))
	}
	// a fresh forwarded address does not reset the window
	assert.Equal(t, fiber.StatusTooManyRequests, login("198.51.100.1"))

	// registration shares the same budget
	resp := s.do(t, http.MethodPost, "/api/users", "",
		`{"email":"bob@example.com","username":"bob","first_name":"Bob","last_name":"B","password":"secret123"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	body := decode[webmodels.APIResponse](t, resp)
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.Code)
}
