package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/foodgram/foodgram/foodgram/database/models"
	access "github.com/foodgram/foodgram/internal/domain/access"
	pagination "github.com/foodgram/foodgram/internal/domain/pagination"
	recipes "github.com/foodgram/foodgram/internal/domain/recipes"
	shoppinglist "github.com/foodgram/foodgram/internal/domain/shoppinglist"
	subscriptions "github.com/foodgram/foodgram/internal/domain/subscriptions"
	users "github.com/foodgram/foodgram/internal/domain/users"
	gomock "go.uber.org/mock/gomock"
)

// MockRecipeService is a mock of RecipeService interface.
type MockRecipeService struct {
	ctrl     *gomock.Controller
	recorder *MockRecipeServiceMockRecorder
	isgomock struct{}
}

// MockRecipeServiceMockRecorder is the mock recorder for MockRecipeService.
type MockRecipeServiceMockRecorder struct {
	mock *MockRecipeService
}

// NewMockRecipeService creates a new mock instance.
func NewMockRecipeService(ctrl *gomock.Controller) *MockRecipeService {
	mock := &MockRecipeService{ctrl: ctrl}
	mock.recorder = &MockRecipeServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRecipeService) EXPECT() *MockRecipeServiceMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockRecipeService) Create(ctx context.Context, principal access.Principal, input recipes.RecipeInput) (*recipes.RecipeView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, principal, input)
	ret0, _ := ret[0].(*recipes.RecipeView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockRecipeServiceMockRecorder) Create(ctx, principal, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRecipeService)(nil).Create), ctx, principal, input)
}

// Delete mocks base method.
func (m *MockRecipeService) Delete(ctx context.Context, principal access.Principal, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, principal, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockRecipeServiceMockRecorder) Delete(ctx, principal, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRecipeService)(nil).Delete), ctx, principal, id)
}

// Get mocks base method.
func (m *MockRecipeService) Get(ctx context.Context, principal access.Principal, id int64) (*recipes.RecipeView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, principal, id)
	ret0, _ := ret[0].(*recipes.RecipeView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockRecipeServiceMockRecorder) Get(ctx, principal, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockRecipeService)(nil).Get), ctx, principal, id)
}

// List mocks base method.
func (m *MockRecipeService) List(ctx context.Context, principal access.Principal, filter recipes.Filter) (*pagination.Page[*recipes.RecipeView], error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, principal, filter)
	ret0, _ := ret[0].(*pagination.Page[*recipes.RecipeView])
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockRecipeServiceMockRecorder) List(ctx, principal, filter any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockRecipeService)(nil).List), ctx, principal, filter)
}

// Update mocks base method.
func (m *MockRecipeService) Update(ctx context.Context, principal access.Principal, id int64, input recipes.RecipeInput) (*recipes.RecipeView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, principal, id, input)
	ret0, _ := ret[0].(*recipes.RecipeView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Update indicates an expected call of Update.
func (mr *MockRecipeServiceMockRecorder) Update(ctx, principal, id, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockRecipeService)(nil).Update), ctx, principal, id, input)
}

// MockLedgerService is a mock of LedgerService interface.
type MockLedgerService struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerServiceMockRecorder
	isgomock struct{}
}

// MockLedgerServiceMockRecorder is the mock recorder for MockLedgerService.
type MockLedgerServiceMockRecorder struct {
	mock *MockLedgerService
}

// NewMockLedgerService creates a new mock instance.
func NewMockLedgerService(ctrl *gomock.Controller) *MockLedgerService {
	mock := &MockLedgerService{ctrl: ctrl}
	mock.recorder = &MockLedgerServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedgerService) EXPECT() *MockLedgerServiceMockRecorder {
	return m.recorder
}

// Add mocks base method.
func (m *MockLedgerService) Add(ctx context.Context, principal access.Principal, kind models.MembershipKind, recipeID int64) (*recipes.RecipeSummary, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Add", ctx, principal, kind, recipeID)
	ret0, _ := ret[0].(*recipes.RecipeSummary)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Add indicates an expected call of Add.
func (mr *MockLedgerServiceMockRecorder) Add(ctx, principal, kind, recipeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Add", reflect.TypeOf((*MockLedgerService)(nil).Add), ctx, principal, kind, recipeID)
}

// Remove mocks base method.
func (m *MockLedgerService) Remove(ctx context.Context, principal access.Principal, kind models.MembershipKind, recipeID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", ctx, principal, kind, recipeID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Remove indicates an expected call of Remove.
func (mr *MockLedgerServiceMockRecorder) Remove(ctx, principal, kind, recipeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockLedgerService)(nil).Remove), ctx, principal, kind, recipeID)
}

// MockShoppingListService is a mock of ShoppingListService interface.
type MockShoppingListService struct {
	ctrl     *gomock.Controller
	recorder *MockShoppingListServiceMockRecorder
	isgomock struct{}
}

// MockShoppingListServiceMockRecorder is the mock recorder for MockShoppingListService.
type MockShoppingListServiceMockRecorder struct {
	mock *MockShoppingListService
}

// NewMockShoppingListService creates a new mock instance.
func NewMockShoppingListService(ctrl *gomock.Controller) *MockShoppingListService {
	mock := &MockShoppingListService{ctrl: ctrl}
	mock.recorder = &MockShoppingListServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockShoppingListService) EXPECT() *MockShoppingListServiceMockRecorder {
	return m.recorder
}

// Compute mocks base method.
func (m *MockShoppingListService) Compute(ctx context.Context, principal access.Principal) ([]shoppinglist.Line, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compute", ctx, principal)
	ret0, _ := ret[0].([]shoppinglist.Line)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Compute indicates an expected call of Compute.
func (mr *MockShoppingListServiceMockRecorder) Compute(ctx, principal any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compute", reflect.TypeOf((*MockShoppingListService)(nil).Compute), ctx, principal)
}

// Export mocks base method.
func (m *MockShoppingListService) Export(ctx context.Context, principal access.Principal) (*shoppinglist.Document, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Export", ctx, principal)
	ret0, _ := ret[0].(*shoppinglist.Document)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Export indicates an expected call of Export.
func (mr *MockShoppingListServiceMockRecorder) Export(ctx, principal any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Export", reflect.TypeOf((*MockShoppingListService)(nil).Export), ctx, principal)
}

// MockSubscriptionService is a mock of SubscriptionService interface.
type MockSubscriptionService struct {
	ctrl     *gomock.Controller
	recorder *MockSubscriptionServiceMockRecorder
	isgomock struct{}
}

// MockSubscriptionServiceMockRecorder is the mock recorder for MockSubscriptionService.
type MockSubscriptionServiceMockRecorder struct {
	mock *MockSubscriptionService
}

// NewMockSubscriptionService creates a new mock instance.
func NewMockSubscriptionService(ctrl *gomock.Controller) *MockSubscriptionService {
	mock := &MockSubscriptionService{ctrl: ctrl}
	mock.recorder = &MockSubscriptionServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubscriptionService) EXPECT() *MockSubscriptionServiceMockRecorder {
	return m.recorder
}

// ListSubscriptions mocks base method.
func (m *MockSubscriptionService) ListSubscriptions(ctx context.Context, principal access.Principal, params pagination.Params, recipesLimit int) (*pagination.Page[*subscriptions.AuthorView], error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSubscriptions", ctx, principal, params, recipesLimit)
	ret0, _ := ret[0].(*pagination.Page[*subscriptions.AuthorView])
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListSubscriptions indicates an expected call of ListSubscriptions.
func (mr *MockSubscriptionServiceMockRecorder) ListSubscriptions(ctx, principal, params, recipesLimit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSubscriptions", reflect.TypeOf((*MockSubscriptionService)(nil).ListSubscriptions), ctx, principal, params, recipesLimit)
}

// Subscribe mocks base method.
func (m *MockSubscriptionService) Subscribe(ctx context.Context, principal access.Principal, authorID int64, recipesLimit int) (*subscriptions.AuthorView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Subscribe", ctx, principal, authorID, recipesLimit)
	ret0, _ := ret[0].(*subscriptions.AuthorView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Subscribe indicates an expected call of Subscribe.
func (mr *MockSubscriptionServiceMockRecorder) Subscribe(ctx, principal, authorID, recipesLimit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Subscribe", reflect.TypeOf((*MockSubscriptionService)(nil).Subscribe), ctx, principal, authorID, recipesLimit)
}

// Unsubscribe mocks base method.
func (m *MockSubscriptionService) Unsubscribe(ctx context.Context, principal access.Principal, authorID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unsubscribe", ctx, principal, authorID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Unsubscribe indicates an expected call of Unsubscribe.
func (mr *MockSubscriptionServiceMockRecorder) Unsubscribe(ctx, principal, authorID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unsubscribe", reflect.TypeOf((*MockSubscriptionService)(nil).Unsubscribe), ctx, principal, authorID)
}

// MockUserService is a mock of UserService interface.
type MockUserService struct {
	ctrl     *gomock.Controller
	recorder *MockUserServiceMockRecorder
	isgomock struct{}
}

// MockUserServiceMockRecorder is the mock recorder for MockUserService.
type MockUserServiceMockRecorder struct {
	mock *MockUserService
}

// NewMockUserService creates a new mock instance.
func NewMockUserService(ctrl *gomock.Controller) *MockUserService {
	mock := &MockUserService{ctrl: ctrl}
	mock.recorder = &MockUserServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUserService) EXPECT() *MockUserServiceMockRecorder {
	return m.recorder
}

// Authenticate mocks base method.
func (m *MockUserService) Authenticate(ctx context.Context, email string, password string) (access.Principal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Authenticate", ctx, email, password)
	ret0, _ := ret[0].(access.Principal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Authenticate indicates an expected call of Authenticate.
func (mr *MockUserServiceMockRecorder) Authenticate(ctx, email, password any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Authenticate", reflect.TypeOf((*MockUserService)(nil).Authenticate), ctx, email, password)
}

// Get mocks base method.
func (m *MockUserService) Get(ctx context.Context, viewer access.Principal, id int64) (*users.Profile, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, viewer, id)
	ret0, _ := ret[0].(*users.Profile)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockUserServiceMockRecorder) Get(ctx, viewer, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockUserService)(nil).Get), ctx, viewer, id)
}

// List mocks base method.
func (m *MockUserService) List(ctx context.Context, viewer access.Principal, params pagination.Params) (*pagination.Page[*users.Profile], error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, viewer, params)
	ret0, _ := ret[0].(*pagination.Page[*users.Profile])
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockUserServiceMockRecorder) List(ctx, viewer, params any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockUserService)(nil).List), ctx, viewer, params)
}

// Me mocks base method.
func (m *MockUserService) Me(ctx context.Context, viewer access.Principal) (*users.Profile, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Me", ctx, viewer)
	ret0, _ := ret[0].(*users.Profile)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Me indicates an expected call of Me.
func (mr *MockUserServiceMockRecorder) Me(ctx, viewer any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Me", reflect.TypeOf((*MockUserService)(nil).Me), ctx, viewer)
}

// Register mocks base method.
func (m *MockUserService) Register(ctx context.Context, input users.RegisterInput) (*users.Profile, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Register", ctx, input)
	ret0, _ := ret[0].(*users.Profile)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Register indicates an expected call of Register.
func (mr *MockUserServiceMockRecorder) Register(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Register", reflect.TypeOf((*MockUserService)(nil).Register), ctx, input)
}

// MockCatalogService is a mock of CatalogService interface.
type MockCatalogService struct {
	ctrl     *gomock.Controller
	recorder *MockCatalogServiceMockRecorder
	isgomock struct{}
}

// MockCatalogServiceMockRecorder is the mock recorder for MockCatalogService.
type MockCatalogServiceMockRecorder struct {
	mock *MockCatalogService
}

// NewMockCatalogService creates a new mock instance.
func NewMockCatalogService(ctrl *gomock.Controller) *MockCatalogService {
	mock := &MockCatalogService{ctrl: ctrl}
	mock.recorder = &MockCatalogServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCatalogService) EXPECT() *MockCatalogServiceMockRecorder {
	return m.recorder
}

// GetIngredient mocks base method.
func (m *MockCatalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetIngredient", ctx, id)
	ret0, _ := ret[0].(*models.Ingredient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetIngredient indicates an expected call of GetIngredient.
func (mr *MockCatalogServiceMockRecorder) GetIngredient(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetIngredient", reflect.TypeOf((*MockCatalogService)(nil).GetIngredient), ctx, id)
}

// GetTag mocks base method.
func (m *MockCatalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTag", ctx, id)
	ret0, _ := ret[0].(*models.Tag)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetTag indicates an expected call of GetTag.
func (mr *MockCatalogServiceMockRecorder) GetTag(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTag", reflect.TypeOf((*MockCatalogService)(nil).GetTag), ctx, id)
}

// IngredientsByIDs mocks base method.
func (m *MockCatalogService) IngredientsByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IngredientsByIDs", ctx, ids)
	ret0, _ := ret[0].([]*models.Ingredient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IngredientsByIDs indicates an expected call of IngredientsByIDs.
func (mr *MockCatalogServiceMockRecorder) IngredientsByIDs(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IngredientsByIDs", reflect.TypeOf((*MockCatalogService)(nil).IngredientsByIDs), ctx, ids)
}

// ListIngredients mocks base method.
func (m *MockCatalogService) ListIngredients(ctx context.Context, name string) ([]*models.Ingredient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListIngredients", ctx, name)
	ret0, _ := ret[0].([]*models.Ingredient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListIngredients indicates an expected call of ListIngredients.
func (mr *MockCatalogServiceMockRecorder) ListIngredients(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListIngredients", reflect.TypeOf((*MockCatalogService)(nil).ListIngredients), ctx, name)
}

// ListTags mocks base method.
func (m *MockCatalogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListTags", ctx)
	ret0, _ := ret[0].([]*models.Tag)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListTags indicates an expected call of ListTags.
func (mr *MockCatalogServiceMockRecorder) ListTags(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListTags", reflect.TypeOf((*MockCatalogService)(nil).ListTags), ctx)
}

// TagsByIDs mocks base method.
func (m *MockCatalogService) TagsByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TagsByIDs", ctx, ids)
	ret0, _ := ret[0].([]*models.Tag)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TagsByIDs indicates an expected call of TagsByIDs.
func (mr *MockCatalogServiceMockRecorder) TagsByIDs(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TagsByIDs", reflect.TypeOf((*MockCatalogService)(nil).TagsByIDs), ctx, ids)
}

// MockPinger is a mock of Pinger interface.
type MockPinger struct {
	ctrl     *gomock.Controller
	recorder *MockPingerMockRecorder
	isgomock struct{}
}

// MockPingerMockRecorder is the mock recorder for MockPinger.
type MockPingerMockRecorder struct {
	mock *MockPinger
}

// NewMockPinger creates a new mock instance.
func NewMockPinger(ctrl *gomock.Controller) *MockPinger {
	mock := &MockPinger{ctrl: ctrl}
	mock.recorder = &MockPingerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPinger) EXPECT() *MockPingerMockRecorder {
	return m.recorder
}

// Ping mocks base method.
func (m *MockPinger) Ping(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Ping", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Ping indicates an expected call of Ping.
func (mr *MockPingerMockRecorder) Ping(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Ping", reflect.TypeOf((*MockPinger)(nil).Ping), ctx)
}

// MockTokenIssuer is a mock of TokenIssuer interface.
type MockTokenIssuer struct {
	ctrl     *gomock.Controller
	recorder *MockTokenIssuerMockRecorder
	isgomock struct{}
}

// MockTokenIssuerMockRecorder is the mock recorder for MockTokenIssuer.
type MockTokenIssuerMockRecorder struct {
	mock *MockTokenIssuer
}

// NewMockTokenIssuer creates a new mock instance.
func NewMockTokenIssuer(ctrl *gomock.Controller) *MockTokenIssuer {
	mock := &MockTokenIssuer{ctrl: ctrl}
	mock.recorder = &MockTokenIssuerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTokenIssuer) EXPECT() *MockTokenIssuerMockRecorder {
	return m.recorder
}

// Issue mocks base method.
func (m *MockTokenIssuer) Issue(principal access.Principal) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Issue", principal)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Issue indicates an expected call of Issue.
func (mr *MockTokenIssuerMockRecorder) Issue(principal any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Issue", reflect.TypeOf((*MockTokenIssuer)(nil).Issue), principal)
}
