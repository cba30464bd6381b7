package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/foodgram/foodgram/foodgram/database/models"
	repositories "github.com/foodgram/foodgram/foodgram/database/repositories"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, recipe, tagIDs, ingredients)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx, recipe, tagIDs, ingredients any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, recipe, tagIDs, ingredients)
}

// Delete mocks base method.
func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockRepositoryMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRepository)(nil).Delete), ctx, id)
}

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.Recipe)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, id)
}

// GetSummary mocks base method.
func (m *MockRepository) GetSummary(ctx context.Context, id int64) (*models.Recipe, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSummary", ctx, id)
	ret0, _ := ret[0].(*models.Recipe)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetSummary indicates an expected call of GetSummary.
func (mr *MockRepositoryMockRecorder) GetSummary(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSummary", reflect.TypeOf((*MockRepository)(nil).GetSummary), ctx, id)
}

// List mocks base method.
func (m *MockRepository) List(ctx context.Context, query repositories.RecipeQuery) ([]*models.Recipe, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, query)
	ret0, _ := ret[0].([]*models.Recipe)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// List indicates an expected call of List.
func (mr *MockRepositoryMockRecorder) List(ctx, query any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockRepository)(nil).List), ctx, query)
}

// Update mocks base method.
func (m *MockRepository) Update(ctx context.Context, recipe *models.Recipe, tagIDs []int64, ingredients []*models.IngredientInRecipe) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, recipe, tagIDs, ingredients)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockRepositoryMockRecorder) Update(ctx, recipe, tagIDs, ingredients any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockRepository)(nil).Update), ctx, recipe, tagIDs, ingredients)
}

// MockCatalog is a mock of Catalog interface.
type MockCatalog struct {
	ctrl     *gomock.Controller
	recorder *MockCatalogMockRecorder
	isgomock struct{}
}

// MockCatalogMockRecorder is the mock recorder for MockCatalog.
type MockCatalogMockRecorder struct {
	mock *MockCatalog
}

// NewMockCatalog creates a new mock instance.
func NewMockCatalog(ctrl *gomock.Controller) *MockCatalog {
	mock := &MockCatalog{ctrl: ctrl}
	mock.recorder = &MockCatalogMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCatalog) EXPECT() *MockCatalogMockRecorder {
	return m.recorder
}

// IngredientsByIDs mocks base method.
func (m *MockCatalog) IngredientsByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IngredientsByIDs", ctx, ids)
	ret0, _ := ret[0].([]*models.Ingredient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IngredientsByIDs indicates an expected call of IngredientsByIDs.
func (mr *MockCatalogMockRecorder) IngredientsByIDs(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IngredientsByIDs", reflect.TypeOf((*MockCatalog)(nil).IngredientsByIDs), ctx, ids)
}

// TagsByIDs mocks base method.
func (m *MockCatalog) TagsByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TagsByIDs", ctx, ids)
	ret0, _ := ret[0].([]*models.Tag)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TagsByIDs indicates an expected call of TagsByIDs.
func (mr *MockCatalogMockRecorder) TagsByIDs(ctx, ids any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TagsByIDs", reflect.TypeOf((*MockCatalog)(nil).TagsByIDs), ctx, ids)
}

// MockMembershipReader is a mock of MembershipReader interface.
type MockMembershipReader struct {
	ctrl     *gomock.Controller
	recorder *MockMembershipReaderMockRecorder
	isgomock struct{}
}

// MockMembershipReaderMockRecorder is the mock recorder for MockMembershipReader.
type MockMembershipReaderMockRecorder struct {
	mock *MockMembershipReader
}

// NewMockMembershipReader creates a new mock instance.
func NewMockMembershipReader(ctrl *gomock.Controller) *MockMembershipReader {
	mock := &MockMembershipReader{ctrl: ctrl}
	mock.recorder = &MockMembershipReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMembershipReader) EXPECT() *MockMembershipReaderMockRecorder {
	return m.recorder
}

// MemberRecipeIDs mocks base method.
func (m *MockMembershipReader) MemberRecipeIDs(ctx context.Context, kind models.MembershipKind, userID int64, recipeIDs []int64) ([]int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MemberRecipeIDs", ctx, kind, userID, recipeIDs)
	ret0, _ := ret[0].([]int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MemberRecipeIDs indicates an expected call of MemberRecipeIDs.
func (mr *MockMembershipReaderMockRecorder) MemberRecipeIDs(ctx, kind, userID, recipeIDs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MemberRecipeIDs", reflect.TypeOf((*MockMembershipReader)(nil).MemberRecipeIDs), ctx, kind, userID, recipeIDs)
}

// MockSubscriptionReader is a mock of SubscriptionReader interface.
type MockSubscriptionReader struct {
	ctrl     *gomock.Controller
	recorder *MockSubscriptionReaderMockRecorder
	isgomock struct{}
}

// MockSubscriptionReaderMockRecorder is the mock recorder for MockSubscriptionReader.
type MockSubscriptionReaderMockRecorder struct {
	mock *MockSubscriptionReader
}

// NewMockSubscriptionReader creates a new mock instance.
func NewMockSubscriptionReader(ctrl *gomock.Controller) *MockSubscriptionReader {
	mock := &MockSubscriptionReader{ctrl: ctrl}
	mock.recorder = &MockSubscriptionReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubscriptionReader) EXPECT() *MockSubscriptionReaderMockRecorder {
	return m.recorder
}

// SubscribedAuthorIDs mocks base method.
func (m *MockSubscriptionReader) SubscribedAuthorIDs(ctx context.Context, userID int64, authorIDs []int64) ([]int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SubscribedAuthorIDs", ctx, userID, authorIDs)
	ret0, _ := ret[0].([]int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SubscribedAuthorIDs indicates an expected call of SubscribedAuthorIDs.
func (mr *MockSubscriptionReaderMockRecorder) SubscribedAuthorIDs(ctx, userID, authorIDs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SubscribedAuthorIDs", reflect.TypeOf((*MockSubscriptionReader)(nil).SubscribedAuthorIDs), ctx, userID, authorIDs)
}

// MockImageStore is a mock of ImageStore interface.
type MockImageStore struct {
	ctrl     *gomock.Controller
	recorder *MockImageStoreMockRecorder
	isgomock struct{}
}

// MockImageStoreMockRecorder is the mock recorder for MockImageStore.
type MockImageStoreMockRecorder struct {
	mock *MockImageStore
}

// NewMockImageStore creates a new mock instance.
func NewMockImageStore(ctrl *gomock.Controller) *MockImageStore {
	mock := &MockImageStore{ctrl: ctrl}
	mock.recorder = &MockImageStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockImageStore) EXPECT() *MockImageStoreMockRecorder {
	return m.recorder
}

// Delete mocks base method.
func (m *MockImageStore) Delete(ctx context.Context, ref string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, ref)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockImageStoreMockRecorder) Delete(ctx, ref any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockImageStore)(nil).Delete), ctx, ref)
}

// Put mocks base method.
func (m *MockImageStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Put", ctx, data, ext)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Put indicates an expected call of Put.
func (mr *MockImageStoreMockRecorder) Put(ctx, data, ext any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Put", reflect.TypeOf((*MockImageStore)(nil).Put), ctx, data, ext)
}
