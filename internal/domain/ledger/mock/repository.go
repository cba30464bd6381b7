package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/foodgram/foodgram/foodgram/database/models"
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

// Add mocks base method.
func (m *MockRepository) Add(ctx context.Context, kind models.MembershipKind, userID int64, recipeID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Add", ctx, kind, userID, recipeID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Add indicates an expected call of Add.
func (mr *MockRepositoryMockRecorder) Add(ctx, kind, userID, recipeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Add", reflect.TypeOf((*MockRepository)(nil).Add), ctx, kind, userID, recipeID)
}

// Remove mocks base method.
func (m *MockRepository) Remove(ctx context.Context, kind models.MembershipKind, userID int64, recipeID int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", ctx, kind, userID, recipeID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Remove indicates an expected call of Remove.
func (mr *MockRepositoryMockRecorder) Remove(ctx, kind, userID, recipeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockRepository)(nil).Remove), ctx, kind, userID, recipeID)
}

// MockRecipeReader is a mock of RecipeReader interface.
type MockRecipeReader struct {
	ctrl     *gomock.Controller
	recorder *MockRecipeReaderMockRecorder
	isgomock struct{}
}

// MockRecipeReaderMockRecorder is the mock recorder for MockRecipeReader.
type MockRecipeReaderMockRecorder struct {
	mock *MockRecipeReader
}

// NewMockRecipeReader creates a new mock instance.
func NewMockRecipeReader(ctrl *gomock.Controller) *MockRecipeReader {
	mock := &MockRecipeReader{ctrl: ctrl}
	mock.recorder = &MockRecipeReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRecipeReader) EXPECT() *MockRecipeReaderMockRecorder {
	return m.recorder
}

// GetSummary mocks base method.
func (m *MockRecipeReader) GetSummary(ctx context.Context, id int64) (*models.Recipe, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSummary", ctx, id)
	ret0, _ := ret[0].(*models.Recipe)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetSummary indicates an expected call of GetSummary.
func (mr *MockRecipeReaderMockRecorder) GetSummary(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSummary", reflect.TypeOf((*MockRecipeReader)(nil).GetSummary), ctx, id)
}
