package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/pagination"
	"github.com/foodgram/foodgram/internal/domain/users/mock"
)

func newTestService(t *testing.T) (*service, *mock.MockRepository, *mock.MockSubscriptionReader) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	subs := mock.NewMockSubscriptionReader(ctrl)
	return NewService(repo, subs), repo, subs
}

var validInput = RegisterInput{
	Email:     "cook@example.com",
	Username:  "cook",
	FirstName: "Julia",
	LastName:  "Child",
	Password:  "s3cret-pass",
}

func Test_service_Register(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *RegisterInput)
		createErr error
		wantField string
	}{
		{name: "Success"},
		{name: "bad username", mutate: func(in *RegisterInput) { in.Username = "bad name" }, wantField: "username"},
		{name: "reserved username", mutate: func(in *RegisterInput) { in.Username = "Me" }, wantField: "username"},
		{
			name:      "duplicate email",
			createErr: &repositories.ConflictError{Entity: "user", Constraint: "users_email_key"},
			wantField: "email",
		},
		{
			name:      "duplicate username",
			createErr: &repositories.ConflictError{Entity: "user", Constraint: "users_username_key"},
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newTestService(t)
			input := validInput
			if tt.mutate != nil {
				tt.mutate(&input)
			} else {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *models.User) error {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)))
						u.ID = 10
						return tt.createErr
					})
			}

			got, err := s.Register(context.Background(), input)
			if tt.wantField != "" {
				e, ok := apperrors.As(err)
				require.True(t, ok, "got %v", err)
				assert.Equal(t, apperrors.KindValidation, e.Kind)
				assert.Contains(t, e.Details, tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), got.ID)
			assert.False(t, got.IsSubscribed)
		})
	}
}

func Test_service_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 4, Email: "cook@example.com", PasswordHash: string(hash), IsAdmin: true}

	s, repo, _ := newTestService(t)
	repo.EXPECT().GetByEmail(gomock.Any(), "cook@example.com").Return(user, nil).Times(2)
	repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, &repositories.NotFoundError{Entity: "user", ID: "ghost@example.com"})

	p, err := s.Authenticate(context.Background(), "cook@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, access.Principal{UserID: 4, IsAdmin: true}, p)

	_, err = s.Authenticate(context.Background(), "cook@example.com", "wrong-password")
	assert.True(t, apperrors.HasKind(err, apperrors.KindValidation))

	_, err = s.Authenticate(context.Background(), "ghost@example.com", "whatever")
	assert.True(t, apperrors.HasKind(err, apperrors.KindValidation))
}

func Test_service_Get_viewerRelative(t *testing.T) {
	author := &models.User{ID: 2, Username: "author"}

	tests := []struct {
		name   string
		viewer access.Principal
		follow []int64
		want   bool
	}{
		{name: "follower", viewer: access.Principal{UserID: 1}, follow: []int64{2}, want: true},
		{name: "stranger", viewer: access.Principal{UserID: 3}, follow: nil, want: false},
		{name: "anonymous", viewer: access.Anonymous, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, subs := newTestService(t)
			repo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(author, nil)
			if tt.viewer.IsAuthenticated() {
				subs.EXPECT().SubscribedAuthorIDs(gomock.Any(), tt.viewer.UserID, []int64{2}).Return(tt.follow, nil)
			}

			got, err := s.Get(context.Background(), tt.viewer, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.IsSubscribed)
		})
	}
}

func Test_service_Me(t *testing.T) {
	s, repo, _ := newTestService(t)

	_, err := s.Me(context.Background(), access.Anonymous)
	assert.True(t, apperrors.HasKind(err, apperrors.KindUnauthorized))

	repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&models.User{ID: 5, Username: "me5"}, nil)
	got, err := s.Me(context.Background(), access.Principal{UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, "me5", got.Username)
}

func Test_service_List(t *testing.T) {
	s, repo, subs := newTestService(t)
	list := []*models.User{{ID: 1}, {ID: 2}}
	repo.EXPECT().List(gomock.Any(), 6, 6).Return(list, 8, nil)
	subs.EXPECT().SubscribedAuthorIDs(gomock.Any(), int64(9), []int64{1, 2}).Return([]int64{2}, nil)

	page, err := s.List(context.Background(), access.Principal{UserID: 9}, pagination.Params{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, page.Total)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].IsSubscribed)
	assert.True(t, page.Items[1].IsSubscribed)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())
}
