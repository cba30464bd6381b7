package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/foodgram/foodgram/foodgram/database/models"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/internal/domain/access"
	"github.com/foodgram/foodgram/internal/domain/apperrors"
	"github.com/foodgram/foodgram/internal/domain/pagination"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Profile, error)
	Authenticate(ctx context.Context, email, password string) (access.Principal, error)
	Get(ctx context.Context, viewer access.Principal, id int64) (*Profile, error)
	Me(ctx context.Context, viewer access.Principal) (*Profile, error)
	List(ctx context.Context, viewer access.Principal, params pagination.Params) (*pagination.Page[*Profile], error)
}

type service struct {
	repository    Repository
	subscriptions SubscriptionReader
	log           *slog.Logger
}

func NewService(repository Repository, subscriptions SubscriptionReader) *service {
	return &service{
		repository:    repository,
		subscriptions: subscriptions,
		log:           slog.With("service", "users"),
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        strings.TrimSpace(input.Email),
		Username:     strings.TrimSpace(input.Username),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hash),
	}

	if err := s.repository.Create(ctx, user); err != nil {
		var conflict *repositories.ConflictError
		if errors.As(err, &conflict) {
			field := "username"
			if strings.Contains(conflict.Constraint, "email") {
				field = "email"
			}
			return nil, apperrors.InvalidField(field, fmt.Sprintf("a user with that %s already exists", field))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return NewProfile(user, false), nil
}

// validateRegistration checks the username rules. Field presence, lengths
// and the email format are checked by the request validator.
func validateRegistration(input RegisterInput) error {
	username := strings.TrimSpace(input.Username)
	switch {
	case !usernamePattern.MatchString(username):
		return apperrors.InvalidField("username", "letters, digits and @/./+/-/_ only")
	case strings.EqualFold(username, "me"):
		return apperrors.InvalidField("username", "this username is reserved")
	}
	return nil
}

// Authenticate checks the email and password pair and returns the matching
// principal.
func (s *service) Authenticate(ctx context.Context, email, password string) (access.Principal, error) {
	invalid := apperrors.InvalidField("credentials", "unable to log in with provided credentials")

	user, err := s.repository.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return access.Anonymous, invalid
		}
		return access.Anonymous, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Failed login attempt", slog.Int64("user_id", user.ID))
		return access.Anonymous, invalid
	}

	return access.Principal{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *service) Get(ctx context.Context, viewer access.Principal, id int64) (*Profile, error) {
	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}

	subscribed, err := s.subscribedTo(ctx, viewer, []int64{user.ID})
	if err != nil {
		return nil, err
	}
	return NewProfile(user, subscribed[user.ID]), nil
}

func (s *service) Me(ctx context.Context, viewer access.Principal) (*Profile, error) {
	if err := access.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	user, err := s.repository.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, apperrors.FromRepository(err)
	}
	return NewProfile(user, false), nil
}

func (s *service) List(ctx context.Context, viewer access.Principal, params pagination.Params) (*pagination.Page[*Profile], error) {
	params = params.Normalize()

	list, total, err := s.repository.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]int64, len(list))
	for i, user := range list {
		ids[i] = user.ID
	}
	subscribed, err := s.subscribedTo(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(list))
	for i, user := range list {
		profiles[i] = NewProfile(user, subscribed[user.ID])
	}
	return pagination.NewPage(profiles, total, params), nil
}

func (s *service) subscribedTo(ctx context.Context, viewer access.Principal, authorIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(authorIDs))
	if !viewer.IsAuthenticated() || len(authorIDs) == 0 {
		return result, nil
	}

	ids, err := s.subscriptions.SubscribedAuthorIDs(ctx, viewer.UserID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
