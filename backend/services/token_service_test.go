package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram/internal/domain/access"
)

func TestTokenService_roundTrip(t *testing.T) {
	svc, err := NewTokenService("s3cret", "foodgram", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(access.Principal{UserID: 42, IsAdmin: true})
	require.NoError(t, err)

	principal, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, access.Principal{UserID: 42, IsAdmin: true}, principal)
}

func TestTokenService_Verify_rejects(t *testing.T) {
	svc, err := NewTokenService("s3cret", "foodgram", time.Hour)
	require.NoError(t, err)

	other, err := NewTokenService("other", "foodgram", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue(access.Principal{UserID: 1})
	require.NoError(t, err)

	expiredSvc, err := NewTokenService("s3cret", "foodgram", time.Hour)
	require.NoError(t, err)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue(access.Principal{UserID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "foodgram",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "unsigned", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, access.Anonymous, principal)
		})
	}
}

func TestTokenService_Issue_anonymous(t *testing.T) {
	svc, err := NewTokenService("s3cret", "foodgram", time.Hour)
	require.NoError(t, err)

	_, err = svc.Issue(access.Anonymous)
	assert.Error(t, err)

	_, err = NewTokenService("", "foodgram", time.Hour)
	assert.Error(t, err)
}
