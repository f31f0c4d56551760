package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (AuthService, *fakeUserRepo) {
	users := &fakeUserRepo{}
	return NewAuthService(users, "test-secret", time.Hour), users
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, users := newAuthService()

	user, err := svc.Register(context.Background(), "lifter@example.com", "s3cretpass")
	require.NoError(t, err)

	assert.Equal(t, "lifter@example.com", user.Email)
	// The returned user never carries the hash.
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(context.Background(), "lifter@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), "lifter@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "lifter@example.com", "otherpass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_ReturnsParsableToken(t *testing.T) {
	svc, _ := newAuthService()

	registered, err := svc.Register(context.Background(), "lifter@example.com", "s3cretpass")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "lifter@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims["uid"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), "lifter@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "lifter@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
