package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/repository"
	"journal-dashboard/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authMock struct {
	success bool
	token   string
}

func (a *authMock) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if !a.success {
		return nil, &services.APIError{Status: 401, Message: "Invalid credentials"}
	}
	return &models.AuthResponse{
		Token: a.token,
		User:  &models.UserRecord{ID: 1, Email: email, Name: "Ana"},
	}, nil
}

func (a *authMock) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	if !a.success {
		return nil, errors.New("mocked error")
	}
	return &models.AuthResponse{
		Token: a.token,
		User:  &models.UserRecord{ID: 2, Email: email, Name: name},
	}, nil
}

func newStore(t *testing.T) *repository.FileStateRepository {
	t.Helper()
	return repository.NewFileStateRepository(filepath.Join(t.TempDir(), "state", "client.json"))
}

func jwtWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestCheckWithoutCredential(t *testing.T) {
	guard := services.NewSessionGuard(newStore(t), &authMock{})
	_, err := guard.Check(context.Background())
	assert.ErrorIs(t, err, errorvalues.ErrAuthMissing)
}

func TestCheckEmptyOrExpiredCredential(t *testing.T) {
	ctx := context.Background()
	for name, token := range map[string]string{
		"empty":   "   ",
		"expired": jwtWithExp(t, time.Now().Add(-time.Hour)),
	} {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			require.NoError(t, store.Set(ctx, repository.KeyAuthToken, token))

			_, err := services.NewSessionGuard(store, &authMock{}).Check(ctx)
			assert.ErrorIs(t, err, errorvalues.ErrAuthMissing)
		})
	}
}

func TestCheckToleratesDamagedUser(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Set(ctx, repository.KeyAuthToken, "opaque-token"))
	require.NoError(t, store.Set(ctx, repository.KeyCurrentUser, "{not json"))

	session, err := services.NewSessionGuard(store, &authMock{}).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", session.Token)
	assert.Equal(t, "Welcome", services.Greeting(session))
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	token := jwtWithExp(t, time.Now().Add(time.Hour))
	guard := services.NewSessionGuard(store, &authMock{success: true, token: token})

	session, err := guard.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)

	checked, err := guard.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", checked.User.Name)
	assert.Equal(t, "Welcome, Ana", services.Greeting(checked))

	require.NoError(t, guard.Logout(ctx))
	_, err = guard.Check(ctx)
	assert.ErrorIs(t, err, errorvalues.ErrAuthMissing)
}

func TestLoginFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	guard := services.NewSessionGuard(store, &authMock{success: false})

	_, err := guard.Login(ctx, "ana@example.com", "wrong")
	var apiErr *services.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	_, err = store.Get(ctx, repository.KeyAuthToken)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}
