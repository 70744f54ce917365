package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/repository"
	"journal-dashboard/internal/utils"

	"github.com/bytedance/sonic"
)

// Authenticator is the part of the journal API that issues credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
}

// SessionGuard decides whether a page may initialize at all.
type SessionGuard struct {
	store repository.ClientStateStore
	auth  Authenticator
	now   func() time.Time
}

func NewSessionGuard(store repository.ClientStateStore, auth Authenticator) *SessionGuard {
	return &SessionGuard{
		store: store,
		auth:  auth,
		now:   time.Now,
	}
}

// Check returns the stored session or ErrAuthMissing. A JWT credential
// whose exp has passed counts as missing.
func (g *SessionGuard) Check(ctx context.Context) (*models.Session, error) {
	token, err := g.store.Get(ctx, repository.KeyAuthToken)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, errorvalues.ErrAuthMissing
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" || utils.TokenExpired(token, g.now()) {
		return nil, errorvalues.ErrAuthMissing
	}

	session := &models.Session{Token: token}
	raw, err := g.store.Get(ctx, repository.KeyCurrentUser)
	if err == nil && raw != "" {
		var user models.UserRecord
		// a damaged user record only costs the greeting
		if sonic.UnmarshalString(raw, &user) == nil {
			session.User = user
		}
	}
	return session, nil
}

// Login exchanges credentials for a token and persists it.
func (g *SessionGuard) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return g.persist(ctx, resp)
}

// Register creates an account and signs it in.
func (g *SessionGuard) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	resp, err := g.auth.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return g.persist(ctx, resp)
}

func (g *SessionGuard) persist(ctx context.Context, resp *models.AuthResponse) (*models.Session, error) {
	user, err := sonic.MarshalString(resp.User)
	if err != nil {
		return nil, err
	}
	if err := g.store.Set(ctx, repository.KeyAuthToken, resp.Token); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	if err := g.store.Set(ctx, repository.KeyCurrentUser, user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	return &models.Session{Token: resp.Token, User: *resp.User}, nil
}

// Logout destroys the stored credential.
func (g *SessionGuard) Logout(ctx context.Context) error {
	return g.store.Delete(ctx, repository.KeyAuthToken, repository.KeyCurrentUser)
}

// Greeting is the header text for a session.
func Greeting(session *models.Session) string {
	if session == nil || strings.TrimSpace(session.User.Name) == "" {
		return "Welcome"
	}
	return "Welcome, " + strings.TrimSpace(session.User.Name)
}
