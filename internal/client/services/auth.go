// Package services contains application services for the readlist CLI.
// This file defines the session service: signup, login, restoring a saved
// login, whoami and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/readlist/internal/client/client"
	"github.com/dmitrijs2005/readlist/internal/client/models"
	"github.com/dmitrijs2005/readlist/internal/client/repositories/session"
	"github.com/dmitrijs2005/readlist/internal/common"
)

// ErrNotLoggedIn is returned by operations that need a session when there
// is none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService manages the CLI session.
//
// Contract:
//   - Signup / Login: authenticate against the server, then persist the
//     token together with the identity the server reports for it.
//   - Restore: reuse a saved, unexpired session.
//   - Whoami: ask the server who the current token belongs to.
//   - Logout: revoke the token when the server supports it and forget it
//     locally either way.
//   - Current: the active session, or nil.
type AuthService interface {
	Signup(ctx context.Context, name, email string, password []byte) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Restore(ctx context.Context) (*models.Session, error)
	Whoami(ctx context.Context) (*models.Identity, error)
	Logout(ctx context.Context) error
	Forget(ctx context.Context) error
	Current() *models.Session
}

type authService struct {
	client   client.Client
	sessions session.Repository
	now      func() time.Time
	current  *models.Session
}

// NewAuthService constructs an AuthService bound to the given API client and
// local session store.
func NewAuthService(c client.Client, sessions session.Repository) AuthService {
	return &authService{client: c, sessions: sessions, now: time.Now}
}

func (a *authService) Current() *models.Session {
	return a.current
}

// start installs token, asks the server whose it is and saves the result.
func (a *authService) start(ctx context.Context, tok *models.Token) (*models.Session, error) {
	a.client.SetAccessToken(tok.AccessToken)

	id, err := a.client.Verify(ctx)
	if err != nil {
		a.client.SetAccessToken("")
		return nil, fmt.Errorf("verify token: %w", err)
	}

	s := &models.Session{
		UserID:      id.ID,
		Email:       id.Email,
		Name:        id.Name,
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	a.current = s
	return s, nil
}

func (a *authService) Signup(ctx context.Context, name, email string, password []byte) (*models.Session, error) {
	tok, err := a.client.Signup(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return a.start(ctx, tok)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	tok, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.start(ctx, tok)
}

// Restore loads the saved session. An expired one is deleted and reported
// as ErrNotLoggedIn.
func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	s, err := a.sessions.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	if s.Expired(a.now()) {
		if err := a.sessions.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNotLoggedIn
	}

	a.client.SetAccessToken(s.AccessToken)
	a.current = s
	return s, nil
}

func (a *authService) Whoami(ctx context.Context) (*models.Identity, error) {
	if a.current == nil {
		return nil, ErrNotLoggedIn
	}
	return a.client.Verify(ctx)
}

// Logout revokes the token on the server. A server without a denylist
// answers ErrUnsupported; the local session is dropped in every case.
func (a *authService) Logout(ctx context.Context) error {
	if a.current == nil {
		return ErrNotLoggedIn
	}

	err := a.client.Logout(ctx)
	if errors.Is(err, common.ErrUnsupported) || errors.Is(err, client.ErrUnauthorized) {
		err = nil
	}

	return errors.Join(err, a.Forget(ctx))
}

// Forget drops the session locally without contacting the server.
func (a *authService) Forget(ctx context.Context) error {
	a.current = nil
	a.client.SetAccessToken("")
	return a.sessions.Clear(ctx)
}
