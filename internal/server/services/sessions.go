package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/repomanager"
)

// IssuedToken is what signup and login hand back to the client.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// SessionService registers users, logs them in, and verifies and revokes
// their access tokens.
type SessionService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	passwords     *auth.PasswordPolicy
	authenticator *Authenticator
	codec         *auth.TokenCodec
	denylist      auth.Denylist
}

// NewSessionService wires a SessionService. denylist may be nil, in which
// case tokens cannot be revoked and Logout reports common.ErrUnsupported.
func NewSessionService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	passwords *auth.PasswordPolicy,
	authenticator *Authenticator,
	codec *auth.TokenCodec,
	denylist auth.Denylist,
) *SessionService {
	return &SessionService{
		db:            db,
		repomanager:   m,
		passwords:     passwords,
		authenticator: authenticator,
		codec:         codec,
		denylist:      denylist,
	}
}

// LogoutEnabled reports whether tokens can be revoked before they expire.
func (s *SessionService) LogoutEnabled() bool {
	return s.denylist != nil
}

// Signup creates an account and logs it in. Checks run in order: request
// shape, email availability, password strength.
func (s *SessionService) Signup(ctx context.Context, name, email, password string) (*IssuedToken, error) {
	in := signupInput{Name: strings.TrimSpace(name), Email: email}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.passwords.Validate(password); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Create(ctx, &models.User{Name: in.Name, Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate new user: %w", err)
	}

	return s.issue(user)
}

// Login exchanges valid credentials for an access token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*IssuedToken, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Verify decodes token and rejects it if it has been revoked. If the
// denylist cannot be consulted the token is rejected too.
func (s *SessionService) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
		}
		if revoked {
			return nil, common.ErrTokenRevoked
		}
	}

	return claims.Identity(), nil
}

// Logout revokes the token identity was authenticated with.
func (s *SessionService) Logout(ctx context.Context, identity *auth.Identity) error {
	if s.denylist == nil {
		return common.ErrUnsupported
	}
	if identity == nil {
		return common.ErrUnauthenticated
	}
	return s.denylist.Revoke(ctx, identity.TokenID, identity.ExpiresAt)
}

func (s *SessionService) issue(user *models.User) (*IssuedToken, error) {
	token, expiresAt, err := s.codec.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Name: user.Name}, 0)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{AccessToken: token, TokenType: common.TokenType, ExpiresAt: expiresAt}, nil
}
