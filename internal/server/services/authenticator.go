// Package services contains the server-side business logic: credential
// checks, session tokens, account mutations and the reading lists. Services
// are shared by the HTTP and gRPC transports.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/repomanager"
)

// Authenticator checks an email/password pair against the credential store.
type Authenticator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	passwords   *auth.PasswordPolicy
	dummyHash   string
}

// NewAuthenticator builds an Authenticator. The dummy hash compared against
// for unknown emails is generated here, at the policy's cost.
func NewAuthenticator(db *sql.DB, m repomanager.RepositoryManager, passwords *auth.PasswordPolicy) (*Authenticator, error) {
	dummy, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}
	hash, err := passwords.Hash(dummy)
	if err != nil {
		return nil, err
	}
	return &Authenticator{db: db, repomanager: m, passwords: passwords, dummyHash: hash}, nil
}

// Authenticate returns the user owning email if password matches.
// An unknown email and a wrong password both yield
// common.ErrInvalidCredentials after the same amount of bcrypt work.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.repomanager.Users(a.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = a.passwords.Verify(password, a.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := a.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}
