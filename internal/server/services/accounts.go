package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/dbx"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/users"
)

// AccountService implements the operations a user performs on their own
// account. Mutations re-check the password inside the same transaction
// that writes.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	passwords   *auth.PasswordPolicy
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, passwords *auth.PasswordPolicy) *AccountService {
	return &AccountService{db: db, repomanager: m, passwords: passwords}
}

func authorize(caller *auth.Identity, userID int64) error {
	if caller == nil {
		return common.ErrUnauthenticated
	}
	if caller.UserID != userID {
		return common.ErrForbidden
	}
	return nil
}

// reauthenticate loads userID through repo and checks password against it.
func (s *AccountService) reauthenticate(ctx context.Context, repo users.Repository, userID int64, password string) (*models.User, error) {
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ok, err := s.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if !ok {
		return nil, common.ErrWrongPassword
	}
	return user, nil
}

// DeleteAccount removes userID and both of its reading lists.
func (s *AccountService) DeleteAccount(ctx context.Context, caller *auth.Identity, userID int64, password string) error {
	if err := authorize(caller, userID); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := s.reauthenticate(ctx, repo, userID, password); err != nil {
			return err
		}
		return repo.Delete(ctx, userID)
	})
}

// UpdateEmail replaces the email of userID. Tokens issued before the change
// keep the old email in their subject until they expire.
func (s *AccountService) UpdateEmail(ctx context.Context, caller *auth.Identity, userID int64, newEmail, password string) error {
	if err := authorize(caller, userID); err != nil {
		return err
	}
	if err := validateStruct(&emailInput{Email: newEmail}); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := s.reauthenticate(ctx, repo, userID, password); err != nil {
			return err
		}
		if err := repo.UpdateEmail(ctx, userID, newEmail); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.ErrEmailConflict
			}
			return err
		}
		return nil
	})
}

// GetProfile returns userID with both reading lists.
func (s *AccountService) GetProfile(ctx context.Context, caller *auth.Identity, userID int64) (*models.Profile, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := s.repomanager.Books(s.db)
	toRead, err := books.List(ctx, models.ListToRead, userID)
	if err != nil {
		return nil, err
	}
	read, err := books.List(ctx, models.ListRead, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		BooksToRead: toRead,
		BooksRead:   read,
	}, nil
}
