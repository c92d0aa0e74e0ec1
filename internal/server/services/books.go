package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/repositories/repomanager"
)

// BookService manages the caller's reading lists. The owner of every row is
// the authenticated caller.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewBookService constructs a BookService.
func NewBookService(db *sql.DB, m repomanager.RepositoryManager) *BookService {
	return &BookService{db: db, repomanager: m}
}

func checkList(caller *auth.Identity, list models.BookList) error {
	if caller == nil {
		return common.ErrUnauthenticated
	}
	if !list.Valid() {
		return errors.Join(common.ErrValidation, errors.New("unknown book list"))
	}
	return nil
}

// AddBook puts bookKey on list.
func (s *BookService) AddBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookKey string) (*models.Book, error) {
	if err := checkList(caller, list); err != nil {
		return nil, err
	}
	in := bookInput{BookKey: strings.TrimSpace(bookKey)}
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	book, err := s.repomanager.Books(s.db).Add(ctx, list, caller.UserID, in.BookKey)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, common.ErrBookAlreadyListed
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}
	return book, nil
}

// RemoveBook deletes bookID from list. Rows owned by other users are
// reported as not found.
func (s *BookService) RemoveBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookID int64) error {
	if err := checkList(caller, list); err != nil {
		return err
	}
	return s.repomanager.Books(s.db).Remove(ctx, list, caller.UserID, bookID)
}

// ListBooks returns list in insertion order.
func (s *BookService) ListBooks(ctx context.Context, caller *auth.Identity, list models.BookList) ([]*models.Book, error) {
	if err := checkList(caller, list); err != nil {
		return nil, err
	}
	return s.repomanager.Books(s.db).List(ctx, list, caller.UserID)
}
