package services

import (
	"context"

	"github.com/dmitrijs2005/readlist/internal/client/client"
	"github.com/dmitrijs2005/readlist/internal/client/models"
)

// LibraryService covers everything a logged-in user can do: the two
// reading lists and the account itself. Every call needs a session.
type LibraryService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	ListBooks(ctx context.Context, list string) ([]models.Book, error)
	AddBook(ctx context.Context, list, bookKey string) (*models.Book, error)
	RemoveBook(ctx context.Context, list string, bookID int64) error
	UpdateEmail(ctx context.Context, email string, password []byte) error
	DeleteAccount(ctx context.Context, password []byte) error
}

type libraryService struct {
	client client.Client
	auth   AuthService
}

func NewLibraryService(c client.Client, auth AuthService) LibraryService {
	return &libraryService{client: c, auth: auth}
}

func (l *libraryService) session() (*models.Session, error) {
	s := l.auth.Current()
	if s == nil {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

func (l *libraryService) Profile(ctx context.Context) (*models.Profile, error) {
	s, err := l.session()
	if err != nil {
		return nil, err
	}
	return l.client.GetProfile(ctx, s.UserID)
}

func (l *libraryService) ListBooks(ctx context.Context, list string) ([]models.Book, error) {
	if _, err := l.session(); err != nil {
		return nil, err
	}
	return l.client.ListBooks(ctx, list)
}

func (l *libraryService) AddBook(ctx context.Context, list, bookKey string) (*models.Book, error) {
	if _, err := l.session(); err != nil {
		return nil, err
	}
	return l.client.AddBook(ctx, list, bookKey)
}

func (l *libraryService) RemoveBook(ctx context.Context, list string, bookID int64) error {
	if _, err := l.session(); err != nil {
		return err
	}
	return l.client.RemoveBook(ctx, list, bookID)
}

// UpdateEmail changes the account email. The current token stays valid
// until it expires but still carries the old address.
func (l *libraryService) UpdateEmail(ctx context.Context, email string, password []byte) error {
	s, err := l.session()
	if err != nil {
		return err
	}
	return l.client.UpdateEmail(ctx, s.UserID, email, password)
}

// DeleteAccount removes the account and then forgets the local session.
func (l *libraryService) DeleteAccount(ctx context.Context, password []byte) error {
	s, err := l.session()
	if err != nil {
		return err
	}
	if err := l.client.DeleteAccount(ctx, s.UserID, password); err != nil {
		return err
	}
	return l.auth.Forget(ctx)
}
