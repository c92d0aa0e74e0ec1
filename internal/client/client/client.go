package client

import (
	"context"

	"github.com/dmitrijs2005/readlist/internal/client/models"
)

type Client interface {
	Close() error
	SetAccessToken(token string)
	Signup(ctx context.Context, name, email string, password []byte) (*models.Token, error)
	Login(ctx context.Context, email string, password []byte) (*models.Token, error)
	Verify(ctx context.Context) (*models.Identity, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	DeleteAccount(ctx context.Context, userID int64, password []byte) error
	UpdateEmail(ctx context.Context, userID int64, email string, password []byte) error
	AddBook(ctx context.Context, list, bookKey string) (*models.Book, error)
	RemoveBook(ctx context.Context, list string, bookID int64) error
	ListBooks(ctx context.Context, list string) ([]models.Book, error)
}
