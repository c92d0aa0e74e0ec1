package books

import (
	"context"

	"github.com/dmitrijs2005/readlist/internal/server/models"
)

// Repository stores the per-user reading lists. Every call is scoped to
// userID; rows of other users are invisible.
type Repository interface {
	Add(ctx context.Context, list models.BookList, userID int64, bookKey string) (*models.Book, error)
	Remove(ctx context.Context, list models.BookList, userID, bookID int64) error
	List(ctx context.Context, list models.BookList, userID int64) ([]*models.Book, error)
}
