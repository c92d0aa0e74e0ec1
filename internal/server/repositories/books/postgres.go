// Package books provides PostgreSQL-backed storage for the reading lists.
package books

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/dbx"
	"github.com/dmitrijs2005/readlist/internal/server/models"
)

var tables = map[models.BookList]string{
	models.ListToRead: "books_to_read",
	models.ListRead:   "books_read",
}

func tableFor(list models.BookList) (string, error) {
	t, ok := tables[list]
	if !ok {
		return "", fmt.Errorf("%w: unknown book list %q", common.ErrValidation, list)
	}
	return t, nil
}

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add puts bookKey on the list. A (user, book) pair that is already listed
// yields common.ErrorAlreadyExists; a missing user yields common.ErrorNotFound.
func (r *PostgresRepository) Add(ctx context.Context, list models.BookList, userID int64, bookKey string) (*models.Book, error) {
	table, err := tableFor(list)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, book_key)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`, table)

	book := &models.Book{UserID: userID, BookKey: bookKey}
	err = r.db.QueryRowContext(ctx, query, userID, bookKey).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		switch {
		case dbx.IsDuplicateKeyError(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolationError(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return book, nil
}

// Remove deletes book bookID from the list if userID owns it.
func (r *PostgresRepository) Remove(ctx context.Context, list models.BookList, userID, bookID int64) error {
	table, err := tableFor(list)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table)

	res, err := r.db.ExecContext(ctx, query, bookID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns the list in insertion order.
func (r *PostgresRepository) List(ctx context.Context, list models.BookList, userID int64) ([]*models.Book, error) {
	table, err := tableFor(list)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, book_key, created_at, updated_at FROM %s
		 WHERE user_id = $1
		 ORDER BY id`, table)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select books: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.UserID, &b.BookKey, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
