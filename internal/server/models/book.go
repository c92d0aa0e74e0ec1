package models

import (
	"fmt"
	"time"
)

// BookList names one of the two per-user reading lists.
type BookList string

const (
	ListToRead BookList = "to_read"
	ListRead   BookList = "read"
)

// ParseBookList accepts the canonical list names plus the path-style aliases
// used by the HTTP routes and the CLI.
func ParseBookList(s string) (BookList, error) {
	switch s {
	case "to_read", "to-read", "books-to-read", "toread":
		return ListToRead, nil
	case "read", "books-read":
		return ListRead, nil
	}
	return "", fmt.Errorf("unknown book list %q", s)
}

func (l BookList) Valid() bool {
	return l == ListToRead || l == ListRead
}

// Book is a reference to an external catalogue entry kept on one list.
type Book struct {
	ID        int64
	UserID    int64
	BookKey   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
