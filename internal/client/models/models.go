// Package models holds the client-side view of readlist data.
package models

import "time"

// Session is the login kept between CLI runs.
type Session struct {
	UserID      int64
	Email       string
	Name        string
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the access token is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Token is what Signup and Login return.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Identity is the server's view of the caller.
type Identity struct {
	ID        int64
	Email     string
	Name      string
	ExpiresAt time.Time
}

type Book struct {
	ID        int64
	UserID    int64
	BookKey   string
	CreatedAt time.Time
}

type Profile struct {
	ID          int64
	Name        string
	Email       string
	BooksToRead []Book
	BooksRead   []Book
}
