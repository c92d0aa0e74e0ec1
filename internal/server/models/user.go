// Package models holds the persistent entities of the readlist server.
package models

import "time"

// User is an account row. PasswordHash is the bcrypt hash and must never
// leave the server.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the outward view of a user together with both reading lists.
type Profile struct {
	ID          int64
	Name        string
	Email       string
	BooksToRead []*Book
	BooksRead   []*Book
}
