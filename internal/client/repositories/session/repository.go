// Package session persists the CLI login in the local database.
package session

import (
	"context"

	"github.com/dmitrijs2005/readlist/internal/client/models"
)

// Repository stores at most one session.
type Repository interface {
	// Load returns common.ErrorNotFound when nobody is logged in.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}
