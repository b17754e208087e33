// Package directory serves the admin user listing, backed by Elasticsearch when configured
// and by the user store otherwise.
package directory

import (
	"context"

	"github.com/Skotchmaster/userauth/internal/models"
)

type Directory interface {
	// Index makes u searchable. Implementations may treat this as a no-op.
	Index(ctx context.Context, u *models.User) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.User, error)
}

type UserSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.User, error)
}

// Store lists users straight from the repository.
type Store struct {
	Users UserSearcher
}

func NewStore(users UserSearcher) *Store {
	return &Store{Users: users}
}

func (s *Store) Index(context.Context, *models.User) error { return nil }

func (s *Store) Search(ctx context.Context, query string, from, size int) (int64, []models.User, error) {
	return s.Users.Search(ctx, query, from, size)
}
