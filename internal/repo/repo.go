package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PasswordHasher is the credential store the repository hashes passwords with.
type PasswordHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
}

type GormRepo struct {
	DB     *gorm.DB
	Hasher PasswordHasher
}

func New(db *gorm.DB, hasher PasswordHasher) *GormRepo {
	return &GormRepo{DB: db, Hasher: hasher}
}

const pqUniqueViolation = "23505"

// isUniqueViolation recognizes a unique constraint failure from every driver the store runs on.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	// sqlite without error translation
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
