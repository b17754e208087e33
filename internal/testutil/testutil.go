// Package testutil provides shared test helpers: an in-memory store, a fast hasher and a
// repository wired to both.
package testutil

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/userauth/internal/db"
	"github.com/Skotchmaster/userauth/internal/hash"
	"github.com/Skotchmaster/userauth/internal/models"
	"github.com/Skotchmaster/userauth/internal/repo"
)

// TestDB opens a private in-memory sqlite store with the users table migrated.
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.SQLitePrefix+":memory:", db.PoolOptions{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// Hasher uses the minimum bcrypt cost so tests stay fast.
func Hasher() *hash.Hasher {
	return hash.NewHasher(bcrypt.MinCost, 4)
}

func Repo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(TestDB(t), Hasher())
}

// CreateUser inserts a user with the given role and plaintext password.
func CreateUser(t *testing.T, r *repo.GormRepo, email, password string, role models.Role) *models.User {
	t.Helper()

	u, err := r.Create(context.Background(), models.NewUser{
		Firstname: "Test",
		Lastname:  "User",
		Email:     email,
		Password:  password,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func Ptr[T any](v T) *T { return &v }
