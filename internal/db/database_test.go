package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/userauth/internal/models"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "", PoolOptions{})
	assert.Error(t, err)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, SQLitePrefix+":memory:", PoolOptions{MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(ctx, db))

	u := models.User{Firstname: "A", Lastname: "B", Email: "a@b.c", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	var got models.User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Zero(t, got.LoginCount)
	assert.Nil(t, got.LastLogin)
}

func TestOpen_SQLiteRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, SQLitePrefix+":memory:", PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec(
		"INSERT INTO users (firstname, lastname, email, password, role, created_at, login_count) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, 0)",
		"Eve", "X", "eve@example.com", "hash", "Superuser",
	).Error)

	var got models.User
	err = db.Where("email = ?", "eve@example.com").First(&got).Error
	assert.Error(t, err)
}

func TestConfigurePool_IdleNeverExceedsOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, SQLitePrefix+":memory:", PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)

	configurePool(sqlDB, PoolOptions{MaxOpenConns: 3, MaxIdleConns: 8})
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_PostgresMigrations(t *testing.T) {
	dsn := os.Getenv("AUTH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AUTH_TEST_DATABASE_URL is required for tests")
	}

	ctx := context.Background()
	db, err := Open(ctx, dsn, PoolOptions{MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_email"))
}
