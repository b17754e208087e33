package hash

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt. Every bcrypt call runs under a
// weighted semaphore so at most `workers` hashes are computed at once.
type Hasher struct {
	cost int
	pool *semaphore.Weighted
}

func NewHasher(cost, workers int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, pool: semaphore.NewWeighted(int64(workers))}
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash pool: %w", err)
	}
	defer h.pool.Release(1)

	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}

	return string(hashbytes), nil
}

// CheckPassword reports whether password matches hash. A malformed hash is a mismatch,
// not an error; the error is only set when the pool refuses work.
func (h *Hasher) CheckPassword(ctx context.Context, password, hash string) (bool, error) {
	if err := h.pool.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("hash pool: %w", err)
	}
	defer h.pool.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
