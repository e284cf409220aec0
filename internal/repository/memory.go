package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

type memoryEntry struct {
	user      *models.User
	expiresAt time.Time
}

type MemoryUserCache struct {
	users sync.Map
	ttl   time.Duration
}

func NewMemoryUserCache(ttl time.Duration) *MemoryUserCache {
	return &MemoryUserCache{
		ttl: ttl,
	}
}

func (r *MemoryUserCache) Get(ctx context.Context, id int64) (*models.User, error) {
	val, ok := r.users.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.users.Delete(id)
		return nil, nil
	}
	return entry.user, nil
}

func (r *MemoryUserCache) Set(ctx context.Context, user *models.User) error {
	r.users.Store(user.ID, &memoryEntry{
		user:      user,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryUserCache) Invalidate(ctx context.Context, id int64) error {
	r.users.Delete(id)
	return nil
}
