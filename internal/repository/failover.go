package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type FailoverUserCache struct {
	primary  domain.UserCache
	fallback domain.UserCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// unix nanos of the last failed primary probe; atomic because Get
	// runs concurrently under the HTTP server
	lastCheck atomic.Int64
}

func NewFailoverUserCache(primary, fallback domain.UserCache, logger *zerolog.Logger) *FailoverUserCache {
	return &FailoverUserCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverUserCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary user cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverUserCache) Get(ctx context.Context, id int64) (*models.User, error) {
	if !r.isDown.Load() {
		user, err := r.primary.Get(ctx, id)
		if err == nil {
			return user, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		user, err := r.primary.Get(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return user, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, id)
}

func (r *FailoverUserCache) Set(ctx context.Context, user *models.User) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, user)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, user)
}

func (r *FailoverUserCache) Invalidate(ctx context.Context, id int64) error {
	if !r.isDown.Load() {
		err := r.primary.Invalidate(ctx, id)
		if err == nil {
			return r.fallback.Invalidate(ctx, id)
		}
		r.markDown(err)
	}

	return r.fallback.Invalidate(ctx, id)
}
