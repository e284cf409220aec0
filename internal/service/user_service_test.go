package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	alice := &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewUserService(repo, nil, &logger)

		repo.On("CreateUser", ctx, mock.Anything).Return(database.ErrDuplicateEmail).Once()

		_, err := svc.CreateUser(ctx, models.User{Name: "Dup", Email: "alice@example.com"})
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("GetPrefersCache", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewUserService(repo, cache, &logger)

		cache.On("Get", ctx, int64(1)).Return(alice, nil).Once()

		user, err := svc.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
		repo.AssertNotCalled(t, "GetUser", ctx, int64(1))
	})

	t.Run("GetFillsCacheOnMiss", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewUserService(repo, cache, &logger)

		cache.On("Get", ctx, int64(1)).Return(nil, nil).Once()
		repo.On("GetUser", ctx, int64(1)).Return(alice, nil).Once()
		cache.On("Set", ctx, alice).Return(nil).Once()

		user, err := svc.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		cache.AssertExpectations(t)
	})

	t.Run("CacheErrorFallsThrough", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewUserService(repo, cache, &logger)

		cache.On("Get", ctx, int64(1)).Return(nil, errors.New("redis down")).Once()
		repo.On("GetUser", ctx, int64(1)).Return(alice, nil).Once()
		cache.On("Set", ctx, alice).Return(nil).Once()

		user, err := svc.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewUserService(repo, nil, &logger)

		repo.On("GetUser", ctx, int64(42)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.GetUser(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("UpdateInvalidatesCache", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewUserService(repo, cache, &logger)

		stored := &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
		repo.On("GetUser", ctx, int64(1)).Return(stored, nil).Once()
		repo.On("UpdateUser", ctx, stored).Return(nil).Once()
		cache.On("Invalidate", ctx, int64(1)).Return(nil).Once()

		name := "Alicia"
		user, err := svc.UpdateUser(ctx, 1, models.UserPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)
		cache.AssertExpectations(t)
	})

	t.Run("UpdateDuplicateEmail", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewUserService(repo, nil, &logger)

		stored := &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
		repo.On("GetUser", ctx, int64(1)).Return(stored, nil).Once()
		repo.On("UpdateUser", ctx, stored).Return(database.ErrDuplicateEmail).Once()

		email := "taken@example.com"
		_, err := svc.UpdateUser(ctx, 1, models.UserPatch{Email: &email})
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("DeleteInvalidatesCache", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		svc := NewUserService(repo, cache, &logger)

		repo.On("DeleteUser", ctx, int64(1)).Return(nil).Once()
		cache.On("Invalidate", ctx, int64(1)).Return(nil).Once()

		err := svc.DeleteUser(ctx, 1)
		assert.NoError(t, err)
		cache.AssertExpectations(t)
	})
}
