package service

import (
	"context"
	"errors"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.Repository
	cache  domain.UserCache
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, cache domain.UserCache, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return &user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if s.cache != nil {
		if user, err := s.cache.Get(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("user cache read error")
		} else if user != nil {
			return user, nil
		}
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("user cache write error")
		}
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, domain.ErrEmailExists
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.logger.Info().Int64("user_id", userID).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	s.invalidate(ctx, userID)
	s.logger.Info().Int64("user_id", userID).Msg("user deleted")
	return nil
}

func (s *UserService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("user cache invalidate error")
	}
}
