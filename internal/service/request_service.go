package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, clock domain.Clock, logger *zerolog.Logger) *RequestService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &RequestService{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.ErrBlankRequest
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: userID,
		Created:     s.clock.Now(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requestor_id", userID).Msg("request created")
	return request, nil
}

func (s *RequestService) UpdateRequest(ctx context.Context, userID, requestID int64, description *string) (*models.ItemRequest, error) {
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestorID != userID {
		return nil, domain.ErrRequestNotFound
	}

	if description != nil {
		request.Description = *description
	}
	if err := s.repo.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}
	return s.attachItems(ctx, request)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return s.attachItems(ctx, request)
}

func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItemsAll(ctx, requests)
}

func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error) {
	if from < 0 || size <= 0 {
		return nil, domain.ErrBadPage
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListRequestsOfOthers(ctx, userID, size, (from/size)*size)
	if err != nil {
		return nil, err
	}
	return s.attachItemsAll(ctx, requests)
}

func (s *RequestService) DeleteRequest(ctx context.Context, requestID int64) error {
	if err := s.repo.DeleteRequest(ctx, requestID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	return nil
}

func (s *RequestService) attachItems(ctx context.Context, request *models.ItemRequest) (*models.ItemRequest, error) {
	items, err := s.repo.GetItemsByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	request.Items = make([]models.Item, 0, len(items))
	for _, item := range items {
		request.Items = append(request.Items, *item)
	}
	return request, nil
}

func (s *RequestService) attachItemsAll(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequest, error) {
	for _, request := range requests {
		if _, err := s.attachItems(ctx, request); err != nil {
			return nil, err
		}
	}
	return requests, nil
}
