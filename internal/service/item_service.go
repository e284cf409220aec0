package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *ItemService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ItemService) lookupUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *ItemService) CreateItem(ctx context.Context, userID int64, item models.Item) (*models.Item, error) {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	item.OwnerID = userID
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", userID).Msg("item created")
	return &item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if item.OwnerID != userID {
		return nil, domain.ErrOwnerChange
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	if patch.RequestID != nil {
		item.RequestID = *patch.RequestID
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", itemID).Int64("owner_id", userID).Msg("item updated")
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}
	if item.OwnerID != userID {
		return domain.ErrNotItemOwner
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// GetItemView returns the item with its comments; the last and next booking
// slots are filled only when the requester owns the item.
func (s *ItemService) GetItemView(ctx context.Context, userID, itemID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	view := &models.ItemView{Item: *item}

	comments, err := s.repo.ListItemComments(ctx, itemID)
	if err != nil {
		return nil, err
	}
	view.Comments = comments

	if item.OwnerID == userID {
		bookings, err := s.repo.ListItemBookings(ctx, []int64{itemID},
			[]string{models.StatusWaiting, models.StatusApproved})
		if err != nil {
			return nil, err
		}
		last, next := projectBookings(bookings, s.clock.Now())
		view.LastBooking = last
		view.NextBooking = next
	}

	return view, nil
}

// ListOwnedItemViews returns the owner's items with projected bookings and
// comments, ordered by item id. Bookings for the whole page are fetched in
// one query and partitioned per item.
func (s *ItemService) ListOwnedItemViews(ctx context.Context, userID int64, from, size int) ([]*models.ItemView, error) {
	if from < 0 || size <= 0 {
		return nil, domain.ErrBadPage
	}

	items, err := s.repo.GetItemsByOwner(ctx, userID, size, (from/size)*size)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemView{}, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	bookings, err := s.repo.ListItemBookings(ctx, itemIDs,
		[]string{models.StatusWaiting, models.StatusApproved})
	if err != nil {
		return nil, err
	}

	byItem := make(map[int64][]*models.Booking)
	for _, b := range bookings {
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	now := s.clock.Now()
	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view := &models.ItemView{Item: *item}
		last, next := projectBookings(byItem[item.ID], now)
		view.LastBooking = last
		view.NextBooking = next

		comments, err := s.repo.ListItemComments(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		view.Comments = comments
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

// projectBookings picks the latest booking started before now and the
// earliest one starting after it. Bookings starting exactly at now fall
// into neither slot.
func projectBookings(bookings []*models.Booking, now time.Time) (last, next *models.BookingRef) {
	var lastB, nextB *models.Booking
	for _, b := range bookings {
		if b.Start.Before(now) {
			if lastB == nil || b.Start.After(lastB.Start) {
				lastB = b
			}
		} else if b.Start.After(now) {
			if nextB == nil || b.Start.Before(nextB.Start) {
				nextB = b
			}
		}
	}
	if lastB != nil {
		last = lastB.Ref()
	}
	if nextB != nil {
		next = nextB.Ref()
	}
	return last, next
}

func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	if from < 0 || size <= 0 {
		return nil, domain.ErrBadPage
	}
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text, size, (from/size)*size)
}

// CreateComment lets a user comment on an item they have actually booked.
// The booking must not be rejected and must have started by the comment's
// creation time.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, text string, created time.Time) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrCommentDenied
	}

	author, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	bookings, err := s.repo.ListItemBookings(ctx, []int64{itemID},
		[]string{models.StatusWaiting, models.StatusApproved})
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, b := range bookings {
		if b.BookerID == userID && !b.Start.After(created) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrCommentDenied
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: author.Name,
		Created:    created,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).
		Int64("author_id", userID).Msg("comment created")

	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID: comment.ID,
			ItemID:    itemID,
			AuthorID:  userID,
			Created:   created,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}
