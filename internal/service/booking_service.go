package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, userID int64, req models.BookingRequest) (*models.Booking, error) {
	item, err := s.repo.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}
	if item.OwnerID == userID {
		return nil, domain.ErrOwnBooking
	}
	if err := s.validatePeriod(req.Start, req.End); err != nil {
		return nil, err
	}

	booker, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// The item is re-saved on every booking creation; clients rely on the
	// touched row as a compatibility side effect.
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:    *req.Start,
		End:      *req.End,
		ItemID:   item.ID,
		BookerID: userID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	booking.Item = item
	booking.Booker = booker

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", item.ID).
		Int64("booker_id", userID).Msg("booking created")
	metrics.IncBookingCreated()
	s.publishBookingEvent(events.EventBookingCreated, booking, userID)

	return booking, nil
}

func (s *BookingService) validatePeriod(start, end *time.Time) error {
	now := s.clock.Now()
	if start == nil || end == nil ||
		end.Before(now) ||
		start.Before(now) ||
		end.Before(*start) ||
		end.Equal(*start) {
		return domain.ErrBadPeriod
	}
	return nil
}

// findBooking resolves a booking visible to the given user: its booker or
// the owner of the booked item. Anything else reports not-found; "absent"
// and "not yours" collapse deliberately so existence never leaks.
func (s *BookingService) findBooking(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, domain.ErrBookingNotFound
	}

	booking.Item = item
	if booker, err := s.repo.GetUser(ctx, booking.BookerID); err == nil {
		booking.Booker = booker
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	return s.findBooking(ctx, bookingID, userID)
}

func (s *BookingService) DecideBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	if booking.Item.OwnerID != userID {
		return nil, domain.ErrNotDecider
	}
	if booking.Status != models.StatusWaiting {
		return nil, domain.ErrTooLate
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	// Compare-and-set: if a concurrent decision already moved the booking
	// out of WAITING, this caller is too late as well.
	if err := s.repo.UpdateBookingStatusIfWaiting(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrStaleStatus) {
			return nil, domain.ErrTooLate
		}
		return nil, err
	}
	booking.Status = status

	s.logger.Info().Int64("booking_id", bookingID).Str("status", status).
		Int64("owner_id", userID).Msg("booking decided")
	metrics.IncBookingDecision(status)
	s.publishBookingEvent(eventType, booking, userID)

	return booking, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.findBooking(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	// Only the booker may delete; the owner resolving the booking above
	// gets a validation error instead of a silent no-op.
	if booking.BookerID != userID {
		return domain.ErrNotBooker
	}

	if err := s.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	s.logger.Info().Int64("booking_id", bookingID).Int64("booker_id", userID).Msg("booking deleted")
	s.publishBookingEvent(events.EventBookingDeleted, booking, userID)
	return nil
}

func validBucket(state string) bool {
	switch state {
	case models.BucketAll, models.BucketCurrent, models.BucketPast,
		models.BucketFuture, models.BucketWaiting, models.BucketRejected:
		return true
	}
	return false
}

func (s *BookingService) bucketPage(state string, from, size int) (domain.BookingPage, error) {
	if from < 0 || size <= 0 {
		return domain.BookingPage{}, domain.ErrBadPage
	}
	if !validBucket(state) {
		return domain.BookingPage{}, fmt.Errorf("%w: %s", domain.ErrUnknownState, state)
	}

	// Offset is rounded down to a whole page: from=7,size=3 starts at 6.
	return domain.BookingPage{
		Mode:   state,
		Now:    s.clock.Now(),
		Limit:  size,
		Offset: (from / size) * size,
	}, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	page, err := s.bucketPage(state, from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListBookingsByBooker(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return s.resolveParties(ctx, bookings)
}

func (s *BookingService) ListBookingsOnMyItems(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error) {
	page, err := s.bucketPage(state, from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListBookingsByOwner(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return s.resolveParties(ctx, bookings)
}

func (s *BookingService) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	bookings, err := s.repo.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.resolveParties(ctx, bookings)
}

// resolveParties attaches item and booker entities to each booking,
// deduplicating lookups across the page.
func (s *BookingService) resolveParties(ctx context.Context, bookings []*models.Booking) ([]*models.Booking, error) {
	items := make(map[int64]*models.Item)
	users := make(map[int64]*models.User)

	for _, b := range bookings {
		if _, ok := items[b.ItemID]; !ok {
			item, err := s.repo.GetItem(ctx, b.ItemID)
			if err != nil {
				return nil, err
			}
			items[b.ItemID] = item
		}
		if _, ok := users[b.BookerID]; !ok {
			user, err := s.repo.GetUser(ctx, b.BookerID)
			if err != nil {
				return nil, err
			}
			users[b.BookerID] = user
		}
		b.Item = items[b.ItemID]
		b.Booker = users[b.BookerID]
	}
	return bookings, nil
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking, changedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
		ChangedBy: changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
