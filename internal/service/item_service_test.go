package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestItemServiceCRUD(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	t.Run("CreateRequiresUser", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetUser", ctx, int64(1)).Return(nil, database.ErrNotFound).Once()

		_, err := svc.CreateItem(ctx, 1, models.Item{Name: "Drill", Description: "x", Available: true})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("CreateSetsOwner", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		repo.On("CreateItem", ctx, mock.MatchedBy(func(i *models.Item) bool {
			return i.OwnerID == 1
		})).Return(nil).Once()

		item, err := svc.CreateItem(ctx, 1, models.Item{Name: "Drill", Description: "x", Available: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.OwnerID)
		repo.AssertExpectations(t)
	})

	t.Run("PatchAppliesOnlyProvidedFields", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		existing := &models.Item{ID: 5, Name: "Drill", Description: "old", Available: true, OwnerID: 1}
		repo.On("GetItem", ctx, int64(5)).Return(existing, nil).Once()
		repo.On("UpdateItem", ctx, mock.Anything).Return(nil).Once()

		item, err := svc.UpdateItem(ctx, 1, 5, models.ItemPatch{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Drill", item.Name)
		assert.Equal(t, "old", item.Description)
		assert.False(t, item.Available)
	})

	t.Run("NonOwnerCannotPatch", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetItem", ctx, int64(5)).Return(&models.Item{ID: 5, OwnerID: 1}, nil).Once()

		_, err := svc.UpdateItem(ctx, 2, 5, models.ItemPatch{Name: strPtr("Stolen")})
		assert.ErrorIs(t, err, domain.ErrOwnerChange)
	})

	t.Run("NonOwnerCannotDelete", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetItem", ctx, int64(5)).Return(&models.Item{ID: 5, OwnerID: 1}, nil).Once()

		err := svc.DeleteItem(ctx, 2, 5)
		assert.ErrorIs(t, err, domain.ErrNotItemOwner)
	})
}

func TestItemServiceSearch(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	svc := NewItemService(new(mockRepo), nil, nil, &logger)

	t.Run("BlankTextReturnsEmpty", func(t *testing.T) {
		items, err := svc.SearchItems(ctx, "   ", 0, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("BadPage", func(t *testing.T) {
		_, err := svc.SearchItems(ctx, "drill", 0, -1)
		assert.ErrorIs(t, err, domain.ErrBadPage)
	})
}

func TestItemServiceProjection(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	bookings := []*models.Booking{
		{ID: 1, ItemID: 5, BookerID: 3, Start: now.Add(-10 * time.Hour), Status: models.StatusApproved},
		{ID: 2, ItemID: 5, BookerID: 4, Start: now.Add(-5 * time.Hour), Status: models.StatusApproved},
		{ID: 3, ItemID: 5, BookerID: 3, Start: now.Add(5 * time.Hour), Status: models.StatusWaiting},
		{ID: 4, ItemID: 5, BookerID: 4, Start: now.Add(10 * time.Hour), Status: models.StatusWaiting},
	}

	t.Run("OwnerSeesLastAndNext", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetItem", ctx, int64(5)).Return(&models.Item{ID: 5, OwnerID: 1}, nil).Once()
		repo.On("ListItemComments", ctx, int64(5)).Return([]models.Comment{}, nil).Once()
		repo.On("ListItemBookings", ctx, []int64{5}, []string{models.StatusWaiting, models.StatusApproved}).
			Return(bookings, nil).Once()

		view, err := svc.GetItemView(ctx, 1, 5)
		require.NoError(t, err)
		require.NotNil(t, view.LastBooking)
		require.NotNil(t, view.NextBooking)
		// last is the latest start before now, next the earliest after
		assert.Equal(t, int64(2), view.LastBooking.ID)
		assert.Equal(t, int64(3), view.NextBooking.ID)
	})

	t.Run("NonOwnerSeesNoProjection", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetItem", ctx, int64(5)).Return(&models.Item{ID: 5, OwnerID: 1}, nil).Once()
		repo.On("ListItemComments", ctx, int64(5)).Return([]models.Comment{}, nil).Once()

		view, err := svc.GetItemView(ctx, 9, 5)
		require.NoError(t, err)
		assert.Nil(t, view.LastBooking)
		assert.Nil(t, view.NextBooking)
	})

	t.Run("BoundaryStartFallsInNeitherSlot", func(t *testing.T) {
		last, next := projectBookings([]*models.Booking{
			{ID: 1, Start: now},
		}, now)
		assert.Nil(t, last)
		assert.Nil(t, next)
	})

	t.Run("OwnedListPartitionsPerItem", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		items := []*models.Item{
			{ID: 5, OwnerID: 1},
			{ID: 6, OwnerID: 1},
		}
		repo.On("GetItemsByOwner", ctx, int64(1), 10, 0).Return(items, nil).Once()
		repo.On("ListItemBookings", ctx, []int64{5, 6}, mock.Anything).Return(bookings, nil).Once()
		repo.On("ListItemComments", ctx, int64(5)).Return([]models.Comment{}, nil).Once()
		repo.On("ListItemComments", ctx, int64(6)).Return([]models.Comment{}, nil).Once()

		views, err := svc.ListOwnedItemViews(ctx, 1, 0, 10)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, int64(5), views[0].ID)
		assert.NotNil(t, views[0].LastBooking)
		assert.Nil(t, views[1].LastBooking)
	})
}

func TestItemServiceComments(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	author := &models.User{ID: 3, Name: "Carol"}
	item := &models.Item{ID: 5, OwnerID: 1}

	t.Run("BookerWithStartedBookingMayComment", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := NewItemService(repo, bus, domain.FixedClock{T: now}, &logger)

		repo.On("GetUser", ctx, int64(3)).Return(author, nil).Once()
		repo.On("GetItem", ctx, int64(5)).Return(item, nil).Once()
		repo.On("ListItemBookings", ctx, []int64{5}, mock.Anything).Return([]*models.Booking{
			{ID: 1, ItemID: 5, BookerID: 3, Start: now.Add(-time.Hour), Status: models.StatusApproved},
		}, nil).Once()
		repo.On("CreateComment", ctx, mock.Anything).Return(nil).Once()
		bus.On("PublishJSON", "comment_created", mock.Anything).Return(nil).Once()

		comment, err := svc.CreateComment(ctx, 3, 5, "works great", now)
		require.NoError(t, err)
		assert.Equal(t, "Carol", comment.AuthorName)
		repo.AssertExpectations(t)
	})

	t.Run("FutureBookingDenied", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetUser", ctx, int64(3)).Return(author, nil).Once()
		repo.On("GetItem", ctx, int64(5)).Return(item, nil).Once()
		repo.On("ListItemBookings", ctx, []int64{5}, mock.Anything).Return([]*models.Booking{
			{ID: 1, ItemID: 5, BookerID: 3, Start: now.Add(time.Hour), Status: models.StatusApproved},
		}, nil).Once()

		_, err := svc.CreateComment(ctx, 3, 5, "premature", now)
		assert.ErrorIs(t, err, domain.ErrCommentDenied)
	})

	t.Run("NonBookerDenied", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewItemService(repo, nil, domain.FixedClock{T: now}, &logger)

		repo.On("GetUser", ctx, int64(8)).Return(&models.User{ID: 8}, nil).Once()
		repo.On("GetItem", ctx, int64(5)).Return(item, nil).Once()
		repo.On("ListItemBookings", ctx, []int64{5}, mock.Anything).Return([]*models.Booking{
			{ID: 1, ItemID: 5, BookerID: 3, Start: now.Add(-time.Hour), Status: models.StatusApproved},
		}, nil).Once()

		_, err := svc.CreateComment(ctx, 8, 5, "drive-by", now)
		assert.ErrorIs(t, err, domain.ErrCommentDenied)
	})

	t.Run("BlankTextDenied", func(t *testing.T) {
		svc := NewItemService(new(mockRepo), nil, domain.FixedClock{T: now}, &logger)

		_, err := svc.CreateComment(ctx, 3, 5, "  ", now)
		assert.ErrorIs(t, err, domain.ErrCommentDenied)
	})
}
