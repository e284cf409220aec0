package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// BookingPage parameterizes a bucket query over bookings.
type BookingPage struct {
	Mode   string
	Now    time.Time
	Limit  int
	Offset int
}

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	SearchItems(ctx context.Context, text string, limit, offset int) ([]*models.Item, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status string) error
	ListBookingsByBooker(ctx context.Context, bookerID int64, page BookingPage) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, page BookingPage) ([]*models.Booking, error)
	ListItemBookings(ctx context.Context, itemIDs []int64, statuses []string) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	ListItemComments(ctx context.Context, itemID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	UpdateRequest(ctx context.Context, request *models.ItemRequest) error
	DeleteRequest(ctx context.Context, id int64) error
	ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	ListRequestsOfOthers(ctx context.Context, requestorID int64, limit, offset int) ([]*models.ItemRequest, error)
}

// UserCache is a look-aside cache in front of the user directory.
type UserCache interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	Invalidate(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID int64, req models.BookingRequest) (*models.Booking, error)
	DecideBooking(ctx context.Context, userID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	DeleteBooking(ctx context.Context, userID, bookingID int64) error
	ListMyBookings(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	ListBookingsOnMyItems(ctx context.Context, userID int64, state string, from, size int) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, userID int64, item models.Item) (*models.Item, error)
	GetItemView(ctx context.Context, userID, itemID int64) (*models.ItemView, error)
	ListOwnedItemViews(ctx context.Context, userID int64, from, size int) ([]*models.ItemView, error)
	UpdateItem(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, userID, itemID int64) error
	SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error)
	CreateComment(ctx context.Context, userID, itemID int64, text string, created time.Time) (*models.Comment, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error)
	UpdateRequest(ctx context.Context, userID, requestID int64, description *string) (*models.ItemRequest, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
	ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error)
	DeleteRequest(ctx context.Context, requestID int64) error
}
