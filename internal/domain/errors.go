package domain

import "errors"

// Sentinel errors the services return. The HTTP boundary maps them onto
// status codes; everything else is treated as an internal error.
var (
	ErrUserNotFound    = errors.New("there is no user with this id")
	ErrItemNotFound    = errors.New("there is no item with this id")
	ErrBookingNotFound = errors.New("there is no booking with this id")
	ErrRequestNotFound = errors.New("there is no request with this id")

	// ErrOwnBooking is reported as not-found on purpose: an owner's own
	// items are hidden from their booking flow.
	ErrOwnBooking  = errors.New("you can't book your own items")
	ErrOwnerChange = errors.New("you can't change the owner")
	ErrNotDecider  = errors.New("you can't change the booker")

	ErrItemUnavailable = errors.New("the item is not available for rent")
	ErrBadPeriod       = errors.New("incorrect start and/or end date of the lease")
	ErrBadPage         = errors.New("the from parameter must be greater than or equal to 0; size is greater than 0")
	ErrTooLate         = errors.New("it's too late to change anything")
	ErrUnknownState    = errors.New("unknown state")
	ErrCommentDenied   = errors.New("you can't add a comment to an item you didn't book")
	ErrBlankRequest    = errors.New("the request description can't be blank")
	ErrEmailExists     = errors.New("email exist, not created new user")

	// ErrEmptyResult is reported as an internal error at the boundary;
	// clients depend on the status.
	ErrEmptyResult  = errors.New("incorrect data in the request")
	ErrNotBooker    = errors.New("only its booker can delete a booking")
	ErrNotItemOwner = errors.New("only its owner can delete an item")
)
