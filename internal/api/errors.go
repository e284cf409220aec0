package api

import (
	"errors"
	"net/http"

	"shareit/internal/domain"
)

// errorStatus maps a domain error to its HTTP status and response field.
// Not-found class errors answer {"message": ...}, validation class errors
// answer {"error": ...}. Clients rely on the split.
func errorStatus(err error) (status int, field string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrOwnBooking),
		errors.Is(err, domain.ErrOwnerChange),
		errors.Is(err, domain.ErrNotDecider):
		return http.StatusNotFound, "message"

	case errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrBadPeriod),
		errors.Is(err, domain.ErrBadPage),
		errors.Is(err, domain.ErrTooLate),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrCommentDenied),
		errors.Is(err, domain.ErrBlankRequest),
		errors.Is(err, domain.ErrNotBooker),
		errors.Is(err, domain.ErrNotItemOwner):
		return http.StatusBadRequest, "error"

	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "message"

	case errors.Is(err, domain.ErrEmptyResult):
		return http.StatusInternalServerError, "message"
	}

	return http.StatusInternalServerError, "message"
}

func respondError(w http.ResponseWriter, err error) {
	status, field := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrEmptyResult) {
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{field: message})
}
