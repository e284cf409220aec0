package api

import (
	"net/http"
	"strconv"
	"time"

	"shareit/internal/models"
)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req models.BookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), userID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeBadRequest(w, "approved query parameter is required")
		return
	}

	booking, err := s.bookings.DecideBooking(r.Context(), userID, bookingID, approved)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.bookings.DeleteBooking(r.Context(), userID, bookingID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bucketState(r *http.Request) string {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = models.BucketAll
	}
	return state
}

func (s *Server) handleListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	bookings, err := s.bookings.ListMyBookings(r.Context(), userID, bucketState(r), from, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	bookings, err := s.bookings.ListBookingsOnMyItems(r.Context(), userID, bucketState(r), from, size)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeBadRequest(w, "invalid start date; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeBadRequest(w, "invalid end date; expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeBadRequest(w, "end date precedes start date")
		return
	}

	filePath, err := s.exporter.BookingsReport(r.Context(), start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": filePath})
}
