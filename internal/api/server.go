package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/export"

	"github.com/rs/zerolog"
)

// userHeader identifies the caller on every authenticated route. The value
// is trusted as-given; an upstream gateway is expected to vet it.
const userHeader = "X-Sharer-User-Id"

// Server exposes the HTTP API over the domain services.
type Server struct {
	cfg      config.APIConfig
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	exporter *export.Exporter
	db       *database.DB
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.APIConfig,
	users domain.UserService,
	items domain.ItemService,
	bookings domain.BookingService,
	requests domain.RequestService,
	exporter *export.Exporter,
	db *database.DB,
	logger *zerolog.Logger,
) *Server {
	srv := &Server{
		cfg:      cfg,
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		exporter: exporter,
		db:       db,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", srv.handleCreateUser)
	mux.HandleFunc("GET /users", srv.handleListUsers)
	mux.HandleFunc("GET /users/{id}", srv.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", srv.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", srv.handleDeleteUser)

	mux.HandleFunc("POST /items", srv.handleCreateItem)
	mux.HandleFunc("GET /items", srv.handleListOwnedItems)
	mux.HandleFunc("GET /items/search", srv.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", srv.handleGetItem)
	mux.HandleFunc("PATCH /items/{id}", srv.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", srv.handleDeleteItem)
	mux.HandleFunc("POST /items/{id}/comment", srv.handleCreateComment)

	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("GET /bookings", srv.handleListMyBookings)
	mux.HandleFunc("GET /bookings/owner", srv.handleListOwnerBookings)
	mux.HandleFunc("GET /bookings/{id}", srv.handleGetBooking)
	mux.HandleFunc("PATCH /bookings/{id}", srv.handleDecideBooking)
	mux.HandleFunc("DELETE /bookings/{id}", srv.handleDeleteBooking)

	mux.HandleFunc("POST /requests", srv.handleCreateRequest)
	mux.HandleFunc("GET /requests", srv.handleListOwnRequests)
	mux.HandleFunc("GET /requests/all", srv.handleListOtherRequests)
	mux.HandleFunc("GET /requests/{id}", srv.handleGetRequest)
	mux.HandleFunc("PATCH /requests/{id}", srv.handleUpdateRequest)
	mux.HandleFunc("DELETE /requests/{id}", srv.handleDeleteRequest)

	mux.HandleFunc("GET /admin/bookings/export", srv.handleExportBookings)
	mux.HandleFunc("GET /healthz", srv.handleHealth)

	handler := requestIDMiddleware(
		loggingMiddleware(logger,
			metricsMiddleware(
				rateLimitMiddleware(cfg.RateLimit, mux))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the composed HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// callerID extracts and validates the user header.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(userHeader)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", userHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header is invalid", userHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// pageParams parses from/size query parameters with the listing defaults.
func pageParams(r *http.Request) (from, size int, err error) {
	from, size = 0, 10
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("invalid from")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("invalid size")
		}
	}
	return from, size, nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}
