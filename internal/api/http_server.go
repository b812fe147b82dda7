package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the sharing service over HTTP. The acting user is
// taken from the X-Sharer-User-Id header on every route that needs one.
type HTTPServer struct {
	cfg      *config.Config
	bookings domain.BookingService
	users    domain.UserService
	items    domain.ItemService
	requests domain.RequestService
	limiter  domain.RateLimiter
	exporter Exporter
	logger   *zerolog.Logger
	server   *http.Server
}

// Exporter is the admin report hook; nil disables /admin/export.
type Exporter interface {
	BookingsReport(ctx context.Context) (string, error)
}

func NewHTTPServer(
	cfg *config.Config,
	bookings domain.BookingService,
	users domain.UserService,
	items domain.ItemService,
	requests domain.RequestService,
	limiter domain.RateLimiter,
	exporter Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		users:    users,
		items:    items,
		requests: requests,
		limiter:  limiter,
		exporter: exporter,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{id}", srv.handleApproveBooking)
	mux.HandleFunc("GET /bookings/owner", srv.handleBookingsByOwner)
	mux.HandleFunc("GET /bookings/{id}", srv.handleGetBooking)
	mux.HandleFunc("GET /bookings", srv.handleBookingsByBooker)

	mux.HandleFunc("POST /users", srv.handleCreateUser)
	mux.HandleFunc("GET /users", srv.handleListUsers)
	mux.HandleFunc("GET /users/{id}", srv.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", srv.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", srv.handleDeleteUser)

	mux.HandleFunc("POST /items", srv.handleCreateItem)
	mux.HandleFunc("GET /items", srv.handleItemsByOwner)
	mux.HandleFunc("GET /items/{id}", srv.handleGetItem)
	mux.HandleFunc("PATCH /items/{id}", srv.handleUpdateItem)

	mux.HandleFunc("POST /requests", srv.handleCreateRequest)
	mux.HandleFunc("GET /requests/all", srv.handleAllRequests)
	mux.HandleFunc("GET /requests", srv.handleOwnRequests)

	mux.HandleFunc("GET /healthz", srv.handleHealthz)
	mux.HandleFunc("GET /readyz", srv.handleHealthz)
	mux.HandleFunc("GET /admin/export", srv.handleExport)

	handler := srv.requestIDMiddleware(srv.loggingMiddleware(srv.rateLimitMiddleware(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteSecs) * time.Second,
	}

	return srv
}

// Handler returns the routed handler with middleware applied, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}

	filePath, err := s.exporter.BookingsReport(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export error")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": filePath})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError translates domain sentinels into HTTP statuses.
// Visibility failures stay 403; absence stays 404. Booking your own
// item reads as "item not found for booking" to the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrSelfBooking):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrInvalidTimeWindow),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrUnsupportedState):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
