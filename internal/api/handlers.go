package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"
)

// sharerHeader carries the acting user's id on every authenticated route.
const sharerHeader = "X-Sharer-User-Id"

func actingUser(r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.Header.Get(sharerHeader))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageParams parses from/size with defaults; negatives are rejected at
// this boundary so the stores never see them.
func (s *HTTPServer) pageParams(r *http.Request) (from, size int, ok bool) {
	from, size = 0, s.cfg.Booking.DefaultPageSize

	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		size = v
	}
	return from, size, true
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// --- bookings ---

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved query parameter is required")
		return
	}

	booking, err := s.bookings.ApproveBooking(r.Context(), bookingID, userID, approved)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := s.bookings.GetBookingByID(r.Context(), bookingID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleBookingsByBooker(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}
	from, size, ok := s.pageParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "from and size must be non-negative integers")
		return
	}

	bookings, err := s.bookings.GetBookingsByBooker(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}
	from, size, ok := s.pageParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "from and size must be non-negative integers")
		return
	}

	bookings, err := s.bookings.GetBookingsByOwner(r.Context(), userID, r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// --- users ---

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(r, &user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	created, err := s.users.Create(r.Context(), &user)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var upd models.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Update(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- items ---

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	var item models.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(item.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := s.items.Create(r.Context(), userID, &item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleItemsByOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	items, err := s.items.GetByOwner(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.items.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var upd models.ItemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.items.Update(r.Context(), itemID, userID, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- requests ---

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	var body struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	request, err := s.requests.Create(r.Context(), userID, body.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *HTTPServer) handleOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	requests, err := s.requests.GetOwn(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleAllRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Sharer-User-Id header")
		return
	}

	requests, err := s.requests.GetAll(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
