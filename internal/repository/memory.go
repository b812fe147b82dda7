package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// MemoryStore is the in-process reference store. A single RWMutex
// guards the maps and the id counters, so id assignment and insertion
// are atomic and readers never observe a partially written record.
// All reads return copies.
type MemoryStore struct {
	mu sync.RWMutex

	bookings map[int64]*models.Booking
	users    map[int64]*models.User
	items    map[int64]*models.Item
	requests map[int64]*models.ItemRequest

	emails map[string]int64 // email -> user id

	lastBookingID int64
	lastUserID    int64
	lastItemID    int64
	lastRequestID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[int64]*models.Booking),
		users:    make(map[int64]*models.User),
		items:    make(map[int64]*models.Item),
		requests: make(map[int64]*models.ItemRequest),
		emails:   make(map[string]int64),
	}
}

func (s *MemoryStore) SaveBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID != 0 {
		return fmt.Errorf("booking id is assigned by the store, got %d", booking.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBookingID++
	now := time.Now()
	booking.ID = s.lastBookingID
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	s.bookings[booking.ID] = &stored
	return nil
}

func (s *MemoryStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (s *MemoryStore) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	booking.UpdatedAt = time.Now()
	stored := *booking
	s.bookings[booking.ID] = &stored
	return nil
}

func (s *MemoryStore) ListBookingsByBooker(ctx context.Context, bookerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error) {
	s.mu.RLock()
	filtered := make([]*models.Booking, 0)
	for _, b := range s.bookings {
		if b.BookerID != bookerID || !matchesFilter(b, state, now) {
			continue
		}
		copied := *b
		filtered = append(filtered, &copied)
	}
	s.mu.RUnlock()

	sortByStartDesc(filtered)
	return paginate(filtered, from, size), nil
}

func (s *MemoryStore) ListBookingsByOwner(ctx context.Context, ownerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error) {
	s.mu.RLock()
	filtered := make([]*models.Booking, 0)
	for _, b := range s.bookings {
		// Owner is resolved live through the item, not snapshotted on
		// the booking.
		item, ok := s.items[b.ItemID]
		if !ok || item.OwnerID != ownerID || !matchesFilter(b, state, now) {
			continue
		}
		copied := *b
		filtered = append(filtered, &copied)
	}
	s.mu.RUnlock()

	sortByStartDesc(filtered)
	return paginate(filtered, from, size), nil
}

func (s *MemoryStore) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		copied := *b
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *MemoryStore) DeleteBooking(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bookings, id)
	return nil
}

// matchesFilter applies the state filter table: status tokens compare
// the stored status, temporal tokens classify against now, anything
// unrecognized matches nothing.
func matchesFilter(b *models.Booking, state string, now time.Time) bool {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "", models.FilterAll:
		return true
	case models.StatusWaiting:
		return b.Status == models.StatusWaiting
	case models.StatusApproved:
		return b.Status == models.StatusApproved
	case models.StatusRejected:
		return b.Status == models.StatusRejected
	case models.StatusCanceled:
		return b.Status == models.StatusCanceled
	case models.FilterCurrent:
		return b.IsCurrent(now)
	case models.FilterPast:
		return b.IsPast(now)
	case models.FilterFuture:
		return b.IsFuture(now)
	default:
		return false
	}
}

func sortByStartDesc(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].Start.After(bookings[j].Start)
	})
}

func paginate(list []*models.Booking, from, size int) []*models.Booking {
	if from < 0 || size < 0 {
		return []*models.Booking{}
	}
	start := min(from, len(list))
	end := min(from+size, len(list))
	return list[start:end]
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return domain.ErrEmailTaken
	}

	s.lastUserID++
	now := time.Now()
	user.ID = s.lastUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if owner, taken := s.emails[*upd.Email]; taken && owner != id {
			return nil, domain.ErrEmailTaken
		}
		delete(s.emails, user.Email)
		user.Email = *upd.Email
		s.emails[user.Email] = id
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) AllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.emails, user.Email)
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastItemID++
	now := time.Now()
	item.ID = s.lastItemID
	item.CreatedAt = now
	item.UpdatedAt = now

	stored := *item
	s.items[item.ID] = &stored
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, id int64, upd models.ItemUpdate) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}
	item.UpdatedAt = time.Now()

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.Item, 0)
	for _, it := range s.items {
		if it.OwnerID != ownerID {
			continue
		}
		copied := *it
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRequestID++
	request.ID = s.lastRequestID
	request.CreatedAt = time.Now()

	stored := *request
	s.requests[request.ID] = &stored
	return nil
}

func (s *MemoryStore) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]*models.ItemRequest, 0)
	for _, r := range s.requests {
		if r.RequesterID != requesterID {
			continue
		}
		copied := *r
		requests = append(requests, &copied)
	}
	sortRequestsNewestFirst(requests)
	return requests, nil
}

func (s *MemoryStore) AllRequests(ctx context.Context) ([]*models.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]*models.ItemRequest, 0, len(s.requests))
	for _, r := range s.requests {
		copied := *r
		requests = append(requests, &copied)
	}
	sortRequestsNewestFirst(requests)
	return requests, nil
}

func sortRequestsNewestFirst(requests []*models.ItemRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
