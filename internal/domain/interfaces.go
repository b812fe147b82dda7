package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Clock supplies "now" for temporal booking classification.
// Injected so tests can pin the instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// BookingStore owns booking identity assignment and the filtered,
// sorted, paginated listing queries. Listings are ordered by start
// descending; "now" is passed in by the caller so CURRENT/PAST/FUTURE
// classification stays clock-injectable.
type BookingStore interface {
	SaveBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	ListBookingsByBooker(ctx context.Context, bookerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, state string, now time.Time, from, size int) ([]*models.Booking, error)
	AllBookings(ctx context.Context) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	AllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, upd models.ItemUpdate) (*models.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	ListRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	AllRequests(ctx context.Context) ([]*models.ItemRequest, error)
}

// Store is the full persistence surface. Both the in-memory store and
// the SQLite store implement it.
type Store interface {
	BookingStore
	UserStore
	ItemStore
	RequestStore
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter answers whether a caller identified by key may proceed
// within a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.Booking, error)
	ApproveBooking(ctx context.Context, bookingID, ownerID int64, approved bool) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*models.Booking, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, itemID, ownerID int64, upd models.ItemUpdate) (*models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
}

type RequestService interface {
	Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error)
	GetOwn(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetAll(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
}
