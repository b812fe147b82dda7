package domain

import "errors"

// Sentinel errors matched with errors.Is at the API boundary.
// Authorization failures stay distinct from not-found so the HTTP
// layer can answer 403 vs 404.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("item request not found")

	ErrEmailTaken        = errors.New("email already in use")
	ErrItemUnavailable   = errors.New("item is not available for booking")
	ErrSelfBooking       = errors.New("owner cannot book their own item")
	ErrInvalidTimeWindow = errors.New("invalid booking time window")

	ErrNotOwner     = errors.New("user is not the item owner")
	ErrAccessDenied = errors.New("access denied")

	ErrInvalidTransition = errors.New("booking is already decided")
	ErrUnsupportedState  = errors.New("unsupported state filter")
)
