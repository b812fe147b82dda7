package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	BookerID  int64     `json:"booker_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"` // WAITING, APPROVED, REJECTED, CANCELED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingRequest is the already-validated payload for creating a booking.
type BookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// IsCurrent reports whether the booking interval contains now.
// Bookings touching the boundary instant belong to no temporal bucket.
func (b *Booking) IsCurrent(now time.Time) bool {
	return b.Start.Before(now) && b.End.After(now)
}

func (b *Booking) IsPast(now time.Time) bool {
	return b.End.Before(now)
}

func (b *Booking) IsFuture(now time.Time) bool {
	return b.Start.After(now)
}
