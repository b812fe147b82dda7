package models

import "time"

// ItemRequest is a wish posted by a user: "I need an item like this".
type ItemRequest struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
