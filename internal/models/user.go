package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate carries the fields of a partial user update.
// Nil means "leave unchanged".
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
