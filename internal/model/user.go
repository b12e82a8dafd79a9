package model

import (
	"time"
)

// User is an address-book account. Accounts are anonymous: the PIN is the
// only credential, exchanged for a JWT at login.
type User struct {
	ID        string     `json:"id"`
	PIN       string     `json:"pin"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
