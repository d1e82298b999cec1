package models

import (
	"time"
)

// User is a registered account. Accounts are keyed by email and authenticate
// with a bcrypt password hash.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash []byte
	Created      time.Time
}
