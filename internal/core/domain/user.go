package domain

import "time"

// MaxUsernameLength bounds usernames in bytes.
const MaxUsernameLength = 64

// MaxPasswordLength is the bcrypt input limit in bytes; longer inputs are
// rejected rather than silently truncated.
const MaxPasswordLength = 72

// User models a registered account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
