package domain

import "time"

// Session is a persisted refresh-token grant. Only a bcrypt hash of the
// token is stored; the opaque token itself is returned to the caller once.
type Session struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
